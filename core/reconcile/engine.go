package reconcile

import (
	"context"
	"fmt"
)

// Ensure reconciles one remote object toward the desired field values.
//
// With an empty key the operation is always a creation: the whole desired
// mapping is new, Changed is unconditionally true, and the create call is
// issued unless opts.DryRun is set.
//
// With a key the current object is fetched (absence is fatal -- there is no
// silent create-on-missing fallback), projected onto the desired field
// names, and diffed. A partial-update call is issued only when the diff is
// non-empty and dry-run is off.
func Ensure(ctx context.Context, a Adapter, key string, desired map[string]any, opts Options) (*Result, error) {
	if key == "" {
		return create(ctx, a, desired, opts)
	}

	current, err := a.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{Kind: a.Name(), Key: key}
	}

	res := newResult()
	if len(desired) == 0 {
		// Nothing requested: report the no-op without comparing.
		return res, nil
	}

	before := a.Project(current, keysOf(desired))
	delta := Diff(before, desired)

	res.Before = before
	res.After = merge(before, desired)
	res.Diff = delta
	if len(delta) == 0 {
		return res, nil
	}

	res.Changed = true
	if opts.DryRun {
		return res, nil
	}

	resp, err := a.Update(ctx, key, a.UpdatePayload(current, desired, delta))
	if err != nil {
		return nil, err
	}
	res.Response = resp
	return res, nil
}

// create handles the keyless path of Ensure. Every creation is a change.
func create(ctx context.Context, a Adapter, desired map[string]any, opts Options) (*Result, error) {
	res := newResult()
	res.Changed = true
	res.After = merge(nil, desired)
	res.Diff = merge(nil, desired)

	if opts.DryRun {
		return res, nil
	}

	resp, err := a.Create(ctx, desired)
	if err != nil {
		return nil, err
	}
	res.Response = resp
	return res, nil
}

// Remove deletes one remote object by key.
//
// Deleting an object that does not exist is a successful no-op with
// Changed=false. When the object exists, its managed fields are reported as
// Before and Diff, and the delete call is issued unless opts.DryRun is set.
func Remove(ctx context.Context, a Adapter, key string, opts Options) (*Result, error) {
	if key == "" {
		return nil, fmt.Errorf("%s: a key is required for removal", a.Name())
	}

	current, err := a.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		// Already absent.
		return newResult(), nil
	}

	res := newResult()
	res.Before = a.Project(current, a.Fields())
	res.Diff = merge(nil, res.Before)
	res.Changed = true

	if opts.DryRun {
		return res, nil
	}

	resp, err := a.Delete(ctx, key)
	if err != nil {
		return nil, err
	}
	res.Response = resp
	return res, nil
}
