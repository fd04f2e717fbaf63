package reconcile

import "fmt"

// Result describes the outcome of a single reconcile operation.
// All mappings are always non-nil; an operation that performed no write
// leaves Response empty.
type Result struct {
	// Before contains the current values of the targeted fields prior to the
	// operation. Empty when the object did not exist yet.
	Before map[string]any `json:"before"`

	// After contains the desired values merged over Before. When Changed is
	// false, Before and After are identical.
	After map[string]any `json:"after"`

	// Diff contains only the fields whose current value differs from the
	// desired value, recursively minimal for nested mappings.
	Diff map[string]any `json:"diff"`

	// Changed reports whether the remote object was (or, in dry-run mode,
	// would be) modified.
	Changed bool `json:"changed"`

	// Response is the raw API reply of the mutating call. Empty when no
	// mutating call occurred (no-op or dry-run).
	Response map[string]any `json:"response"`
}

// Options controls reconcile behavior.
type Options struct {
	// DryRun suppresses all mutating calls. Reads and diff computation still
	// execute, and the Result reports what would happen.
	DryRun bool
}

// NotFoundError reports that the targeted remote object does not exist.
type NotFoundError struct {
	// Kind is the adapter name, e.g. "glass_table".
	Kind string
	// Key is the unique identifier that was looked up.
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// newResult returns an unchanged Result with all mappings initialized.
// Mirrors the guarantee that before/after/diff/response are always present
// in the output, defaulting to empty mappings.
func newResult() *Result {
	return &Result{
		Before:   map[string]any{},
		After:    map[string]any{},
		Diff:     map[string]any{},
		Response: map[string]any{},
	}
}
