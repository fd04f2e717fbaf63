package glasstable

import (
	"context"

	"itsictl/core/itsi"
	"itsictl/core/reconcile"

	"go.uber.org/zap"
)

// Desired states for Apply.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// Sharing levels accepted by the API.
const (
	SharingUser = "user"
	SharingApp  = "app"
)

// Params are the caller-supplied fields for Apply. Pointer fields and a nil
// Definition mean "not supplied": unsupplied fields are never compared or
// written.
type Params struct {
	// GlassTableID is the _key of an existing glass table. Required for
	// StateAbsent. With StatePresent it selects update; when empty a new
	// glass table is always created.
	GlassTableID string

	// Title of the glass table. Required on creation. Titles are not unique.
	Title *string

	// Description text.
	Description *string

	// Definition is the raw JSON definition object, passed to the API as-is.
	// Required on creation.
	Definition map[string]any

	// Sharing is the acl sharing level: "user" (private) or "app".
	Sharing *string

	// State is the desired state, StatePresent (default) or StateAbsent.
	State string

	// DryRun computes the diff and reports what would happen without
	// issuing any mutating call.
	DryRun bool
}

// desired builds the desired field mapping from the supplied parameters.
func (p Params) desired() map[string]any {
	desired := map[string]any{}
	if p.Title != nil {
		desired["title"] = *p.Title
	}
	if p.Description != nil {
		desired["description"] = *p.Description
	}
	if p.Definition != nil {
		desired["definition"] = p.Definition
	}
	if p.Sharing != nil {
		desired["sharing"] = *p.Sharing
	}
	return desired
}

// Service handles glass table operations.
type Service struct {
	adapter *Adapter
	logger  *zap.Logger
}

// NewService creates a new glass table service.
func NewService(client itsi.Client, logger *zap.Logger) *Service {
	return &Service{
		adapter: NewAdapter(client),
		logger:  logger,
	}
}

// Apply reconciles a glass table toward the desired state. It validates the
// parameters, then delegates the read-compare-update (or delete) cycle to
// the reconcile engine.
func (s *Service) Apply(ctx context.Context, params Params) (*reconcile.Result, error) {
	state := params.State
	if state == "" {
		state = StatePresent
	}

	if err := validate(state, params); err != nil {
		return nil, err
	}

	opts := reconcile.Options{DryRun: params.DryRun}

	if state == StateAbsent {
		res, err := reconcile.Remove(ctx, s.adapter, params.GlassTableID, opts)
		if err != nil {
			return nil, err
		}
		s.logger.Info("glass table removal reconciled",
			zap.String("glass_table_id", params.GlassTableID),
			zap.Bool("changed", res.Changed),
			zap.Bool("dry_run", params.DryRun))
		return res, nil
	}

	res, err := reconcile.Ensure(ctx, s.adapter, params.GlassTableID, params.desired(), opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("glass table reconciled",
		zap.String("glass_table_id", params.GlassTableID),
		zap.Bool("changed", res.Changed),
		zap.Int("diff_fields", len(res.Diff)),
		zap.Bool("dry_run", params.DryRun))
	return res, nil
}

// validate checks the parameter combination before any network call.
func validate(state string, params Params) error {
	switch state {
	case StatePresent, StateAbsent:
	default:
		return itsi.Validationf("state must be %q or %q, got %q", StatePresent, StateAbsent, state)
	}

	if params.Sharing != nil && *params.Sharing != SharingUser && *params.Sharing != SharingApp {
		return itsi.Validationf("sharing must be %q or %q, got %q", SharingUser, SharingApp, *params.Sharing)
	}

	if state == StateAbsent {
		if params.GlassTableID == "" {
			return itsi.Validationf("glass_table_id is required for state=absent (titles are not unique)")
		}
		return nil
	}

	// Creation path: no id supplied.
	if params.GlassTableID == "" {
		if params.Title == nil {
			return itsi.Validationf("'title' is required when creating a new glass table")
		}
		if params.Definition == nil {
			return itsi.Validationf("'definition' is required when creating a new glass table")
		}
	}
	return nil
}
