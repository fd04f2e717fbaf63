package glasstable_test

import (
	"context"
	"errors"
	"testing"

	"itsictl/core/itsi"
	"itsictl/core/itsi/itsitest"
	"itsictl/core/reconcile"
	"itsictl/feature/glasstable"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, srv *itsitest.Server) *glasstable.Service {
	t.Helper()
	client, err := itsi.NewClient(srv.ClientConfig(), zap.NewNop(), itsi.WithTransport(srv.Transport()))
	require.NoError(t, err)
	return glasstable.NewService(client, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestApply_Create(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	definition := map[string]any{
		"layout": map[string]any{"type": "absolute"},
	}
	res, err := svc.Apply(context.Background(), glasstable.Params{
		Title:       strPtr("Service Health"),
		Description: strPtr("Overview board"),
		Definition:  definition,
		Sharing:     strPtr(glasstable.SharingApp),
		State:       glasstable.StatePresent,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Empty(t, res.Before)
	assert.Equal(t, "Service Health", res.After["title"])
	assert.Equal(t, res.After, res.Diff)

	key, _ := res.Response["_key"].(string)
	require.NotEmpty(t, key, "response must contain the assigned _key")

	stored := srv.GlassTable(key)
	require.NotNil(t, stored)
	assert.Equal(t, "beta", stored["gt_version"])
	assert.Equal(t, "nobody", stored["_owner"])
	assert.Equal(t, "nobody", stored["_user"])
	assert.Equal(t, map[string]any{"sharing": "app"}, stored["acl"])

	// Title and description are mirrored into the stored definition.
	storedDef, ok := stored["definition"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Service Health", storedDef["title"])
	assert.Equal(t, "Overview board", storedDef["description"])
}

func TestApply_CreateValidation(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	tests := []struct {
		name      string
		params    glasstable.Params
		expectErr string
	}{
		{
			name:      "missing title",
			params:    glasstable.Params{Definition: map[string]any{}},
			expectErr: "'title' is required",
		},
		{
			name:      "missing definition",
			params:    glasstable.Params{Title: strPtr("T")},
			expectErr: "'definition' is required",
		},
		{
			name:      "invalid sharing",
			params:    glasstable.Params{Title: strPtr("T"), Definition: map[string]any{}, Sharing: strPtr("global")},
			expectErr: "sharing must be",
		},
		{
			name:      "invalid state",
			params:    glasstable.Params{State: "deleted"},
			expectErr: "state must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, itsi.IsValidation(err))
			assert.Contains(t, err.Error(), tt.expectErr)
			assert.Equal(t, 0, srv.GlassTableCount(), "validation failures must not reach the API")
		})
	}
}

func TestApply_CreateDryRun(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		Title:      strPtr("T"),
		Definition: map[string]any{},
		DryRun:     true,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Empty(t, res.Response)
	assert.Equal(t, 0, srv.GlassTableCount(), "dry-run must not create anything")
}

func TestApply_UpdateNoOp(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Old"})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		Title:        strPtr("Old"),
	})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, map[string]any{"title": "Old"}, res.Before)
	assert.Equal(t, res.Before, res.After)
	assert.Empty(t, res.Diff)
	assert.Empty(t, res.Response)
}

func TestApply_UpdateChanged(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Old", "description": "keep me"})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		Title:        strPtr("New"),
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, map[string]any{"title": "Old"}, res.Before)
	assert.Equal(t, map[string]any{"title": "New"}, res.After)
	assert.Equal(t, map[string]any{"title": "New"}, res.Diff)
	assert.NotEmpty(t, res.Response)

	stored := srv.GlassTable(key)
	assert.Equal(t, "New", stored["title"])
	assert.Equal(t, "keep me", stored["description"], "partial update must not clobber unrelated fields")
	assert.Equal(t, "nobody", stored["_owner"])
}

func TestApply_UpdateNestedDefinition(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{
		"title":      "Board",
		"definition": map[string]any{"x": float64(1), "y": float64(2)},
	})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		Definition:   map[string]any{"x": float64(1), "y": float64(3)},
	})
	require.NoError(t, err)

	// The reported diff is minimal: only the nested key that changed.
	expected := map[string]any{"definition": map[string]any{"y": float64(3)}}
	if diff := cmp.Diff(expected, res.Diff); diff != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", diff)
	}

	// The wire payload replaced the full definition.
	stored := srv.GlassTable(key)
	storedDef, ok := stored["definition"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), storedDef["x"])
	assert.Equal(t, float64(3), storedDef["y"])
}

func TestApply_UpdateSharingMergesACL(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{
		"title": "Board",
		"acl":   map[string]any{"sharing": "user", "owner": "admin"},
	})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		Sharing:      strPtr(glasstable.SharingApp),
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, map[string]any{"sharing": "user"}, res.Before)
	assert.Equal(t, map[string]any{"sharing": "app"}, res.Diff)

	storedACL, ok := srv.GlassTable(key)["acl"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "app", storedACL["sharing"])
	assert.Equal(t, "admin", storedACL["owner"], "acl merge must preserve other acl fields")
}

func TestApply_UpdateDryRun(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Old"})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		Title:        strPtr("New"),
		DryRun:       true,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, map[string]any{"title": "New"}, res.Diff)
	assert.Empty(t, res.Response)
	assert.Equal(t, "Old", srv.GlassTable(key)["title"], "dry-run must not write")
}

func TestApply_UpdateMissing(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	_, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: "no-such-key",
		Title:        strPtr("T"),
	})
	require.Error(t, err)

	var notFound *reconcile.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 0, srv.GlassTableCount(), "missing update target must not fall back to create")
}

// TestApply_Idempotence runs the same apply twice: the first call writes,
// the second reports no change.
func TestApply_Idempotence(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Old", "description": "D"})
	svc := newService(t, srv)

	params := glasstable.Params{
		GlassTableID: key,
		Title:        strPtr("New"),
		Description:  strPtr("D"),
	}

	first, err := svc.Apply(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := svc.Apply(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, second.Before, second.After)
}

func TestApply_Delete(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Doomed"})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		State:        glasstable.StateAbsent,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, "Doomed", res.Before["title"])
	assert.Equal(t, res.Before, res.Diff)
	assert.Nil(t, srv.GlassTable(key))
}

func TestApply_DeleteAlreadyAbsent(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: "gone",
		State:        glasstable.StateAbsent,
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestApply_DeleteWithoutID(t *testing.T) {
	srv := itsitest.NewServer()
	svc := newService(t, srv)

	_, err := svc.Apply(context.Background(), glasstable.Params{State: glasstable.StateAbsent})
	require.Error(t, err)
	assert.True(t, itsi.IsValidation(err))
	assert.Contains(t, err.Error(), "glass_table_id is required")
}

func TestApply_DeleteDryRun(t *testing.T) {
	srv := itsitest.NewServer()
	key := srv.AddGlassTable(map[string]any{"title": "Survivor"})
	svc := newService(t, srv)

	res, err := svc.Apply(context.Background(), glasstable.Params{
		GlassTableID: key,
		State:        glasstable.StateAbsent,
		DryRun:       true,
	})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Empty(t, res.Response)
	assert.NotNil(t, srv.GlassTable(key), "dry-run must not delete")
}
