package glasstable

import (
	"context"
	"net/url"
	"strconv"

	"itsictl/core/itsi"
)

// Query selects glass tables for List. When GlassTableID is set all other
// options are ignored and the result is at most one element; otherwise the
// options are forwarded to the API as server-side query parameters.
type Query struct {
	GlassTableID string
	// Filter is a MongoDB-style JSON filter string, e.g. `{"title": "Ops"}`.
	Filter string
	// Fields is a comma-separated projection of field names to return.
	Fields string
	// Count is the page size; zero means server default.
	Count int
	// Offset is the number of results to skip.
	Offset int
	// SortKey is the field to sort by.
	SortKey string
	// SortDir is "asc" or "desc".
	SortDir string
}

// List reads glass tables. A lookup by _key that finds nothing returns an
// empty list, not an error; this is a read-only operation and never mutates
// remote state.
func (s *Service) List(ctx context.Context, query Query) ([]map[string]any, error) {
	if query.SortDir != "" && query.SortDir != "asc" && query.SortDir != "desc" {
		return nil, itsi.Validationf("sort_dir must be \"asc\" or \"desc\", got %q", query.SortDir)
	}

	if query.GlassTableID != "" {
		obj, err := s.adapter.Fetch(ctx, query.GlassTableID)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return []map[string]any{}, nil
		}
		return []map[string]any{obj}, nil
	}

	body, err := s.adapter.client.Get(ctx, itsi.GlassTablePath, query.values())
	if err != nil {
		return nil, err
	}

	list, ok := body.([]any)
	if !ok {
		return []map[string]any{}, nil
	}
	tables := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			tables = append(tables, obj)
		}
	}
	return tables, nil
}

// values encodes the non-empty list options as API query parameters.
func (q Query) values() url.Values {
	values := url.Values{}
	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}
	if q.Fields != "" {
		values.Set("fields", q.Fields)
	}
	if q.Count > 0 {
		values.Set("count", strconv.Itoa(q.Count))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.SortKey != "" {
		values.Set("sort_key", q.SortKey)
	}
	if q.SortDir != "" {
		values.Set("sort_dir", q.SortDir)
	}
	return values
}
