package reconcile

import "context"

// Adapter defines the interface for object-type-specific remote operations.
// Each adapter binds the engine to one kind of remote object (e.g., glass
// tables) and encapsulates that object's API quirks: endpoint paths, payload
// stamping, and any flattening between the API representation and the flat
// field names the caller works with.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "glass_table").
	Name() string

	// Fields returns the field names this adapter manages for diff tracking.
	Fields() []string

	// Fetch retrieves the current remote object by its unique key.
	// Returns nil with no error when the object does not exist; the engine
	// decides whether absence is fatal.
	Fetch(ctx context.Context, key string) (map[string]any, error)

	// Project extracts the comparable values for the given field names from
	// a raw remote object, flattening any API-side nesting so the result is
	// keyed exactly like the caller's desired mapping.
	Project(current map[string]any, fields []string) map[string]any

	// Create issues the creation call and returns the raw API response.
	Create(ctx context.Context, desired map[string]any) (map[string]any, error)

	// UpdatePayload builds the wire payload for a partial update from the
	// detected diff. The remote API requires full replacement of any nested
	// field that changed, so the payload carries the full desired value of
	// every changed top-level field; the diff itself is a detection artifact
	// and never goes on the wire.
	UpdatePayload(current, desired, diff map[string]any) map[string]any

	// Update issues the partial-update call for the given key and returns
	// the raw API response.
	Update(ctx context.Context, key string, payload map[string]any) (map[string]any, error)

	// Delete removes the remote object and returns the raw API response.
	Delete(ctx context.Context, key string) (map[string]any, error)
}
