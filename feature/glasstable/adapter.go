package glasstable

import (
	"context"
	"net/url"

	"itsictl/core/itsi"
)

// diffFields are the glass table fields managed for diff tracking.
var diffFields = []string{"title", "description", "definition", "sharing"}

// Adapter implements reconcile.Adapter for glass table objects.
type Adapter struct {
	client itsi.Client
}

// NewAdapter creates a glass table adapter over the given client.
func NewAdapter(client itsi.Client) *Adapter {
	return &Adapter{client: client}
}

// Name returns the unique name of this adapter.
func (a *Adapter) Name() string {
	return "glass_table"
}

// Fields returns the managed field names.
func (a *Adapter) Fields() []string {
	return diffFields
}

// Fetch retrieves a glass table by _key. Returns nil when it does not exist.
func (a *Adapter) Fetch(ctx context.Context, key string) (map[string]any, error) {
	body, err := a.client.Get(ctx, itsi.GlassTablePath+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, nil
	}
	return obj, nil
}

// Project extracts the requested flat field values from a raw API object.
// The flat "sharing" field is read from acl.sharing.
func (a *Adapter) Project(current map[string]any, fields []string) map[string]any {
	projected := map[string]any{}
	for _, f := range fields {
		if f == "sharing" {
			projected[f] = sharingOf(current)
			continue
		}
		projected[f] = current[f]
	}
	return projected
}

// Create posts a new glass table built from the desired flat fields.
func (a *Adapter) Create(ctx context.Context, desired map[string]any) (map[string]any, error) {
	return a.client.Post(ctx, itsi.GlassTablePath, nil, createPayload(desired))
}

// UpdatePayload builds the partial-update body: the full desired value of
// every changed top-level field. A changed "sharing" is written back as an
// acl object merged over the current acl so other acl fields survive.
func (a *Adapter) UpdatePayload(current, desired, diff map[string]any) map[string]any {
	payload := map[string]any{}
	for k := range diff {
		if k == "sharing" {
			acl := map[string]any{}
			if currentACL, ok := current["acl"].(map[string]any); ok {
				for ak, av := range currentACL {
					acl[ak] = av
				}
			}
			acl["sharing"] = desired["sharing"]
			payload["acl"] = acl
			continue
		}
		payload[k] = desired[k]
	}
	return payload
}

// Update posts a partial update for the given _key.
func (a *Adapter) Update(ctx context.Context, key string, payload map[string]any) (map[string]any, error) {
	stamped := map[string]any{"_owner": "nobody", "_user": "nobody"}
	for k, v := range payload {
		stamped[k] = v
	}
	query := url.Values{"is_partial_data": {"1"}}
	return a.client.Post(ctx, itsi.GlassTablePath+"/"+url.PathEscape(key), query, stamped)
}

// Delete removes a glass table by _key.
func (a *Adapter) Delete(ctx context.Context, key string) (map[string]any, error) {
	return a.client.Delete(ctx, itsi.GlassTablePath+"/"+url.PathEscape(key))
}

// createPayload builds the API creation body from the desired flat fields.
// The API requires gt_version and owner stamps, stores sharing under acl,
// and expects title/description mirrored into the definition.
func createPayload(desired map[string]any) map[string]any {
	payload := map[string]any{}
	for _, f := range []string{"title", "description", "definition"} {
		if v, ok := desired[f]; ok {
			payload[f] = v
		}
	}

	payload["gt_version"] = "beta"
	payload["_owner"] = "nobody"
	payload["_user"] = "nobody"

	if sharing, ok := desired["sharing"]; ok {
		payload["acl"] = map[string]any{"sharing": sharing}
	}

	// Mirror top-level title/description into the definition so both levels
	// agree after creation.
	if def, ok := payload["definition"].(map[string]any); ok {
		mirrored := make(map[string]any, len(def)+2)
		for k, v := range def {
			mirrored[k] = v
		}
		for _, f := range []string{"title", "description"} {
			if v, ok := payload[f]; ok {
				mirrored[f] = v
			}
		}
		payload["definition"] = mirrored
	}

	return payload
}

// sharingOf reads the flat sharing value from a raw API object.
func sharingOf(current map[string]any) any {
	acl, ok := current["acl"].(map[string]any)
	if !ok {
		return nil
	}
	return acl["sharing"]
}
