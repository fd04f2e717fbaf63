// Package glasstable manages Splunk ITSI glass table objects through the
// itoa_interface REST endpoint.
//
// Glass tables are named JSON visualization objects. Their titles are NOT
// unique; the server-assigned _key is the only identifier, so updates and
// deletes always target a key. Apply drives the reconcile engine: with a key
// it performs an idempotent read-compare-update, without one it always
// creates. List is a read-only passthrough of the server-side query options
// (filter, fields, count, offset, sort_key, sort_dir).
//
// The adapter in this package encapsulates the endpoint's quirks: the flat
// "sharing" field lives under acl.sharing on the wire, creations are stamped
// with gt_version/_owner/_user, top-level title and description are mirrored
// into the definition, and partial updates resend the full value of every
// changed top-level field with is_partial_data=1.
package glasstable
