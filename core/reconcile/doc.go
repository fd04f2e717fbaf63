// Package reconcile implements the read-compare-update cycle used to manage
// remote ITSI objects idempotently.
//
// The package has two layers:
//
// 1. Diff: a pure, recursive field comparison between the current remote
// state and the caller's desired state. The diff is restricted to the fields
// the caller supplied and, for nested mappings, contains only the nested keys
// that actually differ.
//
// 2. Engine: Ensure and Remove drive the full cycle through an Adapter that
// knows how to fetch, create, update, and delete one kind of remote object.
// The engine decides whether a mutating call is needed (non-empty diff) and
// supports a dry-run mode that computes everything but never writes.
//
// Every operation returns a Result with the same shape: the current field
// values before the operation, the desired values after it, the computed
// diff, a changed flag, and the raw API response when a write occurred.
//
// # Usage Example
//
//	adapter := glasstable.NewAdapter(client)
//	result, err := reconcile.Ensure(ctx, adapter, key, map[string]any{
//	    "title": "Service Health",
//	}, reconcile.Options{DryRun: false})
//
// The remote system is treated as an external, possibly concurrently
// modified resource: there is no compare-and-swap between the read and the
// write, so a concurrent writer can win the race. Callers that need stronger
// guarantees must serialize externally.
package reconcile
