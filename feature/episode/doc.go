// Package episode adds comments to Splunk ITSI episodes (notable event
// groups) through the event_management_interface REST endpoint.
//
// Comments are append-only: the API has no update or delete operation for
// them, so every invocation creates a new comment and always reports a
// change. There is no reconciliation step by design.
package episode
