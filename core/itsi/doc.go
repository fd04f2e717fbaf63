// Package itsi provides the HTTP client for the Splunk IT Service
// Intelligence REST API (itoa_interface and event_management_interface).
//
// The client is a thin, synchronous wrapper: one logical operation maps to
// exactly one HTTP request, with no retries, pooled-transport defaults, and
// no caching. Authentication is resolved once at construction time with the
// following precedence: bearer token, Splunk session key, basic auth.
//
// A GET that hits a missing object (404) returns a nil body with no error,
// matching the ITSI convention that absence is a normal lookup outcome;
// callers decide whether absence is fatal. All other non-2xx responses
// surface as *APIError.
package itsi
