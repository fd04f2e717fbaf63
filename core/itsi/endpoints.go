package itsi

// REST endpoint paths, relative to the Splunk management base URL.
const (
	// GlassTablePath is the itoa_interface collection endpoint for glass
	// table objects.
	GlassTablePath = "servicesNS/nobody/SA-ITOA/itoa_interface/glass_table"

	// CommentPath is the event_management_interface endpoint for notable
	// event (episode) comments. Comments are append-only: the API exposes
	// no update or delete operation for them.
	CommentPath = "servicesNS/nobody/SA-ITOA/event_management_interface/notable_event_comment"
)
