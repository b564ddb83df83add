package constants

// Gin context keys
const (
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
	ContextKeyMeeting   = "meeting"
)

const HeaderRequestID = "X-Request-ID"

// Authentication
const (
	MinPasswordLength = 6
	BearerPrefix      = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Workflow defaults
const (
	DefaultResponsibleRole = "primary"
	DateLayout             = "2006-01-02"
)
