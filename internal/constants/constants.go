package constants

// Session
const (
	SessionCookieName = "board_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Validation
const (
	MinProjectNameLength        = 3
	MinProjectDescriptionLength = 10
	MinTaskNameLength           = 5
)

// Dates are stored as plain date strings on task records.
const DateLayout = "2006-01-02"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 9
	MaxPageSize     = 100
)
