package constants

// Validation
const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 5
)

// Context keys
const (
	// ContextKeyUserID is the context key for the authenticated user ID
	ContextKeyUserID = "user_id"

	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// Authentication
const (
	// AuthHeaderPrefix is the scheme expected in the Authorization header
	AuthHeaderPrefix = "Token"

	// AdminSessionCookieName is the cookie carrying the admin console session
	AdminSessionCookieName = "admin_session"
)

// Pagination
const (
	// MinPageSize is the minimum page size for paginated requests
	MinPageSize = 1

	// DefaultPageSize is the default page size for paginated requests
	DefaultPageSize = 20

	// MaxPageSize is the maximum page size for paginated requests
	MaxPageSize = 100
)

// Formats
const (
	// DateOnlyFormat is the layout for date-only query parameters
	DateOnlyFormat = "2006-01-02"
)
