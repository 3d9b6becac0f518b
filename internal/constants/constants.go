package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "token_claims"
)

// Session
const (
	SessionCookieName = "event_session"
	SessionKeyToken   = "token"
	SessionMaxAge     = 86400 * 7
)

// Credentials
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 3
)

// Tokens
const (
	DefaultTokenExpiry = time.Hour
	DefaultTokenIssuer = "event-dashboard-api"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)
