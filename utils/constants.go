package utils

// SessionCookieName is the cookie that carries the access token for browser clients
const SessionCookieName = "session"

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Audience and content limits
const (
	AudienceNameMaxLength   = 100
	AudienceMaxEntities     = 50
	ContentTypeMaxLength    = 100
	JobTitleMaxLength       = 200
	ContextMaxLength        = 2000
	ExistingContentMaxLen   = 5000
	EntitySearchMaxResults  = 20
	EntitySearchQueryMaxLen = 100

	// TotalsPrecision is the number of decimal places kept on aggregated demographic totals
	TotalsPrecision = 4
)
