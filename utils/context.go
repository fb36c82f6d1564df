package utils

// RequestContextKey is the type of keys placed on request-scoped contexts
type RequestContextKey string

const (
	RequestIDKey  RequestContextKey = "request_id"
	UserAgentKey  RequestContextKey = "user_agent"
	IPAddressKey  RequestContextKey = "ip_address"
	EndpointKey   RequestContextKey = "endpoint"
	TimeoutKey    RequestContextKey = "timeout"
)

// CallerLocalsKey is the fiber Locals key holding the authenticated dto.Caller
const CallerLocalsKey = "caller"
