package places

// Upstream status labels reported in the response body, distinct from the
// HTTP transport status.
const (
	StatusOK             = "OK"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusUnknown        = "UNKNOWN"
)

// Fixed error descriptions recorded on failed outcomes.
const (
	ErrMsgInvalidJSON     = "Invalid JSON response"
	ErrMsgRateLimited     = "Rate limit exceeded"
	ErrMsgRequestDenied   = "API request denied"
	ErrMsgForbidden       = "Forbidden (403)"
	ErrMsgTooManyRequests = "Too Many Requests (429)"
)
