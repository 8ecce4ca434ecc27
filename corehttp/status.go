package corehttp

import "fmt"

// StatusRange is a closed interval of HTTP status codes.
type StatusRange struct {
	Min int
	Max int
}

// SuccessRange is the default accepted range, 200...299.
var SuccessRange = StatusRange{Min: 200, Max: 299}

// NewStatusRange returns a pointer to the closed range [min, max].
func NewStatusRange(minCode, maxCode int) *StatusRange {
	return &StatusRange{Min: minCode, Max: maxCode}
}

// Contains reports whether code lies inside the range, bounds included.
func (r StatusRange) Contains(code int) bool {
	return code >= r.Min && code <= r.Max
}

// String renders the range as "min...max".
func (r StatusRange) String() string {
	return fmt.Sprintf("%d...%d", r.Min, r.Max)
}

// Status codes with dedicated handling or descriptions.
const (
	StatusBadRequest                  = 400
	StatusUnauthorized                = 401
	StatusForbidden                   = 403
	StatusNotFound                    = 404
	StatusMethodNotAllowed            = 405
	StatusNotAcceptable               = 406
	StatusProxyAuthenticationRequired = 407
	StatusRequestTimeout              = 408
	StatusUpgradeRequired             = 426
	StatusTooManyRequests             = 429
	StatusInternalServerError         = 500
	StatusNotImplemented              = 501
	StatusBadGateway                  = 502
	StatusServiceUnavailable          = 503
	StatusGatewayTimeout              = 504
	StatusHTTPVersionNotSupported     = 505
)

var statusText = map[int]string{
	StatusBadRequest:                  "Bad Request",
	StatusUnauthorized:                "Unauthorized",
	StatusForbidden:                   "Forbidden",
	StatusNotFound:                    "Not Found",
	StatusMethodNotAllowed:            "Method Not Allowed",
	StatusNotAcceptable:               "Not Acceptable",
	StatusProxyAuthenticationRequired: "Proxy Authentication Required",
	StatusRequestTimeout:              "Request Timeout",
	StatusUpgradeRequired:             "Upgrade Required",
	StatusTooManyRequests:             "Too Many Requests",
	StatusInternalServerError:         "Internal Server Error",
	StatusNotImplemented:              "Not Implemented",
	StatusBadGateway:                  "Bad Gateway",
	StatusServiceUnavailable:          "Service Unavailable",
	StatusGatewayTimeout:              "Gateway Timeout",
	StatusHTTPVersionNotSupported:     "HTTP Version Not Supported",
}

// DescribeStatus returns "<code> <text>" for known codes and the bare code
// otherwise.
func DescribeStatus(code int) string {
	if text, ok := statusText[code]; ok {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
