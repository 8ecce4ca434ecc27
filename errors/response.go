package errors

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Payload is the JSON error shape exchanged with servers.
type Payload struct {
	StatusCode int    `json:"statusCode,omitempty"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
}

// ToPayload converts an APIError to its JSON payload.
func (e *APIError) ToPayload() Payload {
	return Payload{StatusCode: e.statusCode, ErrorCode: e.code, Message: e.message}
}

// MarshalJSON renders the error as its Payload.
func (e *APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToPayload())
}

// DecodePayload decodes a server error body of the form
// {"errorCode": "...", "message": "..."} with an optional statusCode.
func DecodePayload(data []byte) (*APIError, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("errors: decode payload: %w", err)
	}
	if p.ErrorCode == "" {
		return nil, fmt.Errorf("errors: decode payload: missing errorCode")
	}
	return Custom(p.ErrorCode, p.Message, WithStatus(p.StatusCode)), nil
}
