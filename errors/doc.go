// Package errors defines the apikit error taxonomy.
//
// Every failure that crosses the apiclient boundary is an *APIError carrying
// a stable code from the Known catalog, a human readable message, the HTTP
// status code when the failure was derived from a response, and the
// underlying cause when there is one.
//
// Codes are a versioned public vocabulary. Consumers switch on them, so a
// shipped code is never renumbered:
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) && apiErr.Code() == errors.Unauthorized.Code() {
//	    // re-authenticate
//	}
package errors
