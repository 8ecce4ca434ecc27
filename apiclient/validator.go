package apiclient

import (
	"github.com/kbukum/apikit/corehttp"
	apierrors "github.com/kbukum/apikit/errors"
	"github.com/kbukum/apikit/httpclient"
)

// Validator decides whether a response is acceptable before decoding.
// Errors returned outside the taxonomy are reported as Unknown.
type Validator interface {
	ValidateStatus(resp *httpclient.Response, codes *corehttp.StatusRange) error
	ValidateMimeType(resp *httpclient.Response, types []corehttp.MimeType) error
}

// DefaultValidator checks the status range and the MIME allowlist.
type DefaultValidator struct{}

var _ Validator = DefaultValidator{}

// ValidateStatus rejects a missing response and any status outside codes.
// 401 and 403 map to Unauthorized and Forbidden.
func (DefaultValidator) ValidateStatus(resp *httpclient.Response, codes *corehttp.StatusRange) error {
	if codes == nil {
		return nil
	}
	if resp == nil || resp.StatusCode == 0 {
		return apierrors.New(apierrors.InvalidResponse)
	}
	if codes.Contains(resp.StatusCode) {
		return nil
	}
	status := apierrors.WithStatus(resp.StatusCode)
	switch resp.StatusCode {
	case corehttp.StatusUnauthorized:
		return apierrors.New(apierrors.Unauthorized, status)
	case corehttp.StatusForbidden:
		return apierrors.New(apierrors.Forbidden, status)
	default:
		return apierrors.New(apierrors.StatusCodeNotAllowed, status)
	}
}

// ValidateMimeType requires the response media type to equal one of types.
func (DefaultValidator) ValidateMimeType(resp *httpclient.Response, types []corehttp.MimeType) error {
	if types == nil {
		return nil
	}
	if resp == nil {
		return apierrors.New(apierrors.InvalidResponse)
	}
	status := apierrors.WithStatus(resp.StatusCode)
	if resp.MimeType == "" {
		return apierrors.New(apierrors.InvalidResponse, status)
	}
	for _, t := range types {
		if resp.MimeType == string(t) {
			return nil
		}
	}
	return apierrors.New(apierrors.MimeTypeNotValid, status)
}
