// Package corehttp holds the HTTP vocabulary shared by apikit packages:
// schemes, methods, header keys, MIME types, authorization methods and
// status code ranges.
//
// Everything here is configuration data. The types are plain strings so
// values can be written as literals in endpoint declarations:
//
//	ep := endpoint.Endpoint{
//	    Scheme: corehttp.HTTPS,
//	    Host:   "api.example.com",
//	    Path:   "/users",
//	    Method: corehttp.MethodGet,
//	}
package corehttp
