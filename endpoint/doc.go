// Package endpoint describes HTTP calls declaratively and turns those
// descriptions into *http.Request values.
//
// An Endpoint names scheme, host, path, method, headers, authorization,
// query and at most one body. When both Body and Multipart are set the
// multipart body is sent and Body is ignored.
//
//	ep := endpoint.Endpoint{
//	    Scheme: corehttp.HTTPS,
//	    Host:   "api.example.com",
//	    Path:   "/v1/items",
//	    Method: corehttp.MethodGet,
//	    Query:  []endpoint.QueryItem{endpoint.Query("page", "2")},
//	}
//	req, err := endpoint.Materialize(ctx, ep, codec.JSON)
//
// Failures are *errors.APIError: URLComponents when the URL cannot be
// formed, EncodingBody when the JSON body cannot be serialized.
package endpoint
