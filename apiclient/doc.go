// Package apiclient runs endpoints through a typed request pipeline:
// materialize, set Accept, adapt, send, validate status then MIME type,
// decode. Every failure is reported as an *errors.APIError.
//
// Blocking call:
//
//	c, err := apiclient.New(httpclient.NewDefault())
//	item, err := apiclient.Do[Item](ctx, c, endpoint.Endpoint{
//		Scheme: corehttp.HTTPS,
//		Host:   "api.example.com",
//		Path:   "/items/1",
//	})
//
// Stream call, one value then completion:
//
//	sub := apiclient.Stream[Item](c, ep).Subscribe(ctx, apiclient.SubscriberFuncs[Item]{
//		Next:  func(it Item) { ... },
//		Error: func(err error) { ... },
//	})
//	defer sub.Cancel()
//
// Nothing is retried unless an Interceptor asks for it. BackoffRetrier is
// the bundled opt-in retrier.
package apiclient
