// Package resilience provides the fault-tolerance primitives apikit
// transports are built from.
//
//   - Breaker: fails fast while an upstream keeps failing
//   - Limiter: token bucket bounding the outbound request rate
//   - Bulkhead: caps concurrent in-flight exchanges
//   - Backoff: exponential delay schedule used by retriers
//
// The transport composes them in a fixed order per exchange:
//
//	if err := limiter.Wait(ctx); err != nil { ... }
//	release, err := bulkhead.Acquire(ctx)
//	if err := breaker.Allow(); err != nil { ... }
//	resp, err := send()
//	breaker.Record(err == nil && resp.StatusCode < 500)
//	release()
//
// None of them decide whether a request is retried; that belongs to the
// client's retrier.
package resilience
