package apiclient

import (
	"context"
	"net/http"
	"sync"

	"github.com/kbukum/apikit/endpoint"
	"github.com/kbukum/apikit/httpclient"
)

// Subscriber receives the outcome of a stream call: OnNext then
// OnComplete on success, OnError on failure.
type Subscriber[T any] interface {
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// SubscriberFuncs adapts functions to Subscriber. Nil fields are skipped.
type SubscriberFuncs[T any] struct {
	Next     func(v T)
	Error    func(err error)
	Complete func()
}

// OnNext implements Subscriber.
func (s SubscriberFuncs[T]) OnNext(v T) {
	if s.Next != nil {
		s.Next(v)
	}
}

// OnError implements Subscriber.
func (s SubscriberFuncs[T]) OnError(err error) {
	if s.Error != nil {
		s.Error(err)
	}
}

// OnComplete implements Subscriber.
func (s SubscriberFuncs[T]) OnComplete() {
	if s.Complete != nil {
		s.Complete()
	}
}

// Publisher is a cold, single-value stream of one endpoint call. Nothing
// happens until Subscribe, and every Subscribe runs the pipeline anew.
type Publisher[T any] struct {
	client   *Client
	provider endpoint.Provider
	opts     []CallOption
}

// Stream returns a publisher for p. The transport's Stream method executes
// the request and the body is read to completion before decoding.
func Stream[T any](c *Client, p endpoint.Provider, opts ...CallOption) *Publisher[T] {
	return &Publisher[T]{client: c, provider: p, opts: opts}
}

// Subscribe starts the call in its own goroutine and delivers at most one
// value to sub.
func (p *Publisher[T]) Subscribe(ctx context.Context, sub Subscriber[T]) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		defer cancel()

		v, err := call[T](ctx, p.client, p.provider, newCallOptions(p.opts), p.client.streamSend)
		s.deliver(func() {
			if err != nil {
				sub.OnError(err)
				return
			}
			sub.OnNext(v)
			sub.OnComplete()
		})
	}()
	return s
}

func (c *Client) streamSend(ctx context.Context, req *http.Request) (*httpclient.Response, error) {
	sr, err := c.transport.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	if sr == nil {
		return nil, httpclient.NoResponseError()
	}
	return sr.ReadAll()
}

// Subscription controls a running stream call.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	canceled bool
}

// Cancel stops the call. Once Cancel returns no Subscriber method runs.
// Cancel must not be called from inside a Subscriber method.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.cancel()
}

// Done is closed when the call has terminated.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) deliver(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	fn()
}
