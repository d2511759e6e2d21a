package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
)

type cannedReply struct {
	response mediator.Response
	err      error
}

// MockMediator answers requests with canned replies keyed by request type.
// It is safe for use from HTTP handler goroutines.
type MockMediator struct {
	mu       sync.Mutex
	replies  map[reflect.Type]cannedReply
	fallback func(ctx context.Context, request mediator.Request) (mediator.Response, error)
	sent     []mediator.Request
}

// NewMockMediator creates a mock with no replies configured
func NewMockMediator() *MockMediator {
	return &MockMediator{replies: make(map[reflect.Type]cannedReply)}
}

// On answers every request of the same type as sample with response and err
func (m *MockMediator) On(sample mediator.Request, response mediator.Response, err error) *MockMediator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[reflect.TypeOf(sample)] = cannedReply{response: response, err: err}
	return m
}

// SetSendFunc handles every request without a canned reply
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request mediator.Request) (mediator.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = fn
}

// Send implements mediator.Mediator
func (m *MockMediator) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	m.mu.Lock()
	m.sent = append(m.sent, request)
	reply, ok := m.replies[reflect.TypeOf(request)]
	fallback := m.fallback
	m.mu.Unlock()

	switch {
	case ok:
		return reply.response, reply.err
	case fallback != nil:
		return fallback(ctx, request)
	default:
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
}

// Register implements mediator.Mediator; handlers are ignored
func (m *MockMediator) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	return nil
}

// RegisterMiddleware implements mediator.Mediator; middlewares are ignored
func (m *MockMediator) RegisterMiddleware(middleware mediator.Middleware) {}

// Sent returns the requests received, in order
func (m *MockMediator) Sent() []mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mediator.Request(nil), m.sent...)
}

// GetCallLog returns the request types received, in order
func (m *MockMediator) GetCallLog() []string {
	sent := m.Sent()
	out := make([]string, len(sent))
	for i, r := range sent {
		out[i] = fmt.Sprintf("%T", r)
	}
	return out
}
