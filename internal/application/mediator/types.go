package mediator

import "context"

// Request is a query or command sent through the mediator
type Request interface{}

// Response is whatever a handler returns for its request
type Response interface{}

// RequestHandler handles one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to the handler call shape
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps handler execution (metrics, logging)
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
