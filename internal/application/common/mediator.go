package common

import (
	"context"
	"fmt"
	"reflect"
)

// Request represents a command or query
type Request interface{}

// Response represents the result of handling a request
type Response interface{}

// RequestHandler handles a specific request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is a function that handles a request
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps handler execution with cross-cutting concerns such as logging
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// Mediator dispatches requests to their handlers
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	Use(middleware Middleware)
}

// mediator is the concrete implementation
type mediator struct {
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

// NewMediator creates a new mediator instance
func NewMediator() Mediator {
	return &mediator{
		handlers: make(map[reflect.Type]RequestHandler),
	}
}

// Register registers a handler for a specific request type
func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}

	m.handlers[requestType] = handler
	return nil
}

// Use appends a middleware; the first registered runs outermost
func (m *mediator) Use(middleware Middleware) {
	m.middlewares = append(m.middlewares, middleware)
}

// Send dispatches a request to its registered handler through the middleware chain
func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	requestType := reflect.TypeOf(request)
	handler, ok := m.handlers[requestType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for type %s", requestType)
	}

	next := HandlerFunc(handler.Handle)
	for i := len(m.middlewares) - 1; i >= 0; i-- {
		mw := m.middlewares[i]
		inner := next
		next = func(ctx context.Context, request Request) (Response, error) {
			return mw(ctx, request, inner)
		}
	}
	return next(ctx, request)
}

// RegisterHandler registers handlers with type inference
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	requestType := reflect.TypeOf(zero)
	return m.Register(requestType, handler)
}

// LoggingMiddleware logs every request and its failure, if any
func LoggingMiddleware(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
	logger := LoggerFromContext(ctx)
	name := reflect.TypeOf(request).String()

	resp, err := next(ctx, request)
	if err != nil {
		logger.Log(LevelError, fmt.Sprintf("[Mediator] %s failed: %v", name, err), map[string]interface{}{
			"request": name,
		})
		return nil, err
	}
	logger.Log(LevelDebug, fmt.Sprintf("[Mediator] %s handled", name), map[string]interface{}{
		"request": name,
	})
	return resp, nil
}
