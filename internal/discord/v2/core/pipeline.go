package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// UnknownInteractionMessage is the reply when no handler accepts an interaction
const UnknownInteractionMessage = "I don't know how to handle that command."

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ErrorHandler turns a handler error into the reply to send, nil for none
type ErrorHandler func(ctx *InteractionContext, err error) *HandlerResult

// ResponderFactory builds the responder for an interaction
type ResponderFactory func(s *discordgo.Session, i *discordgo.InteractionCreate) InteractionResponder

// Pipeline runs each interaction through the first registered handler that
// accepts it and sends the handler's result
type Pipeline struct {
	mu sync.RWMutex

	handlers     []Handler
	middleware   []Middleware
	errorHandler ErrorHandler
	newResponder ResponderFactory
	logger       *zap.Logger
}

// NewPipeline creates a pipeline that answers through the Discord API
func NewPipeline() *Pipeline {
	return &Pipeline{
		errorHandler: defaultErrorHandler,
		newResponder: func(s *discordgo.Session, i *discordgo.InteractionCreate) InteractionResponder {
			return NewDiscordResponder(s, i)
		},
		logger: zap.NewNop(),
	}
}

func (p *Pipeline) SetLogger(logger *zap.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if logger != nil {
		p.logger = logger.Named("pipeline")
	}
}

// SetResponderFactory replaces how responders are created, e.g. with a MockResponder in tests
func (p *Pipeline) SetResponderFactory(factory ResponderFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.newResponder = factory
}

func (p *Pipeline) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errorHandler = handler
}

// Use adds middleware wrapping the handlers registered after it
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware...)
}

// Register adds handlers in priority order
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, &routedHandler{Handler: wrapped, route: h})
	}
}

// routedHandler runs the middleware chain but routes with the unwrapped handler,
// since middleware built from HandlerFunc accepts everything
type routedHandler struct {
	Handler
	route Handler
}

func (h *routedHandler) CanHandle(ctx *InteractionContext) bool {
	return h.route.CanHandle(ctx)
}

// Execute runs the pipeline for an interaction
func (p *Pipeline) Execute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	interactionCtx := NewInteractionContext(ctx, s, i)

	p.mu.RLock()
	handlers := p.handlers
	errorHandler := p.errorHandler
	responder := p.newResponder(s, i)
	logger := p.logger
	p.mu.RUnlock()

	interactionCtx.SetResponder(responder)

	var handler Handler
	for _, h := range handlers {
		if h.CanHandle(interactionCtx) {
			handler = h
			break
		}
	}

	if handler == nil {
		logger.Debug("no handler matched",
			zap.String("command", interactionCtx.GetCommandName()),
			zap.String("custom_id", interactionCtx.GetCustomID()))
		if responder.HasResponded() {
			return nil
		}
		return responder.Respond(NewEphemeralResponse(UnknownInteractionMessage))
	}

	result, err := handler.Handle(interactionCtx)
	if err != nil {
		result = errorHandler(interactionCtx, err)
	}

	if result == nil || result.Response == nil {
		return nil
	}
	if err := p.send(responder, result); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}

// send edits the deferred reply or sends the first one
func (p *Pipeline) send(responder InteractionResponder, result *HandlerResult) error {
	if result.Deferred || responder.IsDeferred() {
		_, err := responder.Edit(result.Response)
		return err
	}
	return responder.Respond(result.Response)
}

func defaultErrorHandler(_ *InteractionContext, err error) *HandlerResult {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		if !handlerErr.ShowToUser {
			// Silent errors are only logged upstream
			return nil
		}
		return &HandlerResult{Response: NewEphemeralResponse(handlerErr.UserMessage)}
	}

	return &HandlerResult{
		Response: NewEphemeralResponse("An error occurred while processing your request."),
	}
}
