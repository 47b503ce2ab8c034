package core

import (
	"fmt"
)

type routeKind int

const (
	routeSubcommand routeKind = iota
	routeComponent
)

type routeKey struct {
	kind routeKind
	name string
}

// Router dispatches the interactions of one domain. The domain is both the
// slash command name and the custom ID prefix of its components.
type Router struct {
	domain     string
	routes     map[routeKey]Handler
	middleware []Middleware
	pipeline   *Pipeline
}

// NewRouter creates a router that registers itself with pipeline
func NewRouter(domain string, pipeline *Pipeline) *Router {
	return &Router{
		domain:   domain,
		routes:   make(map[routeKey]Handler),
		pipeline: pipeline,
	}
}

// Use adds middleware to the routes registered after it
func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// SubcommandFunc routes /<domain> <sub>
func (r *Router) SubcommandFunc(sub string, fn HandlerFunc) *Router {
	return r.add(routeKey{kind: routeSubcommand, name: sub}, fn)
}

// ComponentFunc routes components whose custom ID is <domain>:<action>[:target]
func (r *Router) ComponentFunc(action string, fn HandlerFunc) *Router {
	return r.add(routeKey{kind: routeComponent, name: action}, fn)
}

func (r *Router) add(key routeKey, handler Handler) *Router {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	r.routes[key] = handler
	return r
}

// Register adds the router to its pipeline
func (r *Router) Register() {
	if r.pipeline != nil {
		r.pipeline.Register(r)
	}
}

func (r *Router) CanHandle(ctx *InteractionContext) bool {
	_, ok := r.lookup(ctx)
	return ok
}

func (r *Router) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	handler, ok := r.lookup(ctx)
	if !ok {
		return nil, NewNotFoundError(fmt.Sprintf("%s handler", r.domain))
	}
	return handler.Handle(ctx)
}

func (r *Router) lookup(ctx *InteractionContext) (Handler, bool) {
	var key routeKey

	switch {
	case ctx.IsCommand():
		if ctx.GetCommandName() != r.domain {
			return nil, false
		}
		key = routeKey{kind: routeSubcommand, name: ctx.GetSubcommand()}
	case ctx.IsComponent():
		id, err := ParseCustomID(ctx.GetCustomID())
		if err != nil || id.Domain != r.domain {
			return nil, false
		}
		key = routeKey{kind: routeComponent, name: id.Action}
	default:
		return nil, false
	}

	handler, ok := r.routes[key]
	return handler, ok
}
