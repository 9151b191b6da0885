package http

import (
	"cmp"
	"slices"
)

// Router dispatches on the exact (path, method) pair. There is no pattern
// matching, trailing-slash normalization or query-string stripping.
type Router struct {
	routes     map[Route]Handler
	middleware []Middleware
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[Route]Handler),
	}
}

// Handle registers handler for path and method. A later registration for the
// same pair replaces the earlier one.
func (router *Router) Handle(path string, method Method, handler Handler) *Router {
	router.routes[Route{Path: path, Method: method}] = handler
	return router
}

func (router *Router) Get(path string, handler Handler) *Router {
	return router.Handle(path, MethodGet, handler)
}

func (router *Router) Post(path string, handler Handler) *Router {
	return router.Handle(path, MethodPost, handler)
}

func (router *Router) Put(path string, handler Handler) *Router {
	return router.Handle(path, MethodPut, handler)
}

func (router *Router) Patch(path string, handler Handler) *Router {
	return router.Handle(path, MethodPatch, handler)
}

func (router *Router) Delete(path string, handler Handler) *Router {
	return router.Handle(path, MethodDelete, handler)
}

func (router *Router) Head(path string, handler Handler) *Router {
	return router.Handle(path, MethodHead, handler)
}

func (router *Router) Options(path string, handler Handler) *Router {
	return router.Handle(path, MethodOptions, handler)
}

func (router *Router) Any(methods []Method, path string, handler Handler) *Router {
	for _, method := range methods {
		router.Handle(path, method, handler)
	}
	return router
}

// Use adds middleware wrapped around every matched handler. The first
// middleware added is the outermost.
func (router *Router) Use(middleware ...Middleware) *Router {
	router.middleware = append(router.middleware, middleware...)
	return router
}

// Lookup returns the handler registered for path and method, without
// middleware.
func (router *Router) Lookup(path string, method Method) (Handler, bool) {
	handler, ok := router.routes[Route{Path: path, Method: method}]
	return handler, ok
}

// Dispatch returns the matched handler's response, or NotFound. It never fails.
func (router *Router) Dispatch(req *Request) *Response {
	handler, ok := router.Lookup(req.Path(), req.Method())
	if !ok {
		return notFoundHandler.Serve(req)
	}

	for i := len(router.middleware) - 1; i >= 0; i-- {
		handler = router.middleware[i](handler)
	}
	return handler.Serve(req)
}

// Routes returns the registered routes ordered by path, then method.
func (router *Router) Routes() []Route {
	routes := make([]Route, 0, len(router.routes))
	for route := range router.routes {
		routes = append(routes, route)
	}
	slices.SortFunc(routes, func(a, b Route) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	return routes
}
