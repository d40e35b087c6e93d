package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar attaches its routes to the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithMiddleware adds middleware to the versioned API group only, so
// /health and other engine-level routes stay outside it.
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Route is one method and path pair with its handler chain
type Route struct {
	Method   string
	Path     string
	handlers []gin.HandlerFunc
}

// RouteGroup collects the routes of one API area (bills, catalog, reports)
// under a shared prefix and optional group middleware.
type RouteGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []Route
}

func NewRouteGroup(prefix string, middleware ...gin.HandlerFunc) *RouteGroup {
	return &RouteGroup{prefix: prefix, middleware: middleware}
}

func (g *RouteGroup) Prefix() string { return g.prefix }

// Routes lists the routes in registration order
func (g *RouteGroup) Routes() []Route {
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

// Handle adds a route. Chainable.
func (g *RouteGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *RouteGroup {
	g.routes = append(g.routes, Route{Method: method, Path: g.prefix + path, handlers: handlers})
	return g
}

func (g *RouteGroup) GET(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *RouteGroup) POST(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *RouteGroup) PUT(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodPut, path, handlers...)
}

func (g *RouteGroup) DELETE(path string, handlers ...gin.HandlerFunc) *RouteGroup {
	return g.Handle(http.MethodDelete, path, handlers...)
}

func (g *RouteGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("", g.middleware...)
	for _, route := range g.routes {
		group.Handle(route.Method, route.Path, route.handlers...)
	}
}
