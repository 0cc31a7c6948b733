package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware applied to every registered route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar to be wired on Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Group is a named route group built route by route, registered as a
// whole through the Router
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup creates a route group with the given name and path prefix
func NewGroup(name, prefix string) *Group {
	return &Group{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (g *Group) Use(middleware ...gin.HandlerFunc) *Group {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// GET registers a GET route
func (g *Group) GET(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle("GET", path, handlers)
}

// POST registers a POST route
func (g *Group) POST(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle("POST", path, handlers)
}

// PUT registers a PUT route
func (g *Group) PUT(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle("PUT", path, handlers)
}

// PATCH registers a PATCH route
func (g *Group) PATCH(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle("PATCH", path, handlers)
}

// DELETE registers a DELETE route
func (g *Group) DELETE(path string, handlers ...gin.HandlerFunc) *Group {
	return g.handle("DELETE", path, handlers)
}

func (g *Group) handle(method, path string, handlers []gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

// Name returns the group's name
func (g *Group) Name() string {
	return g.name
}

// RegisterRoutes implements RouteRegistrar
func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		grp.Handle(rt.method, rt.path, rt.handlers...)
	}
}
