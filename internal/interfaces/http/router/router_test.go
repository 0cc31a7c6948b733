package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouter_SetupRegistersGroupsUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewGroup("events", "/events").
		GET("/:id", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})

	NewRouter(engine, WithAPIVersion("v1")).Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())
}

func TestRouter_UseAppliesMiddlewareToRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewGroup("feedback", "/feedback").
		PUT("/vote", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}).
		Register(group).
		Setup()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/feedback/vote", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGroup_UseAppliesMiddlewareToGroupOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	open := NewGroup("open", "/open").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	guarded := NewGroup("guarded", "/guarded").
		Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }).
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).Register(open).Register(guarded).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/open/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/guarded/ping", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, "guarded", guarded.Name())
}
