package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRoleRouter(role string, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		if role != "" {
			c.Set(JWTRoleKey, role)
		}
		c.Next()
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireEventManager(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"owner allowed", "owner", http.StatusOK},
		{"admin allowed", "admin", http.StatusOK},
		{"regular user forbidden", "user", http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRoleRouter(tt.role, RequireEventManager())

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAdmin_RejectsOwner(t *testing.T) {
	router := setupRoleRouter("owner", RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
