package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles aborts with 403 unless the authenticated caller's role
// is one of the given roles. Must run after JWTAuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}

		c.Next()
	}
}

// RequireEventManager restricts a route to event organizers. Admins
// pass because they can manage any event.
func RequireEventManager() gin.HandlerFunc {
	return RequireRoles("owner", "admin")
}

// RequireAdmin restricts a route to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles("admin")
}
