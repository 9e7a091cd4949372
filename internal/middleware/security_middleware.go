package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"khata-pos/internal/auth"
)

// Context keys set by AuthMiddleware
const (
	RoleKey    = "role"
	StationKey = "station"
)

// AuthMiddleware checks if the caller has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the token from the "Authorization" header
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		// 2. Remove the "Bearer " prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		// 3. Validate the token using our auth package
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 4. Store the counter session in the context for the handlers
		c.Set(RoleKey, claims.Role)
		c.Set(StationKey, claims.Station)

		c.Next()
	}
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowed auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists || role != allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}

// SafeModer reports whether the shop booted without usable data.
type SafeModer interface {
	SafeMode() bool
}

// safeModeRoutes stay reachable so the owner can restore a backup.
var safeModeRoutes = []string{
	"/api/settings",
	"/api/backup",
	"/api/system",
	"/api/logs",
	"/api/notifications",
}

// SafeModeGuard answers 503 for everything but recovery routes while in safe mode.
func SafeModeGuard(s SafeModer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.SafeMode() {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range safeModeRoutes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Safe mode: restore a backup to continue",
			"safeMode": true,
		})
	}
}
