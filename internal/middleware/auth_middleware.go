package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/models"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity, role and approval flag on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header missing.")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header format.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			c.Abort()
			return
		}

		userIDStr, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in token.")
			c.Abort()
			return
		}

		roleStr, _ := claims["role"].(string)
		role, ok := models.ParseRole(roleStr)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid role in token.")
			c.Abort()
			return
		}

		approved, _ := claims["approved"].(bool)

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("approved", approved)
		c.Next()
	}
}

// RequireRole gates a route to the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Role not found in token.")
			c.Abort()
			return
		}
		role := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to access this resource.")
		c.Abort()
	}
}

// RequireApproved gates a route to accounts the superuser has approved.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		approved, exists := c.Get("approved")
		if !exists || !approved.(bool) {
			helpers.RespondWithError(c, http.StatusForbidden, "Your account is pending approval.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller's id from the context.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
