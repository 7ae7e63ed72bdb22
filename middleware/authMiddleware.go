package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casri/models"
	"casri/services"
)

const actorKey = "actor"

// TokenCookie is the cookie the dashboard sends the session token in.
const TokenCookie = "token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Actor, error)
}

// Authenticated admits any signed-in role.
func Authenticated(models.Role) bool { return true }

// AdminOnly admits admins.
func AdminOnly(r models.Role) bool { return r.IsAdmin() }

// AuthMiddleware resolves the token from the cookie or a Bearer header and
// lets the request through when allow accepts the caller's role.
func AuthMiddleware(auth Authenticator, allow func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err != nil || token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token not provided"})
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid Authorization header format"})
				return
			}
			token = parts[1]
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization token"})
			return
		}
		if !allow(actor.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not allowed to perform this action"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the caller stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
