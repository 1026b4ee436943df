package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the acting user's ID in the context.
// The engine treats actor IDs as opaque foreign keys supplied by the
// surrounding application; no authentication is performed here.
const actorIDKey = contextKey("actorID")

// actorHeader is the request header carrying the opaque actor identifier.
const actorHeader = "X-Actor-ID"

// ActorContextMiddleware copies the actor identifier from the request header
// into the Gin context for handlers to pick up.
func ActorContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorID := c.GetHeader(actorHeader); actorID != "" {
			c.Set(string(actorIDKey), actorID)
		}
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}
