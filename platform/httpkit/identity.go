package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the authenticated caller, as established by AuthRequired.
// Role checks happen in middleware; handlers only need the user ID.
type Identity struct {
	UserID uuid.UUID
}

// GetIdentity reads the caller from the Gin context. The second return is
// false when the request carries no authenticated user.
func GetIdentity(c *gin.Context) (Identity, bool) {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}, false
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return Identity{}, false
	}

	return Identity{UserID: userID}, true
}

// MustGetIdentity is GetIdentity for handlers mounted behind AuthRequired.
// When no caller is present it aborts the request with 401 and returns false.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
