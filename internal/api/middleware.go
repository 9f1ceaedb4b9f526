package api

import (
	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user id from the context, set by the
// JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userId")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
