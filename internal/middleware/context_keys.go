package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID set by AuthMiddleware.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
