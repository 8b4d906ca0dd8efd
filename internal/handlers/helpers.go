package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError aborts the request with a JSON error body.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
