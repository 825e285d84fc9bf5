package common

import "github.com/gin-gonic/gin"

// Fail writes the JSON error body used across the API. Handlers never leak
// internal error strings; the message is always operator-chosen.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
