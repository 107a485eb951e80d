package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONStatus renders the gateway-style {status, message} body used by the
// payment endpoints.
func JSONStatus(c *gin.Context, code int, status, message string) {
	c.JSON(code, gin.H{"status": status, "message": message})
}
