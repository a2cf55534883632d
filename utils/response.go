package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success sends the standard success envelope.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

// SuccessList sends a success envelope with a result count for list endpoints.
func SuccessList(c *gin.Context, results int, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results, "data": data})
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
