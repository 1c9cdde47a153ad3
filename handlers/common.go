package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ecowall/models"
	"ecowall/storage"
)

// Every endpoint answers with a {success, ...} envelope so clients can branch
// on a single field instead of the HTTP status.

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// requestScheme mirrors how a proxied Express app resolves req.protocol.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// shapePost attaches the resolved image URL for the current request's origin.
func shapePost(c *gin.Context, post *models.Post) {
	post.ImageURL = storage.ImageURL(requestScheme(c), c.Request.Host, post.Image.RelativePath, post.Image.Filename)
}

func queryInt(c *gin.Context, name string, fallback int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
