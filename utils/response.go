package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONErrorKind tags the error with a machine-readable kind
// ("validation", "conflict", "not_found", "server") and optional detail,
// so clients can branch without parsing messages.
func JSONErrorKind(c *gin.Context, code int, kind, message string, detail interface{}) {
	body := gin.H{"success": false, "kind": kind, "error": message}
	if detail != nil {
		body["detail"] = detail
	}
	c.JSON(code, body)
}
