package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondData wraps successful payloads in the uniform envelope.
func RespondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "empty request body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "invalid payload: "+err.Error())
		return false
	}
	return true
}

// PathID parses the :id path segment; 0 means invalid and a response was sent.
func PathID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid id in path")
		return 0
	}
	return id
}
