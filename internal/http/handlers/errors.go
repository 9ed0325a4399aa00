package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/logger"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps the domain error taxonomy onto HTTP statuses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsAuthorization(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsExternalDependency(err):
		respondError(c, http.StatusBadGateway, "external_dependency", err.Error())
	default:
		logger.WithFields(map[string]any{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		}).Errorf("unhandled error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
