package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "rentalbackend/internal/config"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": gin.H{"code": "db_down", "message": "database not connected"}})
		return
	}
	if err := intconfig.DB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": gin.H{"code": "db_down", "message": err.Error()}})
		return
	}
	RespondData(c, http.StatusOK, gin.H{"database": "ok"})
}
