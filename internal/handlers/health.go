package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/database"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
)

// Health reports whether the API and its database are reachable.
func Health(c *gin.Context) {
	db := database.GetDB()
	if db == nil {
		apierrors.ServiceUnavailable(c, "Database not connected")
		return
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		apierrors.ServiceUnavailable(c, "Database unreachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "BUG FREE API is running",
	})
}
