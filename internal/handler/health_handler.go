package handler

import (
	"net/http"

	"marketplace-api/pkg/database"

	"github.com/labstack/echo/v4"
)

// Health reports service and database connectivity status
func Health(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	} else {
		status = "degraded"
		dbStatus = "not initialized"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, echo.Map{
		"status":   status,
		"database": dbStatus,
	})
}
