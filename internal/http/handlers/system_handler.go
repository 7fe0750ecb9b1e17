// System HTTP handlers.
//
// This file exposes the public aggregate statistics endpoint:
//   - GET /system/stats
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-habit-backend/internal/repo"
)

// GetSystemStats godoc
// @ID          getSystemStats
// @Summary     Service-wide aggregate statistics
// @Description Returns active users (last 30 days), completed habits, the global success rate, and the average positive streak.
// @Tags        System
// @Produce     json
//
// @Success     200  {object}  repo.SystemStats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /system/stats [get]
func (h *Handlers) GetSystemStats(c *gin.Context) {
	stats, err := repo.GetSystemStats(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	ok(c, http.StatusOK, stats)
}
