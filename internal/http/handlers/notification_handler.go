// Notification HTTP handlers.
//
// This file exposes the REST endpoints for achievement notifications:
//   - GET  /notifications            (list, paginated)
//   - POST /notifications/{id}/read  (mark as read)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// NotificationService defines notification operations consumed by HTTP
// handlers.
type NotificationService interface {
	// ListPage returns a page of the user's notifications plus the total.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error)
	// MarkRead stamps a notification as delivered/read.
	MarkRead(ctx context.Context, userID, id string) error
}

// ListNotificationsResponse wraps a page of notifications and pagination
// information.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notificaciones"`
	Pagination    Pagination            `json:"pagination"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List notifications (paginated)
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       page       query   int     false "Page number"             minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"          minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListNotificationsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.notifSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: items,
		Pagination:    paginationOf(page, pageSize, total),
	})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification as read
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Notification ID (UUID)" format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Notification not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.notifSvc.MarkRead(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
