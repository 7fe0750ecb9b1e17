// Plan and subscription HTTP handlers.
//
// This file exposes the REST endpoints backing the plan limits:
//   - GET  /plans         (catalogue of seeded plans)
//   - GET  /subscription  (the caller's active subscription, if any)
//   - POST /subscription  (activate a plan for the caller)
//
// Payment processing is out of scope; activating a plan here only records
// the subscription row the limit checks read.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// SubscriptionService defines plan and subscription operations consumed by
// HTTP handlers.
type SubscriptionService interface {
	// ListPlans returns the seeded plan catalogue ordered by price.
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	// Current returns the user's active subscription, or nil without one.
	Current(ctx context.Context, userID string) (*domain.Subscription, error)
	// Subscribe activates the plan identified by code for the user.
	Subscribe(ctx context.Context, userID, code, cycle string) (*domain.Subscription, error)
}

// SubscribeRequest is the JSON payload for activating a plan.
type SubscribeRequest struct {
	// Plan is the plan code (e.g. "free", "pro", "unlimited").
	Plan string `json:"plan" binding:"required" example:"pro"`
	// Cycle is "mensual" or "anual"; empty defaults to monthly.
	Cycle string `json:"ciclo,omitempty" binding:"omitempty,oneof=mensual anual" example:"mensual"`
}

// ListPlans godoc
// @ID          listPlans
// @Summary     List available plans
// @Tags        Plans
// @Produce     json
//
// @Success     200  {array}   domain.Plan
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	plans, err := h.subsSvc.ListPlans(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, plans)
}

// GetSubscription godoc
// @ID          getSubscription
// @Summary     Fetch the caller's active subscription
// @Description Returns 404 when the user has never subscribed (the free tier applies implicitly).
// @Tags        Plans
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  domain.Subscription
// @Failure     404  {object}  handlers.ErrorResponse  "No active subscription"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /subscription [get]
func (h *Handlers) GetSubscription(c *gin.Context) {
	sub, err := h.subsSvc.Current(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	if sub == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no active subscription")
		return
	}
	ok(c, http.StatusOK, sub)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Activate a plan for the caller
// @Description Replaces any current subscription with the named plan.
// @Tags        Plans
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.SubscribeRequest  true  "Plan activation payload"
//
// @Success     201  {object}  domain.Subscription
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown plan"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /subscription [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.subsSvc.Subscribe(c.Request.Context(), userID(c), req.Plan, req.Cycle)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, sub)
}
