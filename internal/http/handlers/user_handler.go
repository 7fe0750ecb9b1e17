// Profile HTTP handlers.
//
// This file exposes the REST endpoints for the caller's profile:
//   - GET /me  (fetch)
//   - PUT /me  (upsert, including timezone and day-closure hour)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/services"
)

// UserService defines profile directory operations consumed by HTTP handlers.
type UserService interface {
	// Get returns the profile row for userID.
	Get(ctx context.Context, userID string) (*domain.User, error)
	// Upsert creates or updates the profile, validating timezone and locale.
	Upsert(ctx context.Context, userID string, upd services.ProfileUpdate) (*domain.User, error)
}

// UpdateProfileRequest is the JSON payload for updating the caller's profile.
// Absent fields leave the stored value unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" binding:"omitempty,email" example:"ana@example.com"`
	FullName *string `json:"nombre_completo,omitempty" example:"Ana Torres"`
	ImageURL *string `json:"url_imagen,omitempty" example:"https://cdn.example.com/a.png"`
	// Locale is a BCP 47 tag (e.g. "es", "es-PE").
	Locale *string `json:"idioma,omitempty" example:"es-PE"`
	// Timezone is an IANA zone name (e.g. "America/Lima").
	Timezone *string `json:"zona_horaria,omitempty" example:"America/Lima"`
	// ClosureHour shifts the user's day boundary (0-23; 0 = midnight).
	ClosureHour *int `json:"hora_cierre,omitempty" binding:"omitempty,min=0,max=23" example:"4"`
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Fetch the caller's profile
// @Tags        Profile
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /me [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Create or update the caller's profile
// @Description Upserts the profile. Timezone must be a valid IANA zone; idioma a valid BCP 47 tag; hora_cierre in [0,23].
// @Tags        Profile
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdateProfileRequest  true  "Profile payload"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid timezone, locale, or closure hour"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /me [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.userSvc.Upsert(c.Request.Context(), userID(c), services.ProfileUpdate{
		Email:       req.Email,
		FullName:    req.FullName,
		ImageURL:    req.ImageURL,
		Locale:      req.Locale,
		Timezone:    req.Timezone,
		ClosureHour: req.ClosureHour,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
