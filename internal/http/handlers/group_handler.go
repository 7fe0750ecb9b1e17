// Group HTTP handlers.
//
// This file exposes the REST endpoints for shared habit groups:
//   - POST   /groups                          (create)
//   - GET    /groups                          (list mine)
//   - GET    /groups/{id}                     (detail with members)
//   - POST   /groups/{id}/invites             (create invite)
//   - POST   /invites/{token}/accept          (join via invite token)
//   - DELETE /groups/{id}/members/{userID}    (leave or remove a member)
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/services"
)

// GroupService defines group lifecycle and membership operations consumed by
// HTTP handlers.
type GroupService interface {
	// Create opens a new group owned by userID (plan-gated).
	Create(ctx context.Context, userID, name, description string) (*domain.Group, error)
	// ListMine returns the groups the user belongs to.
	ListMine(ctx context.Context, userID string) ([]domain.Group, error)
	// Get returns a group with its members; membership required.
	Get(ctx context.Context, userID, groupID string) (*services.GroupDetails, error)
	// Invite creates a token'd invite; owner or admin only.
	Invite(ctx context.Context, userID, groupID, email string) (*domain.GroupInvite, error)
	// AcceptInvite joins the caller to the invite's group.
	AcceptInvite(ctx context.Context, userID, token string) (*domain.Group, error)
	// RemoveMember removes targetID from the group under the role rules.
	RemoveMember(ctx context.Context, actorID, groupID, targetID string) error
}

// CreateGroupRequest is the JSON payload for creating a group.
type CreateGroupRequest struct {
	// Name is the group name (1-255 chars).
	Name string `json:"nombre" binding:"required,min=1,max=255" example:"Madrugadores"`
	// Description is optional free text.
	Description string `json:"descripcion,omitempty" example:"Correr antes de las 7"`
}

// InviteRequest is the JSON payload for inviting someone to a group.
type InviteRequest struct {
	// Email of the person to invite.
	Email string `json:"email" binding:"required,email" example:"ana@example.com"`
}

// CreateGroup godoc
// @ID          createGroup
// @Summary     Create a group
// @Description Creates a group owned by the current user; requires a plan that allows groups.
// @Tags        Groups
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateGroupRequest  true  "Create group payload"
//
// @Success     201  {object}  domain.Group
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Plan required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups [post]
func (h *Handlers) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.groupSvc.Create(c.Request.Context(), userID(c), strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}

// ListGroups godoc
// @ID          listGroups
// @Summary     List the caller's groups
// @Tags        Groups
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}   domain.Group
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups [get]
func (h *Handlers) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, groups)
}

// GetGroup godoc
// @ID          getGroup
// @Summary     Fetch a group with its members
// @Tags        Groups
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Group ID (UUID)"        format(uuid)
//
// @Success     200  {object}  services.GroupDetails
// @Failure     403  {object}  handlers.ErrorResponse  "Not a member"
// @Failure     404  {object}  handlers.ErrorResponse  "Group not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/{id} [get]
func (h *Handlers) GetGroup(c *gin.Context) {
	det, err := h.groupSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, det)
}

// CreateInvite godoc
// @ID          createInvite
// @Summary     Invite someone to a group
// @Description Creates a token'd invite; only the group owner or an admin may invite.
// @Tags        Groups
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Group ID (UUID)"        format(uuid)
// @Param       body       body    handlers.InviteRequest  true  "Invite payload"
//
// @Success     201  {object}  domain.GroupInvite
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Owner or admin only"
// @Failure     404  {object}  handlers.ErrorResponse  "Group not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/{id}/invites [post]
func (h *Handlers) CreateInvite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email is required")
		return
	}

	inv, err := h.groupSvc.Invite(c.Request.Context(), userID(c), c.Param("id"), strings.TrimSpace(req.Email))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, inv)
}

// AcceptInvite godoc
// @ID          acceptInvite
// @Summary     Accept a group invite
// @Description Joins the caller to the invite's group. Each token is single-use and expires after 72 hours.
// @Tags        Groups
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       token      path    string  true  "Invite token"
//
// @Success     200  {object}  domain.Group
// @Failure     404  {object}  handlers.ErrorResponse  "Invite not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already a member"
// @Failure     410  {object}  handlers.ErrorResponse  "Invite expired or used"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /invites/{token}/accept [post]
func (h *Handlers) AcceptInvite(c *gin.Context) {
	g, err := h.groupSvc.AcceptInvite(c.Request.Context(), userID(c), c.Param("token"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// RemoveMember godoc
// @ID          removeMember
// @Summary     Remove a member (or leave) a group
// @Description Members may remove themselves; owner or admins may remove others; the owner can never be removed.
// @Tags        Groups
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Group ID (UUID)"        format(uuid)
// @Param       userID     path    string  true  "Member user ID"
//
// @Success     204  {string}  string  "No Content"
// @Failure     403  {object}  handlers.ErrorResponse  "Role rules forbid it"
// @Failure     404  {object}  handlers.ErrorResponse  "Group or member not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Owner cannot leave"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/{id}/members/{userID} [delete]
func (h *Handlers) RemoveMember(c *gin.Context) {
	if err := h.groupSvc.RemoveMember(c.Request.Context(), userID(c), c.Param("id"), c.Param("userID")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
