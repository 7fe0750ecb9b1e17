// Habit HTTP handlers.
//
// This file exposes the REST endpoints for habit resources and their entries:
//   - POST   /habits                          (create)
//   - GET    /habits                          (list, paginated, filters)
//   - GET    /habits/dashboard                (per-user daily overview)
//   - GET    /habits/weekly-progress          (7-day success/failure report)
//   - GET    /habits/{id}                     (fetch one)
//   - GET    /habits/{id}/details             (habit + streak + stats)
//   - PATCH  /habits/{id}                     (update title/type/archived)
//   - DELETE /habits/{id}                     (hard delete with history)
//   - GET    /habits/{id}/entries             (list entries, paginated)
//   - POST   /habits/{id}/entries             (record today or backfill)
//   - DELETE /habits/{id}/entries/{entryID}   (remove an entry)
//   - GET    /habits/{id}/streak              (current/best streak)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results (including domain sentinel errors) into
// HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
	"github.com/tbourn/go-habit-backend/internal/services"
	"github.com/tbourn/go-habit-backend/internal/timezone"
	"github.com/tbourn/go-habit-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// HabitService defines habit lifecycle and tracking operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type HabitService interface {
	// Create registers a new habit after plan-limit and group checks.
	Create(ctx context.Context, userID string, in services.CreateHabitInput) (*domain.Habit, error)
	// ListPage returns a filtered page of visible habits plus the total count.
	ListPage(ctx context.Context, userID string, f repo.HabitFilter, page, pageSize int) ([]domain.Habit, int64, error)
	// Get fetches one habit the user can read.
	Get(ctx context.Context, userID, habitID string) (*domain.Habit, error)
	// Details aggregates a habit with its streak, stats, and recent entries.
	Details(ctx context.Context, userID, habitID string) (*services.HabitDetails, error)
	// Update applies partial changes to a habit the user can edit.
	Update(ctx context.Context, userID, habitID string, in services.UpdateHabitInput) (*domain.Habit, error)
	// Delete removes a habit with its entries and streak ledger.
	Delete(ctx context.Context, userID, habitID string) error
	// EntriesPage returns a page of entries within an optional date range.
	EntriesPage(ctx context.Context, userID, habitID string, r repo.EntryRange, page, pageSize int) ([]domain.HabitEntry, int64, error)
	// RecordEntry upserts the entry for a local date and updates the streak.
	RecordEntry(ctx context.Context, userID, habitID string, in services.RecordEntryInput) (*domain.HabitEntry, services.Summary, error)
	// DeleteEntry removes one entry and recalculates the streak from history.
	DeleteEntry(ctx context.Context, userID, habitID, entryID string) (services.Summary, error)
	// Streak reviews and returns the habit's current/best streak.
	Streak(ctx context.Context, userID, habitID string) (services.Summary, error)
	// Dashboard builds the per-user daily overview.
	Dashboard(ctx context.Context, userID string) (*services.Dashboard, error)
	// WeeklyProgress reports successes/failures for the last seven local days.
	WeeklyProgress(ctx context.Context, userID string) ([]services.DayProgress, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for habits, groups, profiles,
// notifications, and subscriptions. It depends on service interfaces to keep
// transport concerns separate from business logic; the raw *gorm.DB is held
// only for the read-only system stats endpoint.
type Handlers struct {
	habitSvc HabitService
	groupSvc GroupService
	userSvc  UserService
	notifSvc NotificationService
	subsSvc  SubscriptionService
	db       *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(habitSvc HabitService, groupSvc GroupService, userSvc UserService, notifSvc NotificationService, subsSvc SubscriptionService, db *gorm.DB) *Handlers {
	return &Handlers{
		habitSvc: habitSvc,
		groupSvc: groupSvc,
		userSvc:  userSvc,
		notifSvc: notifSvc,
		subsSvc:  subsSvc,
		db:       db,
	}
}

// userID extracts the authenticated user id from Gin context (set by the
// identity middleware). If absent, it falls back to the "X-User-ID" header
// (tests use it), and finally to "demo-user". It never touches c.Request if
// it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateHabitRequest is the JSON payload for creating a habit.
type CreateHabitRequest struct {
	// Title is the habit name (1-255 chars).
	Title string `json:"titulo" binding:"required,min=1,max=255" example:"Salir a correr"`
	// Type is "hacer" (build) or "dejar" (quit).
	Type string `json:"tipo" binding:"required,oneof=hacer dejar" example:"hacer"`
	// GroupID optionally attaches the habit to a group the user belongs to.
	GroupID *string `json:"id_grupo,omitempty" example:"0b8f9a3e-2f93-4c21-9d6b-0f2f6a1f2e11"`
}

// UpdateHabitRequest is the JSON payload for partially updating a habit.
// Absent fields leave the stored value unchanged.
type UpdateHabitRequest struct {
	Title    *string `json:"titulo,omitempty" example:"Leer 20 minutos"`
	Type     *string `json:"tipo,omitempty" example:"dejar"`
	Archived *bool   `json:"archivado,omitempty" example:"true"`
}

// RecordEntryRequest is the JSON payload for recording a habit entry.
// Date is optional; when present it backfills a past local day.
type RecordEntryRequest struct {
	// State is "exito" or "fallo".
	State string `json:"estado" binding:"required,oneof=exito fallo" example:"exito"`
	// Date optionally backfills a past day (YYYY-MM-DD). Future dates are rejected.
	Date string `json:"fecha,omitempty" example:"2025-03-09"`
	// Comment is free text attached to the entry.
	Comment string `json:"comentario,omitempty" example:"5 km"`
}

// RecordEntryResponse couples the persisted entry with the streak after
// applying it.
type RecordEntryResponse struct {
	Entry  *domain.HabitEntry `json:"registro"`
	Streak services.Summary   `json:"racha"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListHabitsResponse wraps a page of habits and pagination information.
type ListHabitsResponse struct {
	Habits     []domain.Habit `json:"habitos"`
	Pagination Pagination     `json:"pagination"`
}

// ListEntriesResponse wraps a page of entries and pagination information.
type ListEntriesResponse struct {
	Entries    []domain.HabitEntry `json:"registros"`
	Pagination Pagination          `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginationOf computes Pagination metadata for a page of total rows.
func paginationOf(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// failService translates domain sentinel errors into HTTP error responses.
// Unknown errors become a 500 with a generic envelope.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHabitNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotGroupMember):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrHabitLimit):
		fail(c, http.StatusForbidden, ErrCodeHabitLimit, err.Error())
	case errors.Is(err, services.ErrPlanRequired):
		fail(c, http.StatusForbidden, ErrCodePlanRequired, err.Error())
	case errors.Is(err, services.ErrFutureDate):
		fail(c, http.StatusBadRequest, ErrCodeFutureDate, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		fail(c, http.StatusConflict, ErrCodeAlreadyMember, err.Error())
	case errors.Is(err, services.ErrOwnerCannotLeave):
		fail(c, http.StatusConflict, ErrCodeOwnerCannotLeave, err.Error())
	case errors.Is(err, services.ErrInviteExpired):
		fail(c, http.StatusGone, ErrCodeInviteExpired, err.Error())
	case errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrInvalidHabitType),
		errors.Is(err, services.ErrInvalidEntryState),
		errors.Is(err, services.ErrInvalidLocale),
		errors.Is(err, services.ErrInvalidClosureHour),
		errors.Is(err, timezone.ErrInvalidTimezone):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

//
// Handlers
//

// CreateHabit godoc
// @ID          createHabit
// @Summary     Create a new habit
// @Description Creates a habit for the current user after plan-limit and group-membership checks.
// @Tags        Habits
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateHabitRequest  true  "Create habit payload"
//
// @Success     201  {object}  domain.Habit
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Plan limit reached or not a group member"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits [post]
func (h *Handlers) CreateHabit(c *gin.Context) {
	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	hb, err := h.habitSvc.Create(c.Request.Context(), userID(c), services.CreateHabitInput{
		Title:   strings.TrimSpace(req.Title),
		Type:    req.Type,
		GroupID: req.GroupID,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, hb)
}

// ListHabits godoc
// @ID          listHabits
// @Summary     List habits (paginated)
// @Description Returns a page of the user's visible habits (own plus group). Supports tipo and archivado filters.
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       tipo       query   string  false "Filter by type"          Enums(hacer, dejar)
// @Param       archivado  query   bool    false "Filter by archived flag"
// @Param       page       query   int     false "Page number"             minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"          minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListHabitsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits [get]
func (h *Handlers) ListHabits(c *gin.Context) {
	page, pageSize := clampPagination(c)

	var f repo.HabitFilter
	switch tipo := c.Query("tipo"); tipo {
	case "", domain.HabitTypeDo, domain.HabitTypeQuit:
		f.Type = tipo
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tipo must be hacer or dejar")
		return
	}
	switch c.Query("archivado") {
	case "":
	case "true":
		v := true
		f.Archived = &v
	case "false":
		v := false
		f.Archived = &v
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "archivado must be true or false")
		return
	}

	habits, total, err := h.habitSvc.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListHabitsResponse{
		Habits:     habits,
		Pagination: paginationOf(page, pageSize, total),
	})
}

// GetHabit godoc
// @ID          getHabit
// @Summary     Fetch one habit
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
//
// @Success     200  {object}  domain.Habit
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id} [get]
func (h *Handlers) GetHabit(c *gin.Context) {
	hb, err := h.habitSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, hb)
}

// GetHabitDetails godoc
// @ID          getHabitDetails
// @Summary     Fetch a habit with streak, stats, and recent entries
// @Description Runs the passive day-boundary review before reporting the streak.
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
//
// @Success     200  {object}  services.HabitDetails
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id}/details [get]
func (h *Handlers) GetHabitDetails(c *gin.Context) {
	det, err := h.habitSvc.Details(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, det)
}

// UpdateHabit godoc
// @ID          updateHabit
// @Summary     Update a habit
// @Description Applies partial changes (title, type, archived). Requires edit rights on the habit.
// @Tags        Habits
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
// @Param       body       body    handlers.UpdateHabitRequest  true  "Partial update payload"
//
// @Success     200  {object}  domain.Habit
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "No edit rights"
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id} [patch]
func (h *Handlers) UpdateHabit(c *gin.Context) {
	var req UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	hb, err := h.habitSvc.Update(c.Request.Context(), userID(c), c.Param("id"), services.UpdateHabitInput{
		Title:    req.Title,
		Type:     req.Type,
		Archived: req.Archived,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, hb)
}

// DeleteHabit godoc
// @ID          deleteHabit
// @Summary     Delete a habit and its history
// @Description Hard-deletes the habit together with its entries and streak ledger.
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     403  {object}  handlers.ErrorResponse  "No edit rights"
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id} [delete]
func (h *Handlers) DeleteHabit(c *gin.Context) {
	if err := h.habitSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListEntries godoc
// @ID          listEntries
// @Summary     List habit entries (paginated)
// @Description Returns entries newest-first within an optional from/to date range.
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
// @Param       from       query   string  false "Range start (YYYY-MM-DD)"
// @Param       to         query   string  false "Range end (YYYY-MM-DD)"
// @Param       page       query   int     false "Page number"             minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"          minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListEntriesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id}/entries [get]
func (h *Handlers) ListEntries(c *gin.Context) {
	page, pageSize := clampPagination(c)

	var r repo.EntryRange
	if from := c.Query("from"); from != "" {
		d, err := utils.ParseDate(from)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be YYYY-MM-DD")
			return
		}
		r.From = d
	}
	if to := c.Query("to"); to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to must be YYYY-MM-DD")
			return
		}
		r.To = d
	}

	entries, total, err := h.habitSvc.EntriesPage(c.Request.Context(), userID(c), c.Param("id"), r, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListEntriesResponse{
		Entries:    entries,
		Pagination: paginationOf(page, pageSize, total),
	})
}

// RecordEntry godoc
// @ID          recordEntry
// @Summary     Record a habit entry
// @Description Upserts the entry for the user's current local day (or a past day via fecha) and updates the streak atomically.
// @Tags        Entries
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
// @Param       body       body    handlers.RecordEntryRequest  true  "Entry payload"
//
// @Success     201  {object}  handlers.RecordEntryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or future date"
// @Failure     403  {object}  handlers.ErrorResponse  "No access to this habit"
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id}/entries [post]
func (h *Handlers) RecordEntry(c *gin.Context) {
	var req RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "estado must be exito or fallo")
		return
	}

	var date *time.Time
	if req.Date != "" {
		d, err := utils.ParseDate(req.Date)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "fecha must be YYYY-MM-DD")
			return
		}
		date = &d
	}

	entry, sum, err := h.habitSvc.RecordEntry(c.Request.Context(), userID(c), c.Param("id"), services.RecordEntryInput{
		Date:    date,
		State:   req.State,
		Comment: req.Comment,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, RecordEntryResponse{Entry: entry, Streak: sum})
}

// DeleteEntry godoc
// @ID          deleteEntry
// @Summary     Delete a habit entry
// @Description Removes one entry and recalculates the streak from the remaining history.
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
// @Param       entryID    path    string  true  "Entry ID (UUID)"        format(uuid)
//
// @Success     200  {object}  services.Summary
// @Failure     403  {object}  handlers.ErrorResponse  "No access to this habit"
// @Failure     404  {object}  handlers.ErrorResponse  "Habit or entry not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id}/entries/{entryID} [delete]
func (h *Handlers) DeleteEntry(c *gin.Context) {
	sum, err := h.habitSvc.DeleteEntry(c.Request.Context(), userID(c), c.Param("id"), c.Param("entryID"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

// GetStreak godoc
// @ID          getStreak
// @Summary     Fetch a habit's streak
// @Description Runs the passive day-boundary review, then returns {"actual": n, "mejor": m}.
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Habit ID (UUID)"        format(uuid)
//
// @Success     200  {object}  services.Summary
// @Failure     404  {object}  handlers.ErrorResponse  "Habit not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/{id}/streak [get]
func (h *Handlers) GetStreak(c *gin.Context) {
	sum, err := h.habitSvc.Streak(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

// GetDashboard godoc
// @ID          getDashboard
// @Summary     Per-user daily overview
// @Description Reviews each active habit for the current local day and returns streaks, today's states, and totals.
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  services.Dashboard
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/dashboard [get]
func (h *Handlers) GetDashboard(c *gin.Context) {
	d, err := h.habitSvc.Dashboard(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// GetWeeklyProgress godoc
// @ID          getWeeklyProgress
// @Summary     Seven-day progress report
// @Description Returns success/failure counts per local day for the last seven days, oldest first.
// @Tags        Habits
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}   services.DayProgress
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /habits/weekly-progress [get]
func (h *Handlers) GetWeeklyProgress(c *gin.Context) {
	days, err := h.habitSvc.WeeklyProgress(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, days)
}
