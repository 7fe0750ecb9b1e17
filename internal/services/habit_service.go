// Package services – HabitService
//
// This file implements habit lifecycle and entry recording, coordinating the
// access/ownership gate, the subscription limits, and the streak engine.
// Entry writes and their ledger updates run in one transaction: a failure
// anywhere rolls back both, so the ledger never disagrees with the history
// that produced it.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
	"github.com/tbourn/go-habit-backend/internal/timezone"
)

// HabitService implements the use-cases around habits and their entries.
type HabitService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// TZ resolves local dates.
	TZ *timezone.Service
	// Streaks maintains the streak ledger.
	Streaks *StreakService
	// Users supplies per-user timezone configuration.
	Users *UserService
	// Subs enforces plan limits on habit creation.
	Subs *SubscriptionService
	// Notifs receives achievement hooks; may be nil in tests.
	Notifs *NotificationService
}

// NewHabitService constructs a HabitService.
func NewHabitService(db *gorm.DB, tz *timezone.Service, streaks *StreakService, users *UserService, subs *SubscriptionService, notifs *NotificationService) *HabitService {
	return &HabitService{DB: db, TZ: tz, Streaks: streaks, Users: users, Subs: subs, Notifs: notifs}
}

// CreateHabitInput carries the fields for habit creation.
type CreateHabitInput struct {
	Title   string
	Type    string
	GroupID *string
}

// UpdateHabitInput carries the mutable habit fields; nil pointers leave the
// stored value unchanged.
type UpdateHabitInput struct {
	Title    *string
	Type     *string
	Archived *bool
}

// HabitDetails aggregates a habit with its streak, history stats, and the
// most recent entries.
type HabitDetails struct {
	Habit       *domain.Habit       `json:"habito"`
	Streak      Summary             `json:"racha"`
	Total       int64               `json:"total_registros"`
	Successes   int64               `json:"exitos"`
	Failures    int64               `json:"fallos"`
	SuccessRate float64             `json:"tasa_exito"`
	Recent      []domain.HabitEntry `json:"registros_recientes"`
}

// DashboardHabit is one row of the dashboard: the habit, its streak, and
// today's entry state ("" when nothing is recorded yet).
type DashboardHabit struct {
	Habit      domain.Habit `json:"habito"`
	Streak     Summary      `json:"racha"`
	TodayState string       `json:"estado_hoy"`
}

// Dashboard is the per-user overview returned by the dashboard endpoint.
type Dashboard struct {
	Date           string           `json:"fecha"`
	Habits         []DashboardHabit `json:"habitos"`
	CompletedToday int              `json:"completados_hoy"`
	BestStreak     int              `json:"mejor_racha"`
}

// DayProgress is one local day of the weekly progress report.
type DayProgress struct {
	Date      string `json:"fecha"`
	Successes int64  `json:"exitos"`
	Failures  int64  `json:"fallos"`
}

// RecordEntryInput carries the fields for recording an entry. Date nil means
// the user's current local date; a past date backfills.
type RecordEntryInput struct {
	Date    *time.Time
	State   string
	Comment string
}

// HasAccess reports whether userID may read the habit: the owner always may,
// and any member of the habit's group may.
func (s *HabitService) HasAccess(ctx context.Context, h *domain.Habit, userID string) (bool, error) {
	if h.OwnerID == userID {
		return true, nil
	}
	if !h.IsGroupHabit() {
		return false, nil
	}
	m, err := repo.GetGroupMember(ctx, s.DB, *h.GroupID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// CanEdit reports whether userID may mutate the habit: the owner, or a group
// owner/admin for group habits.
func (s *HabitService) CanEdit(ctx context.Context, h *domain.Habit, userID string) (bool, error) {
	if h.OwnerID == userID {
		return true, nil
	}
	if !h.IsGroupHabit() {
		return false, nil
	}
	m, err := repo.GetGroupMember(ctx, s.DB, *h.GroupID, userID)
	if err != nil {
		return false, err
	}
	return m != nil && (m.Role == domain.RoleOwner || m.Role == domain.RoleAdmin), nil
}

// loadAccessible fetches a habit and runs the access gate for userID.
func (s *HabitService) loadAccessible(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	h, err := repo.GetHabit(ctx, s.DB, habitID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	ok, err := s.HasAccess(ctx, h, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return h, nil
}

// loadEditable fetches a habit and runs the edit gate for userID.
func (s *HabitService) loadEditable(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	h, err := repo.GetHabit(ctx, s.DB, habitID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	ok, err := s.CanEdit(ctx, h, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return h, nil
}

// Create inserts a new habit owned by userID after validating the input and
// the plan limits. Group habits additionally require membership in the group.
func (s *HabitService) Create(ctx context.Context, userID string, in CreateHabitInput) (*domain.Habit, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if in.Type != domain.HabitTypeDo && in.Type != domain.HabitTypeQuit {
		return nil, ErrInvalidHabitType
	}

	grouped := in.GroupID != nil && *in.GroupID != ""
	if grouped {
		m, err := repo.GetGroupMember(ctx, s.DB, *in.GroupID, userID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, ErrNotGroupMember
		}
	} else {
		in.GroupID = nil
	}

	if err := s.Subs.CheckHabitLimit(ctx, userID, grouped); err != nil {
		return nil, err
	}
	return repo.CreateHabit(ctx, s.DB, userID, in.GroupID, title, in.Type)
}

// ListPage returns a page of habits visible to userID with the total count.
func (s *HabitService) ListPage(ctx context.Context, userID string, f repo.HabitFilter, page, pageSize int) ([]domain.Habit, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountHabits(ctx, s.DB, userID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Habit{}, 0, nil
	}
	items, err := repo.ListHabits(ctx, s.DB, userID, f, offset, pageSize)
	return items, total, err
}

// Get returns a habit after the access gate.
func (s *HabitService) Get(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	return s.loadAccessible(ctx, habitID, userID)
}

// Details returns a habit with its streak (after the passive review), entry
// statistics, and the most recent entries.
func (s *HabitService) Details(ctx context.Context, userID, habitID string) (*HabitDetails, error) {
	h, err := s.loadAccessible(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.Streaks.Review(ctx, habitID, userID, cfg)
	if err != nil {
		return nil, err
	}
	stats, err := repo.GetHabitStats(ctx, s.DB, habitID, userID)
	if err != nil {
		return nil, err
	}
	recent, err := repo.RecentEntries(ctx, s.DB, habitID, userID, 7)
	if err != nil {
		return nil, err
	}
	return &HabitDetails{
		Habit:       h,
		Streak:      sum,
		Total:       stats.TotalEntries,
		Successes:   stats.Successes,
		Failures:    stats.Failures,
		SuccessRate: stats.SuccessRate(),
		Recent:      recent,
	}, nil
}

// Update mutates a habit's title, type, or archived flag after the edit gate.
func (s *HabitService) Update(ctx context.Context, userID, habitID string, in UpdateHabitInput) (*domain.Habit, error) {
	h, err := s.loadEditable(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		h.Title = title
	}
	if in.Type != nil {
		if *in.Type != domain.HabitTypeDo && *in.Type != domain.HabitTypeQuit {
			return nil, ErrInvalidHabitType
		}
		h.Type = *in.Type
	}
	if in.Archived != nil {
		h.Archived = *in.Archived
	}
	if err := repo.SaveHabit(ctx, s.DB, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Archive marks a habit archived after the edit gate. Archiving keeps the
// history; Delete removes it.
func (s *HabitService) Archive(ctx context.Context, userID, habitID string) error {
	archived := true
	_, err := s.Update(ctx, userID, habitID, UpdateHabitInput{Archived: &archived})
	return err
}

// Delete hard-deletes a habit with its ledgers and entries in one
// transaction, after the edit gate.
func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	if _, err := s.loadEditable(ctx, habitID, userID); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteHabitCascade(ctx, tx, habitID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrHabitNotFound
	}
	return err
}

// EntriesPage returns a page of the caller's entries for a habit, bounded by
// r, with the total count.
func (s *HabitService) EntriesPage(ctx context.Context, userID, habitID string, r repo.EntryRange, page, pageSize int) ([]domain.HabitEntry, int64, error) {
	if _, err := s.loadAccessible(ctx, habitID, userID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountEntries(ctx, s.DB, habitID, userID, r)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.HabitEntry{}, 0, nil
	}
	items, err := repo.ListEntries(ctx, s.DB, habitID, userID, r, offset, pageSize)
	return items, total, err
}

// Streak runs the passive review and returns the caller's streak for a habit.
func (s *HabitService) Streak(ctx context.Context, userID, habitID string) (Summary, error) {
	if _, err := s.loadAccessible(ctx, habitID, userID); err != nil {
		return Summary{}, err
	}
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return s.Streaks.Review(ctx, habitID, userID, cfg)
}

// RecordEntry upserts the caller's entry for a local date and folds it into
// the streak ledger, all in one transaction. A date in the future is
// rejected; an omitted date means the caller's current local date. Recording
// twice on the same date overwrites state and comment instead of failing.
// When the write improves the best streak an achievement notification fires.
func (s *HabitService) RecordEntry(ctx context.Context, userID, habitID string, in RecordEntryInput) (*domain.HabitEntry, Summary, error) {
	tr := otel.Tracer("services/HabitService")
	ctx, span := tr.Start(ctx, "RecordEntry",
		trace.WithAttributes(
			attribute.String("habit.id", habitID),
			attribute.String("user.id", userID),
			attribute.String("entry.state", in.State),
		),
	)
	defer span.End()

	if in.State != domain.EntrySuccess && in.State != domain.EntryFailure {
		return nil, Summary{}, ErrInvalidEntryState
	}
	if _, err := s.loadAccessible(ctx, habitID, userID); err != nil {
		return nil, Summary{}, err
	}
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return nil, Summary{}, err
	}

	today := s.TZ.Now(cfg)
	date := today
	if in.Date != nil {
		date = timezone.DateOnly(*in.Date)
	}
	if date.After(today) {
		return nil, Summary{}, ErrFutureDate
	}

	prevBest := 0
	if led, err := repo.GetStreak(ctx, s.DB, habitID, userID); err == nil {
		prevBest = led.Best
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, Summary{}, err
	}

	var (
		entry *domain.HabitEntry
		sum   Summary
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.GetEntryByDate(ctx, tx, habitID, userID, date)
		if err != nil {
			return err
		}
		recordedAt := time.Now().UTC()
		if existing != nil {
			if err := repo.UpdateEntryInPlace(ctx, tx, existing, in.State, in.Comment, recordedAt); err != nil {
				return err
			}
			existing.State = in.State
			existing.Comment = in.Comment
			existing.RecordedAt = recordedAt
			entry = existing
		} else {
			e := &domain.HabitEntry{
				HabitID:    habitID,
				UserID:     userID,
				Date:       date,
				RecordedAt: recordedAt,
				State:      in.State,
				Comment:    in.Comment,
			}
			if err := repo.CreateEntry(ctx, tx, e); err != nil {
				return err
			}
			entry = e
		}

		sum, err = s.Streaks.ApplyEntry(ctx, tx, habitID, userID, cfg, date, in.State)
		return err
	})
	if err != nil {
		return nil, Summary{}, err
	}

	if s.Notifs != nil && sum.Best > prevBest {
		s.Notifs.NotifyBestStreak(ctx, userID, habitID, sum.Best)
	}
	return entry, sum, nil
}

// DeleteEntry removes one of the caller's entries and rebuilds the streak
// ledger from the remaining history, in one transaction.
func (s *HabitService) DeleteEntry(ctx context.Context, userID, habitID, entryID string) (Summary, error) {
	if _, err := s.loadAccessible(ctx, habitID, userID); err != nil {
		return Summary{}, err
	}
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteEntry(ctx, tx, entryID, habitID, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		var err error
		sum, err = s.Streaks.RecalculateAfterDeletion(ctx, tx, habitID, userID, cfg)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// Dashboard returns the per-habit overview for the caller's current local
// date: each active habit with its reviewed streak and today's entry state,
// plus completion totals.
func (s *HabitService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.TZ.Now(cfg)

	active := false
	habits, err := repo.ListHabits(ctx, s.DB, userID, repo.HabitFilter{Archived: &active}, 0, 200)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{
		Date:   timezone.FormatDate(today),
		Habits: make([]DashboardHabit, 0, len(habits)),
	}
	for _, h := range habits {
		sum, err := s.Streaks.Review(ctx, h.ID, userID, cfg)
		if err != nil {
			return nil, err
		}
		entry, err := repo.GetEntryByDate(ctx, s.DB, h.ID, userID, today)
		if err != nil {
			return nil, err
		}
		row := DashboardHabit{Habit: h, Streak: sum}
		if entry != nil {
			row.TodayState = entry.State
			if entry.State == domain.EntrySuccess {
				out.CompletedToday++
			}
		}
		if sum.Best > out.BestStreak {
			out.BestStreak = sum.Best
		}
		out.Habits = append(out.Habits, row)
	}
	return out, nil
}

// WeeklyProgress returns the caller's success/failure totals across all
// habits for the last seven local days, oldest first.
func (s *HabitService) WeeklyProgress(ctx context.Context, userID string) ([]DayProgress, error) {
	cfg, err := s.Users.TimezoneConfig(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.TZ.Now(cfg)

	out := make([]DayProgress, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		succ, err := repo.CountUserEntriesOnDate(ctx, s.DB, userID, day, domain.EntrySuccess)
		if err != nil {
			return nil, err
		}
		fail, err := repo.CountUserEntriesOnDate(ctx, s.DB, userID, day, domain.EntryFailure)
		if err != nil {
			return nil, err
		}
		out = append(out, DayProgress{
			Date:      timezone.FormatDate(day),
			Successes: succ,
			Failures:  fail,
		})
	}
	return out, nil
}
