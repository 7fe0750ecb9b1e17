// Package services – StreakService
//
// This file implements the streak recalculation engine, the core of the
// application. A streak (racha) is the count of consecutive local days with a
// recorded success entry, ending at the most recent one with no gap. "Local
// day" is resolved per user through the timezone resolver, honoring the
// configured day-closure hour.
//
// The engine has two entry points:
//
//   - Review: the passive pass, run on every read of a streak value. It closes
//     out a day the user never touched, synthesizing a failure entry for
//     yesterday when a positive streak breaks. There is no background
//     scheduler; this lazy pass substitutes for one, and a per-day cache
//     (ultima_revision_local) keeps it from running twice in the same local
//     day.
//   - ApplyEntry: the active pass, run inside the same transaction as an entry
//     write. A success for today extends or restarts the streak
//     incrementally; a backfilled historical success triggers a full rescan of
//     the success history, because a retroactive insertion can create or
//     extend a run the incremental path cannot reason about locally.
//
// Entry deletion also triggers the full rescan (RecalculateAfterDeletion):
// deleting a backfilled success that was propping up the current streak must
// shrink racha_actual accordingly.
//
// After every operation racha_actual <= mejor_racha holds; mejor_racha is a
// historical maximum and is never lowered.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
	"github.com/tbourn/go-habit-backend/internal/timezone"
)

// SyntheticFailureComment marks entries written by the passive review when a
// missed day breaks a streak, distinguishing them from user-recorded failures.
const SyntheticFailureComment = "Registro automático - No se completó el hábito"

var (
	// streaksBroken counts streak resets, split by which pass detected them.
	streaksBroken = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_streaks_broken_total",
			Help: "Total number of streak resets to zero.",
		},
		[]string{"source"},
	)

	// syntheticFailures counts failure entries written by the passive review.
	syntheticFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_synthetic_failures_total",
			Help: "Total number of auto-generated failure entries for missed days.",
		},
	)

	// streakRescans counts full history rescans (backfill and deletion paths).
	streakRescans = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_streak_rescans_total",
			Help: "Total number of full success-history rescans.",
		},
	)
)

func init() {
	prometheus.MustRegister(streaksBroken, syntheticFailures, streakRescans)
}

// Summary is the streak value pair returned to clients.
type Summary struct {
	// Current is the running streak (racha_actual).
	Current int `json:"actual"`
	// Best is the historical maximum (mejor_racha).
	Best int `json:"mejor"`
}

// StreakService maintains the per-(habit,user) streak ledger.
type StreakService struct {
	// DB is the GORM handle used by Review, which opens its own transaction.
	// ApplyEntry and RecalculateAfterDeletion run on a caller-supplied
	// transaction instead, so the ledger mutation commits or rolls back with
	// the entry write.
	DB *gorm.DB
	// TZ resolves the user's local date.
	TZ *timezone.Service
}

// NewStreakService constructs a StreakService.
func NewStreakService(db *gorm.DB, tz *timezone.Service) *StreakService {
	return &StreakService{DB: db, TZ: tz}
}

func summaryOf(s *domain.HabitStreak) Summary {
	return Summary{Current: s.Current, Best: s.Best}
}

// Review runs the passive streak review for (habit, user) under cfg and
// returns the resulting summary.
//
// Semantics:
//   - A pair with no ledger row gets one, initialized to zero, and {0,0} is
//     returned with no further work.
//   - If the pair was already reviewed today (ultima_revision_local), the
//     stored values are returned unchanged and nothing is written.
//   - Otherwise, if yesterday has no entry or a failure entry and the current
//     streak is positive, the streak is broken: a failure entry dated
//     yesterday is synthesized (unless one already exists for that date) and
//     racha_actual resets to 0. mejor_racha is untouched. A zero streak
//     synthesizes nothing; there is nothing to report for a habit not being
//     actively tracked.
//
// The ledger read, the conditional synthetic write, and the ledger update run
// in one transaction.
func (s *StreakService) Review(ctx context.Context, habitID, userID string, cfg timezone.Config) (Summary, error) {
	tr := otel.Tracer("services/StreakService")
	ctx, span := tr.Start(ctx, "Review",
		trace.WithAttributes(
			attribute.String("habit.id", habitID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	today := s.TZ.Now(cfg)
	yesterday := today.AddDate(0, 0, -1)

	var out Summary
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		led, created, err := repo.GetOrCreateStreak(ctx, tx, habitID, userID, today)
		if err != nil {
			return err
		}
		if created {
			out = summaryOf(led)
			return nil
		}
		if led.LastReviewedLocal.Equal(today) {
			// Already reviewed today.
			out = summaryOf(led)
			return nil
		}

		yEntry, err := repo.GetEntryByDate(ctx, tx, habitID, userID, yesterday)
		if err != nil {
			return err
		}
		missed := yEntry == nil || yEntry.State != domain.EntrySuccess
		if missed && led.Current > 0 {
			if yEntry == nil {
				e := &domain.HabitEntry{
					HabitID:    habitID,
					UserID:     userID,
					Date:       yesterday,
					RecordedAt: time.Now().UTC(),
					State:      domain.EntryFailure,
					Comment:    SyntheticFailureComment,
				}
				if err := repo.CreateEntry(ctx, tx, e); err != nil {
					// A concurrent writer beat us to the date; the streak
					// still resets either way.
					if !errors.Is(err, gorm.ErrDuplicatedKey) && !isDuplicate(err) {
						return err
					}
				} else {
					syntheticFailures.Inc()
				}
			}
			led.Current = 0
			streaksBroken.WithLabelValues("review").Inc()
		}

		led.LastReviewedLocal = today
		if err := repo.SaveStreak(ctx, tx, led); err != nil {
			return err
		}
		out = summaryOf(led)
		return nil
	})
	return out, err
}

// ApplyEntry folds a just-written entry into the ledger. It must run on the
// same transaction handle tx as the entry write so both commit or roll back
// together.
//
// Semantics:
//   - Failure: racha_actual resets to 0 unconditionally. ultima_fecha is left
//     unchanged; only successes advance it.
//   - Success dated today: increment when yesterday is a recorded success,
//     otherwise restart at 1.
//   - Success dated in the past (backfill): full rescan of the success
//     history, counting consecutive days back from the most recent success.
//   - For successes mejor_racha rises to racha_actual when exceeded and
//     ultima_fecha becomes the entry date.
//
// The write counts as today's review, so ultima_revision_local is always
// advanced to today before returning.
func (s *StreakService) ApplyEntry(ctx context.Context, tx *gorm.DB, habitID, userID string, cfg timezone.Config, entryDate time.Time, state string) (Summary, error) {
	tr := otel.Tracer("services/StreakService")
	ctx, span := tr.Start(ctx, "ApplyEntry",
		trace.WithAttributes(
			attribute.String("habit.id", habitID),
			attribute.String("user.id", userID),
			attribute.String("entry.state", state),
		),
	)
	defer span.End()

	today := s.TZ.Now(cfg)
	entryDate = timezone.DateOnly(entryDate)

	led, _, err := repo.GetOrCreateStreak(ctx, tx, habitID, userID, today)
	if err != nil {
		return Summary{}, err
	}

	switch state {
	case domain.EntryFailure:
		if led.Current > 0 {
			streaksBroken.WithLabelValues("entry").Inc()
		}
		led.Current = 0

	case domain.EntrySuccess:
		if entryDate.Equal(today) {
			yEntry, err := repo.GetEntryByDate(ctx, tx, habitID, userID, today.AddDate(0, 0, -1))
			if err != nil {
				return Summary{}, err
			}
			if yEntry != nil && yEntry.State == domain.EntrySuccess {
				led.Current++
			} else {
				led.Current = 1
			}
		} else {
			run, err := s.rescan(ctx, tx, habitID, userID)
			if err != nil {
				return Summary{}, err
			}
			led.Current = run
		}
		if led.Current > led.Best {
			led.Best = led.Current
		}
		d := entryDate
		led.LastSuccessDate = &d

	default:
		return Summary{}, ErrInvalidEntryState
	}

	led.LastReviewedLocal = today
	if err := repo.SaveStreak(ctx, tx, led); err != nil {
		return Summary{}, err
	}
	return summaryOf(led), nil
}

// RecalculateAfterDeletion rebuilds the ledger from the remaining success
// history after an entry deletion. Like ApplyEntry it runs on the caller's
// transaction so the deletion and the ledger update are atomic.
func (s *StreakService) RecalculateAfterDeletion(ctx context.Context, tx *gorm.DB, habitID, userID string, cfg timezone.Config) (Summary, error) {
	tr := otel.Tracer("services/StreakService")
	ctx, span := tr.Start(ctx, "RecalculateAfterDeletion",
		trace.WithAttributes(
			attribute.String("habit.id", habitID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	today := s.TZ.Now(cfg)

	led, _, err := repo.GetOrCreateStreak(ctx, tx, habitID, userID, today)
	if err != nil {
		return Summary{}, err
	}

	dates, err := repo.SuccessDatesDesc(ctx, tx, habitID, userID)
	if err != nil {
		return Summary{}, err
	}
	streakRescans.Inc()

	led.Current = runLength(dates)
	if led.Current > led.Best {
		led.Best = led.Current
	}
	if len(dates) > 0 {
		d := timezone.DateOnly(dates[0])
		led.LastSuccessDate = &d
	} else {
		led.LastSuccessDate = nil
	}

	led.LastReviewedLocal = today
	if err := repo.SaveStreak(ctx, tx, led); err != nil {
		return Summary{}, err
	}
	return summaryOf(led), nil
}

// rescan recomputes the current run from the full success history.
func (s *StreakService) rescan(ctx context.Context, tx *gorm.DB, habitID, userID string) (int, error) {
	dates, err := repo.SuccessDatesDesc(ctx, tx, habitID, userID)
	if err != nil {
		return 0, err
	}
	streakRescans.Inc()
	return runLength(dates), nil
}

// runLength counts the consecutive-day run ending at the most recent success,
// given success dates ordered newest first. It stops at the first gap.
func runLength(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	run := 1
	prev := timezone.DateOnly(dates[0])
	for _, raw := range dates[1:] {
		d := timezone.DateOnly(raw)
		if !prev.AddDate(0, 0, -1).Equal(d) {
			break
		}
		run++
		prev = d
	}
	return run
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
