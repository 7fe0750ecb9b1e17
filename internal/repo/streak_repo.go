// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the streak
// ledger (habito_rachas), one row per (habit, user) pair.
//
// The composite primary key serializes concurrent creators of the same pair:
// exactly one insert wins and the loser re-reads the winning row. That
// contract is surfaced through CreateStreak's duplicate error, which
// GetOrCreateStreak resolves idempotently.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// GetStreak fetches the ledger row for (habit, user). Missing rows yield
// ErrNotFound.
func GetStreak(ctx context.Context, db *gorm.DB, habitID, userID string) (*domain.HabitStreak, error) {
	var s domain.HabitStreak
	err := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStreak inserts a fresh ledger row initialized to zero counters with
// today's local date as the last-reviewed marker. A concurrent duplicate
// insert propagates the constraint error; use GetOrCreateStreak for the
// idempotent variant.
func CreateStreak(ctx context.Context, db *gorm.DB, habitID, userID string, today time.Time) (*domain.HabitStreak, error) {
	s := &domain.HabitStreak{
		HabitID:           habitID,
		UserID:            userID,
		Current:           0,
		Best:              0,
		LastSuccessDate:   nil,
		LastReviewedLocal: today,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetOrCreateStreak returns the ledger row for (habit, user), creating it when
// absent. created reports whether this call performed the insert. When two
// requests race on a new pair, the primary key rejects the second insert and
// the loser transparently re-reads the winner's row.
func GetOrCreateStreak(ctx context.Context, db *gorm.DB, habitID, userID string, today time.Time) (s *domain.HabitStreak, created bool, err error) {
	s, err = GetStreak(ctx, db, habitID, userID)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	s, err = CreateStreak(ctx, db, habitID, userID, today)
	if err == nil {
		return s, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKey(err) {
		s, err = GetStreak(ctx, db, habitID, userID)
		return s, false, err
	}
	return nil, false, err
}

// SaveStreak persists a mutated ledger row and refreshes its update stamp.
func SaveStreak(ctx context.Context, db *gorm.DB, s *domain.HabitStreak) error {
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(s).Error
}

// isDuplicateKey detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
