// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Habit model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a habit is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// HabitFilter narrows ListHabits results.
type HabitFilter struct {
	// Type filters by habit type ("hacer"/"dejar"); empty means both.
	Type string
	// Archived selects archived (true) or active (false) habits; nil means all.
	Archived *bool
}

// CreateHabit inserts a new Habit owned by ownerID, optionally attached to a
// group. The habit ID is a randomly generated UUID and CreatedAt is set to UTC.
func CreateHabit(ctx context.Context, db *gorm.DB, ownerID string, groupID *string, title, habitType string) (*domain.Habit, error) {
	h := &domain.Habit{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		GroupID:   groupID,
		Title:     title,
		Type:      habitType,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// GetHabit fetches a habit by ID without any ownership scoping; access rules
// live in the service layer's gate. Missing habits yield ErrNotFound.
func GetHabit(ctx context.Context, db *gorm.DB, id string) (*domain.Habit, error) {
	var h domain.Habit
	if err := db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// visibleHabits scopes a query to habits the user owns or shares through a
// group membership.
func visibleHabits(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&domain.Habit{}).Where(
		"id_propietario = ? OR id_grupo IN (?)",
		userID,
		db.Session(&gorm.Session{NewDB: true}).
			Model(&domain.GroupMember{}).
			Select("id_grupo").
			Where("id_clerk = ?", userID),
	)
}

// ListHabits returns a page of habits visible to userID (owned or shared via a
// group), newest first, applying the given filter.
func ListHabits(ctx context.Context, db *gorm.DB, userID string, f HabitFilter, offset, limit int) ([]domain.Habit, error) {
	q := visibleHabits(db.WithContext(ctx), userID)
	if f.Type != "" {
		q = q.Where("tipo = ?", f.Type)
	}
	if f.Archived != nil {
		q = q.Where("archivado = ?", *f.Archived)
	}
	var out []domain.Habit
	err := q.Order("fecha_creacion desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountHabits returns the total number of habits visible to userID under the
// given filter, for pagination.
func CountHabits(ctx context.Context, db *gorm.DB, userID string, f HabitFilter) (int64, error) {
	q := visibleHabits(db.WithContext(ctx), userID)
	if f.Type != "" {
		q = q.Where("tipo = ?", f.Type)
	}
	if f.Archived != nil {
		q = q.Where("archivado = ?", *f.Archived)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountActiveHabitsOwned returns how many unarchived habits ownerID owns,
// used for plan limit enforcement.
func CountActiveHabitsOwned(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Habit{}).
		Where("id_propietario = ? AND archivado = ?", ownerID, false).
		Count(&n).Error
	return n, err
}

// CountVisibleActiveHabits returns how many unarchived habits userID can see.
func CountVisibleActiveHabits(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := visibleHabits(db.WithContext(ctx), userID).
		Where("archivado = ?", false).
		Count(&n).Error
	return n, err
}

// SaveHabit persists in-place mutations of a loaded habit (title, type,
// archived flag).
func SaveHabit(ctx context.Context, db *gorm.DB, h *domain.Habit) error {
	return db.WithContext(ctx).Save(h).Error
}

// DeleteHabitCascade removes a habit and all its dependent rows (streak
// ledgers first, then entries, then the habit) inside the supplied handle.
// Callers run it within a transaction so a failure leaves no partial state.
func DeleteHabitCascade(ctx context.Context, db *gorm.DB, habitID string) error {
	if err := db.WithContext(ctx).Where("id_habito = ?", habitID).Delete(&domain.HabitStreak{}).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("id_habito = ?", habitID).Delete(&domain.HabitEntry{}).Error; err != nil {
		return err
	}
	res := db.WithContext(ctx).Where("id = ?", habitID).Delete(&domain.Habit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
