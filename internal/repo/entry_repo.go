// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for HabitEntry rows.
//
// Entry dates are stored normalized to midnight UTC (see internal/timezone),
// so equality predicates on the fecha column are exact.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// EntryRange bounds ListEntries by local date (inclusive). Zero values mean
// unbounded.
type EntryRange struct {
	From time.Time
	To   time.Time
}

// CreateEntry inserts a new entry row. The unique index on
// (id_habito, id_clerk, fecha) rejects a second entry for the same local day;
// callers map that to their own upsert or conflict semantics.
func CreateEntry(ctx context.Context, db *gorm.DB, e *domain.HabitEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(e).Error
}

// GetEntry fetches an entry by id scoped to a habit and user. Missing rows
// yield ErrNotFound.
func GetEntry(ctx context.Context, db *gorm.DB, entryID, habitID, userID string) (*domain.HabitEntry, error) {
	var e domain.HabitEntry
	err := db.WithContext(ctx).
		Where("id = ? AND id_habito = ? AND id_clerk = ?", entryID, habitID, userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntryByDate fetches the entry for one (habit, user, local date) triple,
// or nil (with no error) when none exists. The nil-result contract keeps the
// streak engine's "was yesterday recorded" checks free of not-found plumbing.
func GetEntryByDate(ctx context.Context, db *gorm.DB, habitID, userID string, date time.Time) (*domain.HabitEntry, error) {
	var e domain.HabitEntry
	err := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ? AND fecha = ?", habitID, userID, date).
		First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// UpdateEntryInPlace rewrites state, comment, and recording instant of an
// existing entry row, used by the record-entry upsert path.
func UpdateEntryInPlace(ctx context.Context, db *gorm.DB, e *domain.HabitEntry, state, comment string, recordedAt time.Time) error {
	return db.WithContext(ctx).
		Model(e).
		Updates(map[string]any{
			"estado":           state,
			"comentario":       comment,
			"fecha_hora_local": recordedAt,
		}).Error
}

// DeleteEntry removes an entry by id scoped to habit and user. Deleting a
// missing row yields ErrNotFound.
func DeleteEntry(ctx context.Context, db *gorm.DB, entryID, habitID, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND id_habito = ? AND id_clerk = ?", entryID, habitID, userID).
		Delete(&domain.HabitEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListEntries returns a page of entries for (habit, user) ordered by date
// descending, bounded by r.
func ListEntries(ctx context.Context, db *gorm.DB, habitID, userID string, r EntryRange, offset, limit int) ([]domain.HabitEntry, error) {
	q := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID)
	if !r.From.IsZero() {
		q = q.Where("fecha >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where("fecha <= ?", r.To)
	}
	var out []domain.HabitEntry
	err := q.Order("fecha desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountEntries returns the total number of entries for (habit, user) within
// r, for pagination.
func CountEntries(ctx context.Context, db *gorm.DB, habitID, userID string, r EntryRange) (int64, error) {
	q := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID)
	if !r.From.IsZero() {
		q = q.Where("fecha >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where("fecha <= ?", r.To)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// RecentEntries returns the latest limit entries for (habit, user) by date
// descending.
func RecentEntries(ctx context.Context, db *gorm.DB, habitID, userID string, limit int) ([]domain.HabitEntry, error) {
	var out []domain.HabitEntry
	err := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID).
		Order("fecha desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SuccessDatesDesc returns the distinct local dates of all success entries for
// (habit, user), newest first. The streak engine walks this list to rebuild
// the current run after a historical insertion or a deletion.
func SuccessDatesDesc(ctx context.Context, db *gorm.DB, habitID, userID string) ([]time.Time, error) {
	var dates []time.Time
	err := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("id_habito = ? AND id_clerk = ? AND estado = ?", habitID, userID, domain.EntrySuccess).
		Order("fecha desc").
		Pluck("fecha", &dates).Error
	return dates, err
}

// FirstEntry returns the oldest entry for (habit, user), or nil when the pair
// has no history.
func FirstEntry(ctx context.Context, db *gorm.DB, habitID, userID string) (*domain.HabitEntry, error) {
	var e domain.HabitEntry
	err := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID).
		Order("fecha asc").
		First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// LastEntry returns the most recent entry for (habit, user), or nil when the
// pair has no history.
func LastEntry(ctx context.Context, db *gorm.DB, habitID, userID string) (*domain.HabitEntry, error) {
	var e domain.HabitEntry
	err := db.WithContext(ctx).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID).
		Order("fecha desc").
		First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// CountEntriesByState counts entries for (habit, user), optionally filtered by
// state ("" counts all).
func CountEntriesByState(ctx context.Context, db *gorm.DB, habitID, userID, state string) (int64, error) {
	q := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("id_habito = ? AND id_clerk = ?", habitID, userID)
	if state != "" {
		q = q.Where("estado = ?", state)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountUserEntriesOnDate counts a user's entries across all habits on one
// local date with the given state, used by the weekly progress report.
func CountUserEntriesOnDate(ctx context.Context, db *gorm.DB, userID string, date time.Time, state string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("id_clerk = ? AND fecha = ? AND estado = ?", userID, date, state).
		Count(&n).Error
	return n, err
}
