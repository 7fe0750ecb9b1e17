// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate/statistics queries used by the
// per-habit detail views and the system stats endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// HabitStats aggregates per-(habit,user) entry history.
type HabitStats struct {
	TotalEntries int64
	Successes    int64
	Failures     int64
}

// SuccessRate returns the percentage of successful entries, rounded to one
// decimal, or 0 when the pair has no history.
func (s HabitStats) SuccessRate() float64 {
	if s.TotalEntries == 0 {
		return 0
	}
	rate := float64(s.Successes) / float64(s.TotalEntries) * 100
	return float64(int(rate*10+0.5)) / 10
}

// GetHabitStats counts total, success, and failure entries for (habit, user).
func GetHabitStats(ctx context.Context, db *gorm.DB, habitID, userID string) (HabitStats, error) {
	var out HabitStats
	var err error
	if out.TotalEntries, err = CountEntriesByState(ctx, db, habitID, userID, ""); err != nil {
		return out, err
	}
	if out.Successes, err = CountEntriesByState(ctx, db, habitID, userID, domain.EntrySuccess); err != nil {
		return out, err
	}
	if out.Failures, err = CountEntriesByState(ctx, db, habitID, userID, domain.EntryFailure); err != nil {
		return out, err
	}
	return out, nil
}

// SystemStats holds platform-wide aggregates for the operations endpoint.
type SystemStats struct {
	ActiveUsers     int64   `json:"active_users"`
	CompletedHabits int64   `json:"completed_habits"`
	SuccessRate     float64 `json:"success_rate"`
	AverageStreak   float64 `json:"average_streak"`
}

// GetSystemStats computes platform-wide aggregates: distinct users with
// entries in the last 30 days, total completions, global success rate, and
// the mean of positive current streaks.
func GetSystemStats(ctx context.Context, db *gorm.DB) (SystemStats, error) {
	var out SystemStats

	thirtyDaysAgo := time.Now().UTC().AddDate(0, 0, -30)
	if err := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("fecha_creacion >= ?", thirtyDaysAgo).
		Distinct("id_clerk").
		Count(&out.ActiveUsers).Error; err != nil {
		return out, err
	}

	if err := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Where("estado = ?", domain.EntrySuccess).
		Count(&out.CompletedHabits).Error; err != nil {
		return out, err
	}

	var total int64
	if err := db.WithContext(ctx).
		Model(&domain.HabitEntry{}).
		Count(&total).Error; err != nil {
		return out, err
	}
	if total > 0 {
		rate := float64(out.CompletedHabits) / float64(total) * 100
		out.SuccessRate = float64(int(rate*100+0.5)) / 100
	}

	var avg *float64
	if err := db.WithContext(ctx).
		Model(&domain.HabitStreak{}).
		Where("racha_actual > 0").
		Select("AVG(racha_actual)").
		Scan(&avg).Error; err != nil {
		return out, err
	}
	if avg != nil {
		out.AverageStreak = float64(int(*avg*10+0.5)) / 10
	}

	return out, nil
}
