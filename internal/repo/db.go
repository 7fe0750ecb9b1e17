// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and plan seeding.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, tunes the
// connection pool, and installs the OpenTelemetry tracing plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	// DB spans ride on the request trace; metrics come from the HTTP layer.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.GroupInvite{},
		&domain.Habit{},
		&domain.HabitEntry{},
		&domain.HabitStreak{},
		&domain.Plan{},
		&domain.Subscription{},
		&domain.Notification{},
	)
}

// SeedPlans inserts the default subscription tiers when the planes table is
// empty. Idempotent across restarts.
func SeedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	plans := []domain.Plan{
		{Code: "free", Name: "Gratuito", PriceCents: 0, MaxHabits: 1, AllowGroups: false, Active: true},
		{Code: "pro", Name: "Pro", PriceCents: 499, MaxHabits: 20, AllowGroups: true, Active: true},
		{Code: "unlimited", Name: "Ilimitado", PriceCents: 999, MaxHabits: 0, AllowGroups: true, Active: true},
	}
	return db.Create(&plans).Error
}
