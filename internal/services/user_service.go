// Package services – UserService
//
// This file implements the user directory: profile reads and upserts, and the
// timezone configuration lookup the streak engine depends on. The lookup is
// deliberately total: a missing or malformed directory row degrades to the
// system default zone configuration instead of failing, so streak reads never
// break because of profile state.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"golang.org/x/text/language"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
	"github.com/tbourn/go-habit-backend/internal/timezone"
)

// UserService provides profile operations and serves as the user directory
// for the streak engine's timezone resolution.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// TZ resolves local dates and supplies the default zone configuration.
	TZ *timezone.Service
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, tz *timezone.Service) *UserService {
	return &UserService{DB: db, TZ: tz}
}

// ProfileUpdate carries the mutable profile fields; nil pointers leave the
// stored value unchanged.
type ProfileUpdate struct {
	Email       *string
	FullName    *string
	ImageURL    *string
	Locale      *string
	Timezone    *string
	ClosureHour *int
}

// Get returns the directory row for userID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Upsert creates or updates the directory row for userID, validating the
// timezone, closure hour, and locale before persisting. Invalid timezones are
// rejected here (ErrInvalidTimezone) rather than silently falling back: the
// fallback belongs to reads, not to the write that would poison them.
func (s *UserService) Upsert(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		def := s.TZ.DefaultConfig()
		u = &domain.User{
			ID:          userID,
			Locale:      "es",
			Timezone:    def.Name,
			ClosureHour: def.ClosureHour,
		}
	}

	if upd.Email != nil {
		u.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.FullName != nil {
		u.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.ImageURL != nil {
		u.ImageURL = strings.TrimSpace(*upd.ImageURL)
	}
	if upd.Locale != nil {
		tag, err := language.Parse(strings.TrimSpace(*upd.Locale))
		if err != nil {
			return nil, ErrInvalidLocale
		}
		u.Locale = tag.String()
	}
	if upd.Timezone != nil {
		name, err := timezone.Validate(strings.TrimSpace(*upd.Timezone))
		if err != nil {
			return nil, timezone.ErrInvalidTimezone
		}
		u.Timezone = name
	}
	if upd.ClosureHour != nil {
		if *upd.ClosureHour < 0 || *upd.ClosureHour > 23 {
			return nil, ErrInvalidClosureHour
		}
		u.ClosureHour = *upd.ClosureHour
	}

	if err := repo.SaveUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// TimezoneConfig returns the zone configuration for userID, falling back to
// the system default when the user is missing from the directory. It never
// returns an error for a missing user.
func (s *UserService) TimezoneConfig(ctx context.Context, userID string) (timezone.Config, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.TZ.DefaultConfig(), nil
		}
		return timezone.Config{}, err
	}
	cfg := timezone.Config{Name: u.Timezone, ClosureHour: u.ClosureHour}
	if cfg.Name == "" {
		cfg = s.TZ.DefaultConfig()
	}
	return cfg, nil
}
