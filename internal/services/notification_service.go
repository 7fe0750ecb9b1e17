// Package services – NotificationService
//
// In-app notifications: paginated listing, read receipts, and the achievement
// hook fired when a habit's best streak improves. Delivery (email, push) is
// out of scope; rows are stored and exposed through the API only.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
)

// NotificationService manages in-app notifications.
type NotificationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// ListPage returns a page of the user's notifications, newest first, with the
// total count for pagination.
func (s *NotificationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountNotifications(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Notification{}, 0, nil
	}
	items, err := repo.ListNotifications(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// MarkRead stamps the notification as seen by its owner.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	err := repo.MarkNotificationSent(ctx, s.DB, id, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// NotifyBestStreak records an achievement notification when a habit's best
// streak improves. Failures are logged, never propagated: a notification must
// not fail the entry write that earned it.
func (s *NotificationService) NotifyBestStreak(ctx context.Context, userID, habitID string, best int) {
	payload, err := json.Marshal(struct {
		HabitID string `json:"id_habito"`
		Best    int    `json:"mejor_racha"`
	}{HabitID: habitID, Best: best})
	if err != nil {
		log.Error().Err(err).Msg("marshal achievement payload")
		return
	}
	if _, err := repo.CreateNotification(ctx, s.DB, userID, domain.NotificationAchievement, string(payload)); err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("habit_id", habitID).
			Msg("create achievement notification")
	}
}
