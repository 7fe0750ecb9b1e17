// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for in-app
// notifications.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// CreateNotification inserts a notification for a user.
func CreateNotification(ctx context.Context, db *gorm.DB, userID, kind, payload string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns a page of the user's notifications, newest first.
func ListNotifications(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("id_clerk = ?", userID).
		Order("fecha_creacion desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountNotifications returns the user's total notification count.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id_clerk = ?", userID).
		Count(&n).Error
	return n, err
}

// MarkNotificationSent stamps enviada_en for a notification owned by userID.
// Missing or foreign rows yield ErrNotFound.
func MarkNotificationSent(ctx context.Context, db *gorm.DB, id, userID string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND id_clerk = ?", id, userID).
		Update("enviada_en", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
