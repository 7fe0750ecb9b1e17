// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the user
// directory (usuarios) and for subscriptions/plans.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// GetUser fetches a directory row by external id. Missing users yield
// ErrNotFound; the timezone fallback for missing users lives in the service
// layer.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id_clerk = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser inserts or updates a directory row (upsert keyed by id_clerk).
func SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(u).Error
}

// CurrentSubscription returns the user's current subscription with its plan
// loaded, or nil when the user has none (free tier).
func CurrentSubscription(ctx context.Context, db *gorm.DB, userID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Preload("Plan").
		Where("id_clerk = ? AND es_actual = ?", userID, true).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription marks previous subscriptions non-current and inserts the
// new one inside a single transaction.
func CreateSubscription(ctx context.Context, db *gorm.DB, userID string, planID int, cycle string, periodStart, periodEnd *time.Time) (*domain.Subscription, error) {
	sub := &domain.Subscription{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      planID,
		State:       domain.SubscriptionActive,
		Cycle:       cycle,
		IsCurrent:   true,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		CreatedAt:   time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Subscription{}).
			Where("id_clerk = ? AND es_actual = ?", userID, true).
			Update("es_actual", false).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetPlanByCode fetches an active plan by its stable code.
func GetPlanByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).
		Where("codigo = ? AND activo = ?", code, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans returns all active plans ordered by price.
func ListPlans(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var out []domain.Plan
	err := db.WithContext(ctx).
		Where("activo = ?", true).
		Order("precio_centavos asc").
		Find(&out).Error
	return out, err
}
