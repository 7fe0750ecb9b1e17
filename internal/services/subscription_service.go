// Package services – SubscriptionService
//
// This file implements plan resolution and the capability checks the habit
// and group services consult before mutating state. A user without a current
// subscription is on the free tier; the free plan row is seeded at startup,
// and a configured fallback limit covers databases where it is absent.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
)

// SubscriptionService resolves the user's plan and enforces its limits.
type SubscriptionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// FreeTierHabitLimit caps active owned habits for users without a seeded
	// free plan row. 0 means unlimited.
	FreeTierHabitLimit int
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(db *gorm.DB, freeTierHabitLimit int) *SubscriptionService {
	return &SubscriptionService{DB: db, FreeTierHabitLimit: freeTierHabitLimit}
}

// Current returns the user's current subscription with its plan loaded, or
// nil when the user is on the free tier.
func (s *SubscriptionService) Current(ctx context.Context, userID string) (*domain.Subscription, error) {
	return repo.CurrentSubscription(ctx, s.DB, userID)
}

// CurrentPlan resolves the plan governing userID. Users without an active
// subscription get the free plan; when the planes table has no free row the
// configured fallback limit applies.
func (s *SubscriptionService) CurrentPlan(ctx context.Context, userID string) (*domain.Plan, error) {
	sub, err := repo.CurrentSubscription(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.State == domain.SubscriptionActive && sub.Plan != nil {
		return sub.Plan, nil
	}

	free, err := repo.GetPlanByCode(ctx, s.DB, "free")
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &domain.Plan{
				Code:        "free",
				Name:        "Gratuito",
				MaxHabits:   s.FreeTierHabitLimit,
				AllowGroups: false,
			}, nil
		}
		return nil, err
	}
	return free, nil
}

// CheckHabitLimit verifies that userID may create one more habit under their
// plan. grouped reports whether the new habit belongs to a group, which the
// free tier does not allow.
func (s *SubscriptionService) CheckHabitLimit(ctx context.Context, userID string, grouped bool) error {
	plan, err := s.CurrentPlan(ctx, userID)
	if err != nil {
		return err
	}
	if grouped && !plan.AllowGroups {
		return ErrPlanRequired
	}
	if plan.MaxHabits > 0 {
		n, err := repo.CountActiveHabitsOwned(ctx, s.DB, userID)
		if err != nil {
			return err
		}
		if n >= int64(plan.MaxHabits) {
			return ErrHabitLimit
		}
	}
	return nil
}

// CheckGroupAccess verifies that userID's plan includes group features.
func (s *SubscriptionService) CheckGroupAccess(ctx context.Context, userID string) error {
	plan, err := s.CurrentPlan(ctx, userID)
	if err != nil {
		return err
	}
	if !plan.AllowGroups {
		return ErrPlanRequired
	}
	return nil
}

// Subscribe switches userID to the plan identified by code, replacing the
// current subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, code, cycle string) (*domain.Subscription, error) {
	plan, err := repo.GetPlanByCode(ctx, s.DB, code)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	switch cycle {
	case domain.CycleFree, domain.CycleMonthly, domain.CycleYearly:
	case "":
		cycle = domain.CycleMonthly
	default:
		return nil, errors.New("invalid billing cycle")
	}
	sub, err := repo.CreateSubscription(ctx, s.DB, userID, plan.ID, cycle, nil, nil)
	if err != nil {
		return nil, err
	}
	sub.Plan = plan
	return sub, nil
}

// ListPlans returns all active plans ordered by price.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return repo.ListPlans(ctx, s.DB)
}
