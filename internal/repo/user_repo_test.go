package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

func TestSaveUser_UpsertByID(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := &domain.User{
		ID:       "u1",
		Email:    "ana@example.com",
		FullName: "Ana",
		Timezone: "America/Lima",
	}
	if err := SaveUser(ctx, db, u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	u.Timezone = "Europe/Madrid"
	u.ClosureHour = 4
	if err := SaveUser(ctx, db, u); err != nil {
		t.Fatalf("SaveUser (update): %v", err)
	}

	got, err := GetUser(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Timezone != "Europe/Madrid" || got.ClosureHour != 4 {
		t.Fatalf("upsert did not stick: %+v", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newRepoDB(t)

	_, err := GetUser(context.Background(), db, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurrentSubscription_NilWithoutOne(t *testing.T) {
	db := newRepoDB(t)

	sub, err := CurrentSubscription(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("CurrentSubscription: %v", err)
	}
	if sub != nil {
		t.Fatalf("expected nil subscription, got %+v", sub)
	}
}

func TestCreateSubscription_ReplacesCurrent(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if err := SeedPlans(db); err != nil {
		t.Fatalf("SeedPlans: %v", err)
	}
	pro, err := GetPlanByCode(ctx, db, "pro")
	if err != nil {
		t.Fatalf("GetPlanByCode pro: %v", err)
	}
	unlimited, err := GetPlanByCode(ctx, db, "unlimited")
	if err != nil {
		t.Fatalf("GetPlanByCode unlimited: %v", err)
	}

	first, err := CreateSubscription(ctx, db, "u1", pro.ID, domain.CycleMonthly, nil, nil)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	second, err := CreateSubscription(ctx, db, "u1", unlimited.ID, domain.CycleYearly, nil, nil)
	if err != nil {
		t.Fatalf("CreateSubscription (upgrade): %v", err)
	}

	cur, err := CurrentSubscription(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CurrentSubscription: %v", err)
	}
	if cur == nil || cur.ID != second.ID {
		t.Fatalf("current subscription not replaced: %+v", cur)
	}
	if cur.Plan == nil || cur.Plan.Code != "unlimited" {
		t.Fatalf("plan not preloaded: %+v", cur.Plan)
	}

	var old domain.Subscription
	if err := db.Where("id = ?", first.ID).First(&old).Error; err != nil {
		t.Fatalf("load old subscription: %v", err)
	}
	if old.IsCurrent {
		t.Fatal("previous subscription still marked current")
	}
}
