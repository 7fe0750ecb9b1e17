package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

func mkEntry(habitID, userID string, d time.Time, state string) *domain.HabitEntry {
	return &domain.HabitEntry{
		HabitID:    habitID,
		UserID:     userID,
		Date:       d,
		RecordedAt: time.Now().UTC(),
		State:      state,
	}
}

func TestCreateEntry_UniquePerDate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	d := date(2026, time.March, 10)
	if err := CreateEntry(ctx, db, mkEntry("h1", "u1", d, domain.EntrySuccess)); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	err := CreateEntry(ctx, db, mkEntry("h1", "u1", d, domain.EntryFailure))
	if err == nil {
		t.Fatal("expected unique constraint violation for second entry on same date")
	}
	if !isDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	// Same date for another user is fine.
	if err := CreateEntry(ctx, db, mkEntry("h1", "u2", d, domain.EntrySuccess)); err != nil {
		t.Fatalf("CreateEntry other user: %v", err)
	}
}

func TestGetEntryByDate_NilWhenAbsent(t *testing.T) {
	db := newRepoDB(t)

	e, err := GetEntryByDate(context.Background(), db, "h1", "u1", date(2026, time.March, 10))
	if err != nil {
		t.Fatalf("GetEntryByDate: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil for missing entry, got %+v", e)
	}
}

func TestUpdateEntryInPlace_RewritesStateAndComment(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	d := date(2026, time.March, 10)
	e := mkEntry("h1", "u1", d, domain.EntryFailure)
	if err := CreateEntry(ctx, db, e); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	at := time.Date(2026, time.March, 10, 21, 30, 0, 0, time.UTC)
	if err := UpdateEntryInPlace(ctx, db, e, domain.EntrySuccess, "al final si", at); err != nil {
		t.Fatalf("UpdateEntryInPlace: %v", err)
	}

	got, err := GetEntryByDate(ctx, db, "h1", "u1", d)
	if err != nil || got == nil {
		t.Fatalf("GetEntryByDate: %+v err=%v", got, err)
	}
	if got.State != domain.EntrySuccess || got.Comment != "al final si" {
		t.Fatalf("update not persisted: %+v", got)
	}
	if !got.RecordedAt.Equal(at) {
		t.Fatalf("RecordedAt not rewritten: %v", got.RecordedAt)
	}
}

func TestDeleteEntry_ScopedAndMissing(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	e := mkEntry("h1", "u1", date(2026, time.March, 10), domain.EntrySuccess)
	if err := CreateEntry(ctx, db, e); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	// Wrong user must not be able to delete.
	if err := DeleteEntry(ctx, db, e.ID, "h1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := DeleteEntry(ctx, db, e.ID, "h1", "u1"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := DeleteEntry(ctx, db, e.ID, "h1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListEntries_RangeAndOrder(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		if err := CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, day), domain.EntrySuccess)); err != nil {
			t.Fatalf("CreateEntry day %d: %v", day, err)
		}
	}

	out, err := ListEntries(ctx, db, "h1", "u1", EntryRange{
		From: date(2026, time.March, 2),
		To:   date(2026, time.March, 4),
	}, 0, 50)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 entries in range, got %d", len(out))
	}
	if !out[0].Date.Equal(date(2026, time.March, 4)) || !out[2].Date.Equal(date(2026, time.March, 2)) {
		t.Fatalf("entries not ordered newest first: %v .. %v", out[0].Date, out[2].Date)
	}
}

func TestSuccessDatesDesc_FiltersFailures(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, 1), domain.EntrySuccess))
	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, 2), domain.EntryFailure))
	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, 3), domain.EntrySuccess))
	_ = CreateEntry(ctx, db, mkEntry("h1", "u2", date(2026, time.March, 4), domain.EntrySuccess))

	dates, err := SuccessDatesDesc(ctx, db, "h1", "u1")
	if err != nil {
		t.Fatalf("SuccessDatesDesc: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 success dates, got %d", len(dates))
	}
	if !dates[0].Equal(date(2026, time.March, 3)) || !dates[1].Equal(date(2026, time.March, 1)) {
		t.Fatalf("dates not newest first: %v", dates)
	}
}

func TestFirstAndLastEntry(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	first, err := FirstEntry(ctx, db, "h1", "u1")
	if err != nil || first != nil {
		t.Fatalf("expected nil for empty history: %+v err=%v", first, err)
	}

	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, 2), domain.EntrySuccess))
	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", date(2026, time.March, 5), domain.EntryFailure))

	first, err = FirstEntry(ctx, db, "h1", "u1")
	if err != nil || first == nil || !first.Date.Equal(date(2026, time.March, 2)) {
		t.Fatalf("FirstEntry: %+v err=%v", first, err)
	}
	last, err := LastEntry(ctx, db, "h1", "u1")
	if err != nil || last == nil || !last.Date.Equal(date(2026, time.March, 5)) {
		t.Fatalf("LastEntry: %+v err=%v", last, err)
	}
}

func TestCountUserEntriesOnDate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	d := date(2026, time.March, 10)
	_ = CreateEntry(ctx, db, mkEntry("h1", "u1", d, domain.EntrySuccess))
	_ = CreateEntry(ctx, db, mkEntry("h2", "u1", d, domain.EntrySuccess))
	_ = CreateEntry(ctx, db, mkEntry("h3", "u1", d, domain.EntryFailure))

	n, err := CountUserEntriesOnDate(ctx, db, "u1", d, domain.EntrySuccess)
	if err != nil {
		t.Fatalf("CountUserEntriesOnDate: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 successes on date, got %d", n)
	}
}
