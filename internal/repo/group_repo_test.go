package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

func TestCreateGroup_MaterializesOwnerMembership(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g, err := CreateGroup(ctx, db, "owner", "Familia", "habitos compartidos")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if g.ID == "" || g.OwnerID != "owner" || g.Name != "Familia" {
		t.Fatalf("unexpected Group fields: %+v", g)
	}

	m, err := GetGroupMember(ctx, db, g.ID, "owner")
	if err != nil {
		t.Fatalf("GetGroupMember: %v", err)
	}
	if m == nil || m.Role != domain.RoleOwner {
		t.Fatalf("owner membership not materialized: %+v", m)
	}
}

func TestGetGroupMember_NilWhenNotMember(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g, _ := CreateGroup(ctx, db, "owner", "Familia", "")
	m, err := GetGroupMember(ctx, db, g.ID, "stranger")
	if err != nil {
		t.Fatalf("GetGroupMember: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil membership, got %+v", m)
	}
}

func TestAddGroupMember_RejectsDoubleJoin(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g, _ := CreateGroup(ctx, db, "owner", "Familia", "")
	if err := AddGroupMember(ctx, db, g.ID, "u1", domain.RoleMember); err != nil {
		t.Fatalf("AddGroupMember: %v", err)
	}
	err := AddGroupMember(ctx, db, g.ID, "u1", domain.RoleMember)
	if err == nil || !isDuplicateKey(err) {
		t.Fatalf("expected duplicate key on double join, got %v", err)
	}
}

func TestListGroupsForUser_OnlyMemberships(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g1, _ := CreateGroup(ctx, db, "owner", "A", "")
	if _, err := CreateGroup(ctx, db, "other", "B", ""); err != nil {
		t.Fatalf("CreateGroup B: %v", err)
	}
	if err := AddGroupMember(ctx, db, g1.ID, "u1", domain.RoleMember); err != nil {
		t.Fatalf("AddGroupMember: %v", err)
	}

	groups, err := ListGroupsForUser(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListGroupsForUser: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g1.ID {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestRemoveGroupMember_Missing(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g, _ := CreateGroup(ctx, db, "owner", "A", "")
	if err := RemoveGroupMember(ctx, db, g.ID, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := RemoveGroupMember(ctx, db, g.ID, "owner"); err != nil {
		t.Fatalf("RemoveGroupMember owner: %v", err)
	}
}

func TestInvites_TokenLifecycle(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	g, _ := CreateGroup(ctx, db, "owner", "A", "")
	inv, err := CreateInvite(ctx, db, g.ID, "owner", "amiga@example.com", 72*time.Hour)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	if inv.Token == "" || inv.State != domain.InvitePending {
		t.Fatalf("unexpected invite: %+v", inv)
	}
	if !inv.ExpiresAt.After(time.Now().UTC().Add(71 * time.Hour)) {
		t.Fatalf("TTL not applied: %v", inv.ExpiresAt)
	}

	got, err := GetInviteByToken(ctx, db, inv.Token)
	if err != nil || got.ID != inv.ID {
		t.Fatalf("GetInviteByToken: %+v err=%v", got, err)
	}

	if err := UpdateInviteState(ctx, db, inv.ID, domain.InviteAccepted); err != nil {
		t.Fatalf("UpdateInviteState: %v", err)
	}
	got, _ = GetInviteByToken(ctx, db, inv.Token)
	if got.State != domain.InviteAccepted {
		t.Fatalf("state not updated: %+v", got)
	}

	if err := UpdateInviteState(ctx, db, "missing", domain.InviteRevoked); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing invite, got %v", err)
	}
}
