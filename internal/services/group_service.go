// Package services – GroupService
//
// Groups let users share habits: a group-owned habit is visible to every
// member, and each member keeps their own entries and streak ledger for it.
// This file implements group lifecycle, membership, and token-addressed
// invitations. Group features are gated by the subscription plan.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
	"github.com/tbourn/go-habit-backend/internal/repo"
)

// inviteTTL bounds how long a pending invitation stays redeemable.
const inviteTTL = 72 * time.Hour

// GroupService implements the use-cases around groups, memberships, and
// invitations.
type GroupService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Subs gates group features by subscription plan.
	Subs *SubscriptionService
}

// NewGroupService constructs a GroupService.
func NewGroupService(db *gorm.DB, subs *SubscriptionService) *GroupService {
	return &GroupService{DB: db, Subs: subs}
}

// GroupDetails bundles a group with its member list.
type GroupDetails struct {
	Group   *domain.Group        `json:"grupo"`
	Members []domain.GroupMember `json:"miembros"`
}

// Create inserts a new group owned by userID, materializing the owner
// membership. Requires a plan with group features.
func (s *GroupService) Create(ctx context.Context, userID, name, description string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTitle
	}
	if err := s.Subs.CheckGroupAccess(ctx, userID); err != nil {
		return nil, err
	}
	return repo.CreateGroup(ctx, s.DB, userID, name, strings.TrimSpace(description))
}

// ListMine returns the groups userID belongs to.
func (s *GroupService) ListMine(ctx context.Context, userID string) ([]domain.Group, error) {
	return repo.ListGroupsForUser(ctx, s.DB, userID)
}

// Get returns a group with its members. Only members may see it.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*GroupDetails, error) {
	g, err := repo.GetGroup(ctx, s.DB, groupID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	m, err := repo.GetGroupMember(ctx, s.DB, groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrForbidden
	}
	members, err := repo.ListGroupMembers(ctx, s.DB, groupID)
	if err != nil {
		return nil, err
	}
	return &GroupDetails{Group: g, Members: members}, nil
}

// Invite creates a pending invitation to groupID for email. Only the group
// owner or an admin may invite.
func (s *GroupService) Invite(ctx context.Context, userID, groupID, email string) (*domain.GroupInvite, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is empty")
	}
	if _, err := repo.GetGroup(ctx, s.DB, groupID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	m, err := repo.GetGroupMember(ctx, s.DB, groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil || (m.Role != domain.RoleOwner && m.Role != domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return repo.CreateInvite(ctx, s.DB, groupID, userID, email, inviteTTL)
}

// AcceptInvite redeems an invitation token for userID, adding them to the
// group as a regular member and marking the invitation accepted. An expired
// or non-pending invitation cannot be redeemed; a lapsed one is transitioned
// to the expired state on the way out.
func (s *GroupService) AcceptInvite(ctx context.Context, userID, token string) (*domain.Group, error) {
	inv, err := repo.GetInviteByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if inv.State != domain.InvitePending {
		return nil, ErrInviteExpired
	}
	if time.Now().UTC().After(inv.ExpiresAt) {
		_ = repo.UpdateInviteState(ctx, s.DB, inv.ID, domain.InviteExpired)
		return nil, ErrInviteExpired
	}

	existing, err := repo.GetGroupMember(ctx, s.DB, inv.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.AddGroupMember(ctx, tx, inv.GroupID, userID, domain.RoleMember); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrAlreadyMember
			}
			return err
		}
		return repo.UpdateInviteState(ctx, tx, inv.ID, domain.InviteAccepted)
	})
	if err != nil {
		return nil, err
	}
	return repo.GetGroup(ctx, s.DB, inv.GroupID)
}

// RemoveMember removes targetID from groupID on behalf of actorID. Members
// may remove themselves (leave), except the owner, whose departure would
// orphan the group. Removing someone else requires the owner or admin role,
// and the owner can never be removed by another member.
func (s *GroupService) RemoveMember(ctx context.Context, actorID, groupID, targetID string) error {
	actor, err := repo.GetGroupMember(ctx, s.DB, groupID, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrNotGroupMember
	}

	target, err := repo.GetGroupMember(ctx, s.DB, groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotGroupMember
	}
	if target.Role == domain.RoleOwner {
		if actorID == targetID {
			return ErrOwnerCannotLeave
		}
		return ErrForbidden
	}
	if actorID != targetID && actor.Role != domain.RoleOwner && actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	err = repo.RemoveGroupMember(ctx, s.DB, groupID, targetID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotGroupMember
	}
	return err
}
