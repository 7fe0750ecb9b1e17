// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for groups,
// memberships, and invitations.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-habit-backend/internal/domain"
)

// CreateGroup inserts a group and materializes the owner as a member with the
// owner role, atomically.
func CreateGroup(ctx context.Context, db *gorm.DB, ownerID, name, description string) (*domain.Group, error) {
	g := &domain.Group{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		m := &domain.GroupMember{
			GroupID:  g.ID,
			UserID:   ownerID,
			Role:     domain.RoleOwner,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroup fetches a group by id. Missing groups yield ErrNotFound.
func GetGroup(ctx context.Context, db *gorm.DB, id string) (*domain.Group, error) {
	var g domain.Group
	if err := db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroupsForUser returns the groups userID belongs to, newest first.
func ListGroupsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Group, error) {
	var out []domain.Group
	err := db.WithContext(ctx).
		Where("id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&domain.GroupMember{}).
				Select("id_grupo").
				Where("id_clerk = ?", userID),
		).
		Order("fecha_creacion desc").
		Find(&out).Error
	return out, err
}

// GetGroupMember returns the membership row for (group, user), or nil (with
// no error) when the user is not a member. The nil-result contract keeps the
// access gate's predicates branch-free on not-found errors.
func GetGroupMember(ctx context.Context, db *gorm.DB, groupID, userID string) (*domain.GroupMember, error) {
	var m domain.GroupMember
	err := db.WithContext(ctx).
		Where("id_grupo = ? AND id_clerk = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListGroupMembers returns all members of a group ordered by join time.
func ListGroupMembers(ctx context.Context, db *gorm.DB, groupID string) ([]domain.GroupMember, error) {
	var out []domain.GroupMember
	err := db.WithContext(ctx).
		Where("id_grupo = ?", groupID).
		Order("fecha_union asc").
		Find(&out).Error
	return out, err
}

// AddGroupMember inserts a membership row; the composite primary key rejects
// double joins.
func AddGroupMember(ctx context.Context, db *gorm.DB, groupID, userID, role string) error {
	m := &domain.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(m).Error
}

// RemoveGroupMember deletes a membership row. Removing a non-member yields
// ErrNotFound.
func RemoveGroupMember(ctx context.Context, db *gorm.DB, groupID, userID string) error {
	res := db.WithContext(ctx).
		Where("id_grupo = ? AND id_clerk = ?", groupID, userID).
		Delete(&domain.GroupMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateInvite inserts a pending invitation with a fresh random token.
func CreateInvite(ctx context.Context, db *gorm.DB, groupID, inviterID, email string, ttl time.Duration) (*domain.GroupInvite, error) {
	inv := &domain.GroupInvite{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		InviterID: inviterID,
		Email:     email,
		Token:     uuid.NewString(),
		State:     domain.InvitePending,
		ExpiresAt: time.Now().UTC().Add(ttl),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInviteByToken fetches an invitation by its opaque token. Missing tokens
// yield ErrNotFound.
func GetInviteByToken(ctx context.Context, db *gorm.DB, token string) (*domain.GroupInvite, error) {
	var inv domain.GroupInvite
	if err := db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInviteState transitions an invitation to the given state.
func UpdateInviteState(ctx context.Context, db *gorm.DB, inviteID, state string) error {
	res := db.WithContext(ctx).
		Model(&domain.GroupInvite{}).
		Where("id = ?", inviteID).
		Update("estado", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
