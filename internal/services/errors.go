// Package services defines the business logic for habits, streaks, groups,
// users, subscriptions, and notifications. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Habit-related errors.
var (
	// ErrHabitNotFound indicates that the requested habit does not exist.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrForbidden is returned when the access/ownership gate rejects the
	// current user for a habit- or group-scoped operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyTitle is returned when a habit is created or renamed with a
	// blank title.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrInvalidHabitType is returned when a habit type is outside the
	// allowed set (hacer or dejar).
	ErrInvalidHabitType = errors.New("habit type must be 'hacer' or 'dejar'")

	// ErrHabitLimit is returned when creating a habit would exceed the
	// user's plan limit.
	ErrHabitLimit = errors.New("habit limit reached for current plan")
)

// Entry-related errors.
var (
	// ErrEntryNotFound indicates that the requested habit entry does not
	// exist or is not accessible to the current user.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidEntryState is returned when an entry state is outside the
	// allowed set (exito or fallo).
	ErrInvalidEntryState = errors.New("entry state must be 'exito' or 'fallo'")

	// ErrFutureDate is returned when an entry targets a local date after the
	// user's current local date.
	ErrFutureDate = errors.New("entry date is in the future")
)

// Group-related errors.
var (
	// ErrGroupNotFound indicates that the requested group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrNotGroupMember is returned when an operation requires membership in
	// the group and the user has none.
	ErrNotGroupMember = errors.New("not a member of this group")

	// ErrAlreadyMember is returned when a user accepts an invitation to a
	// group they already belong to.
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrInviteNotFound indicates that the invitation token does not resolve.
	ErrInviteNotFound = errors.New("invitation not found")

	// ErrInviteExpired is returned when an invitation is past its expiry or
	// no longer pending.
	ErrInviteExpired = errors.New("invitation expired")

	// ErrOwnerCannotLeave is returned when the group owner attempts to leave
	// their own group; ownership must be transferred or the group deleted.
	ErrOwnerCannotLeave = errors.New("group owner cannot leave the group")
)

// Plan / subscription errors.
var (
	// ErrPlanNotFound indicates that the requested plan code does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPlanRequired is returned when the user's plan does not include the
	// requested capability (e.g. group habits on the free tier).
	ErrPlanRequired = errors.New("current plan does not allow this")
)

// User / notification errors.
var (
	// ErrUserNotFound indicates that the user directory has no row for the id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidLocale is returned when a profile update carries a locale
	// that fails BCP 47 parsing.
	ErrInvalidLocale = errors.New("invalid locale")

	// ErrInvalidClosureHour is returned when a profile update carries a
	// day-closure hour outside [0,23].
	ErrInvalidClosureHour = errors.New("closure hour must be between 0 and 23")

	// ErrNotificationNotFound indicates that the requested notification does
	// not exist or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")
)
