// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// Codes are lowercase snake_case and give clients a stable, machine-readable
// taxonomy alongside the HTTP status. Generic codes mirror common status
// semantics; domain-specific codes cover business rules that a status alone
// cannot convey (plan limits, day-boundary rules, invite lifecycle).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeHabitLimit       = "habit_limit_reached"
	ErrCodePlanRequired     = "plan_required"
	ErrCodeFutureDate       = "future_date"
	ErrCodeInviteExpired    = "invite_expired"
	ErrCodeAlreadyMember    = "already_member"
	ErrCodeOwnerCannotLeave = "owner_cannot_leave"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
