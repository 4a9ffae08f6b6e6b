package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned on any role or ownership violation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserContextRequired is returned when user context is not available
	ErrUserContextRequired = errors.New("user context required")

	// ErrComplaintNotFound is returned when a complaint is not found
	ErrComplaintNotFound = errors.New("complaint not found")

	// ErrRemarkNotFound is returned when a remark is not found
	ErrRemarkNotFound = errors.New("remark not found")

	// ErrInvalidTransition is returned when a status change violates the
	// lifecycle state machine, including cancelling a non-pending complaint
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRemarkLimitReached is returned when a complaint already carries
	// the maximum number of remarks
	ErrRemarkLimitReached = errors.New("remark limit reached")

	// ErrInvalidAssignee is returned when a forward target does not
	// resolve to an active technician account
	ErrInvalidAssignee = errors.New("assignee is not an active technician")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrNotificationNotOwned is returned when trying to access a
	// notification owned by another user
	ErrNotificationNotOwned = errors.New("notification does not belong to current user")
)
