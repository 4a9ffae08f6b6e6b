package auth

import (
	"context"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds authenticated user information. The role has
// already been resolved by the authentication middleware; workflow
// guards only ever consult this value.
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRole
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsAdmin checks if the user is admin staff
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// IsTechnician checks if the user is a technician
func (u *UserContext) IsTechnician() bool {
	return u.Role == domain.RoleTechnician
}

// IsStaff checks if the user is admin staff or a technician
func (u *UserContext) IsStaff() bool {
	return u.IsAdmin() || u.IsTechnician()
}
