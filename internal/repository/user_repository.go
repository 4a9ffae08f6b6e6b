package repository

import (
	"context"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetTechnician retrieves a user only if they are an active technician
func (r *UserRepository) GetTechnician(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND is_active = ?", id, domain.RoleTechnician, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActiveAdmins returns all active admin accounts, used for fan-out
func (r *UserRepository) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	var admins []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Order("created_at ASC").
		Find(&admins).Error
	return admins, err
}

// ListActiveTechnicians returns all active technician accounts
func (r *UserRepository) ListActiveTechnicians(ctx context.Context) ([]domain.User, error) {
	var technicians []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", domain.RoleTechnician, true).
		Order("created_at ASC").
		Find(&technicians).Error
	return technicians, err
}

// PickNotificationAdmin returns a single active admin for notifications
// that target the admin desk rather than every admin. Selection is the
// longest-standing active account so the choice is stable across calls.
func (r *UserRepository) PickNotificationAdmin(ctx context.Context) (*domain.User, error) {
	var admin domain.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Order("created_at ASC").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
