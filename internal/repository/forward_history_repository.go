package repository

import (
	"context"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForwardHistoryRepository handles the append-only forwarding trail.
// Entries are never updated or removed while their complaint exists.
type ForwardHistoryRepository struct {
	db *gorm.DB
}

func NewForwardHistoryRepository(db *gorm.DB) *ForwardHistoryRepository {
	return &ForwardHistoryRepository{db: db}
}

// Create records a forwarding event
func (r *ForwardHistoryRepository) Create(ctx context.Context, entry *domain.ForwardHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByComplaintID returns the full forwarding trail for a complaint,
// most recent first
func (r *ForwardHistoryRepository) GetByComplaintID(ctx context.Context, complaintID uuid.UUID) ([]domain.ForwardHistory, error) {
	var history []domain.ForwardHistory
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Find(&history).Error
	return history, err
}

// GetLatestByComplaintID returns the most recent forwarding event
func (r *ForwardHistoryRepository) GetLatestByComplaintID(ctx context.Context, complaintID uuid.UUID) (*domain.ForwardHistory, error) {
	var entry domain.ForwardHistory
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByTechnicianID returns forwarding events that handed work to a technician
func (r *ForwardHistoryRepository) GetByTechnicianID(ctx context.Context, technicianID uuid.UUID, limit int) ([]domain.ForwardHistory, error) {
	var history []domain.ForwardHistory
	err := r.db.WithContext(ctx).
		Where("forward_to = ?", technicianID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

// DeleteByComplaintID removes the trail when a complaint is deleted
func (r *ForwardHistoryRepository) DeleteByComplaintID(ctx context.Context, complaintID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Delete(&domain.ForwardHistory{}).Error
}
