package repository

import (
	"context"
	"time"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	var complaint domain.Complaint
	err := r.db.WithContext(ctx).First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) GetByReportNumber(ctx context.Context, reportNumber string) (*domain.Complaint, error) {
	var complaint domain.Complaint
	err := r.db.WithContext(ctx).First(&complaint, "report_number = ?", reportNumber).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ComplaintFilter narrows List results. Zero values mean "no filter".
type ComplaintFilter struct {
	UserID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     domain.ComplaintStatus
	CategoryID *uuid.UUID
}

func (r *ComplaintRepository) List(ctx context.Context, filter ComplaintFilter, page, pageSize int) ([]domain.Complaint, int64, error) {
	var complaints []domain.Complaint
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Complaint{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&complaints).Error

	return complaints, total, err
}

func (r *ComplaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

// UpdateStatus changes only the status column
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ComplaintStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Assign sets the technician and status in one update
func (r *ComplaintRepository) Assign(ctx context.Context, id uuid.UUID, technicianID uuid.UUID, status domain.ComplaintStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": technicianID,
			"status":      status,
		}).Error
}

// ListPendingOlderThan returns pending complaints created before the
// cutoff, used by the reminder job
func (r *ComplaintRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.StatusPending, cutoff).
		Order("created_at ASC").
		Find(&complaints).Error
	return complaints, err
}
