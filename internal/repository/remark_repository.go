package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRemarkLimitFull is returned when a complaint already carries the
// maximum number of remarks across both the admin and technician ledgers.
var ErrRemarkLimitFull = errors.New("remark limit reached for complaint")

// RemarkRepository handles database operations for the remark ledger.
// Admin and technician remarks live in separate tables but share one
// per-complaint cap, so every append counts BOTH tables inside a
// transaction that locks the complaint row.
type RemarkRepository struct {
	db *gorm.DB
}

func NewRemarkRepository(db *gorm.DB) *RemarkRepository {
	return &RemarkRepository{db: db}
}

// CountForComplaint returns the combined remark count for a complaint
func (r *RemarkRepository) CountForComplaint(ctx context.Context, complaintID uuid.UUID) (int, error) {
	return r.countForComplaint(r.db.WithContext(ctx), complaintID)
}

func (r *RemarkRepository) countForComplaint(tx *gorm.DB, complaintID uuid.UUID) (int, error) {
	var adminCount, techCount int64

	if err := tx.Model(&domain.AdminRemark{}).
		Where("complaint_id = ?", complaintID).
		Count(&adminCount).Error; err != nil {
		return 0, fmt.Errorf("failed to count admin remarks: %w", err)
	}
	if err := tx.Model(&domain.TechnicianRemark{}).
		Where("complaint_id = ?", complaintID).
		Count(&techCount).Error; err != nil {
		return 0, fmt.Errorf("failed to count technician remarks: %w", err)
	}

	return int(adminCount + techCount), nil
}

// AppendAdminRemark inserts an admin remark, enforcing the shared cap.
// Returns ErrRemarkLimitFull when the complaint already has
// domain.MaxRemarksPerComplaint remarks.
func (r *RemarkRepository) AppendAdminRemark(ctx context.Context, remark *domain.AdminRemark) error {
	return r.appendWithCap(ctx, remark.ComplaintID, func(tx *gorm.DB) error {
		return tx.Create(remark).Error
	})
}

// AppendTechnicianRemark inserts a technician remark, enforcing the shared cap
func (r *RemarkRepository) AppendTechnicianRemark(ctx context.Context, remark *domain.TechnicianRemark) error {
	return r.appendWithCap(ctx, remark.ComplaintID, func(tx *gorm.DB) error {
		return tx.Create(remark).Error
	})
}

// appendWithCap serializes concurrent appends against the same complaint
// by taking a row lock on the complaint before counting. Two writers
// racing for the last free slot cannot both pass the check.
func (r *RemarkRepository) appendWithCap(ctx context.Context, complaintID uuid.UUID, insert func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var complaint domain.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, "id = ?", complaintID).Error; err != nil {
			return fmt.Errorf("failed to lock complaint: %w", err)
		}

		count, err := r.countForComplaint(tx, complaintID)
		if err != nil {
			return err
		}
		if count >= domain.MaxRemarksPerComplaint {
			return ErrRemarkLimitFull
		}

		return insert(tx)
	})
}

func (r *RemarkRepository) GetAdminRemark(ctx context.Context, id uuid.UUID) (*domain.AdminRemark, error) {
	var remark domain.AdminRemark
	err := r.db.WithContext(ctx).First(&remark, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &remark, nil
}

func (r *RemarkRepository) GetTechnicianRemark(ctx context.Context, id uuid.UUID) (*domain.TechnicianRemark, error) {
	var remark domain.TechnicianRemark
	err := r.db.WithContext(ctx).First(&remark, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &remark, nil
}

// UpdateTechnicianRemark saves edits to a technician remark. Admin
// remarks are immutable once written, so no update path exists for them.
func (r *RemarkRepository) UpdateTechnicianRemark(ctx context.Context, remark *domain.TechnicianRemark) error {
	return r.db.WithContext(ctx).Save(remark).Error
}

// DeleteTechnicianRemark removes a technician remark, freeing one ledger slot
func (r *RemarkRepository) DeleteTechnicianRemark(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TechnicianRemark{}, "id = ?", id).Error
}

// ListAdminRemarks returns admin remarks for a complaint, oldest first
func (r *RemarkRepository) ListAdminRemarks(ctx context.Context, complaintID uuid.UUID) ([]domain.AdminRemark, error) {
	var remarks []domain.AdminRemark
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&remarks).Error
	return remarks, err
}

// ListTechnicianRemarks returns technician remarks for a complaint, oldest first
func (r *RemarkRepository) ListTechnicianRemarks(ctx context.Context, complaintID uuid.UUID) ([]domain.TechnicianRemark, error) {
	var remarks []domain.TechnicianRemark
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&remarks).Error
	return remarks, err
}
