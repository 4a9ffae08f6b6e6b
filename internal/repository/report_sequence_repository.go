package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fixline/complaint-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportSequenceRepository handles database operations for report number
// sequences. One sequence row exists per year; complaint report numbers
// draw from it so they stay unique and gap-tolerant within the year.
type ReportSequenceRepository struct {
	db *gorm.DB
}

// NewReportSequenceRepository creates a new ReportSequenceRepository
func NewReportSequenceRepository(db *gorm.DB) *ReportSequenceRepository {
	return &ReportSequenceRepository{db: db}
}

// GetNextNumber atomically retrieves and increments the sequence for a year.
// Uses SELECT FOR UPDATE so two concurrent complaint registrations cannot
// draw the same number. If no sequence exists for the year, one is created
// starting at 1.
func (r *ReportSequenceRepository) GetNextNumber(ctx context.Context, year int) (int, error) {
	var seq domain.ReportSequence
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq)

		if result.Error == gorm.ErrRecordNotFound {
			seq = domain.ReportSequence{
				Year:         year,
				LastSequence: 1,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create report sequence: %w", err)
			}
			nextSeq = 1
		} else if result.Error != nil {
			return fmt.Errorf("failed to get report sequence: %w", result.Error)
		} else {
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": nextSeq,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update report sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// GetCurrentSequence retrieves the current sequence value without
// incrementing. Returns 0 if no sequence exists for the year.
func (r *ReportSequenceRepository) GetCurrentSequence(ctx context.Context, year int) (int, error) {
	var seq domain.ReportSequence
	result := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get report sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}
