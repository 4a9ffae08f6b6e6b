package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fixline/complaint-api/internal/repository"
	"go.uber.org/zap"
)

// ReportNumberService generates human-facing complaint report numbers.
// Format: CMP-{YEAR}-{SEQ} with a zero-padded per-year sequence, e.g.
// CMP-2026-042. Numbers are unique and never reused.
type ReportNumberService struct {
	seqRepo *repository.ReportSequenceRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportNumberService creates a new ReportNumberService instance
func NewReportNumberService(seqRepo *repository.ReportSequenceRepository, logger *zap.Logger) *ReportNumberService {
	return &ReportNumberService{
		seqRepo: seqRepo,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate draws the next report number for the current year
func (s *ReportNumberService) Generate(ctx context.Context) (string, error) {
	year := s.now().Year()

	seq, err := s.seqRepo.GetNextNumber(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to get next report sequence: %w", err)
	}

	number := fmt.Sprintf("CMP-%d-%03d", year, seq)

	s.logger.Debug("report number generated",
		zap.String("reportNumber", number),
		zap.Int("year", year),
		zap.Int("sequence", seq),
	)

	return number, nil
}
