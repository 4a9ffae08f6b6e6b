package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fixline/complaint-api/internal/repository"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/fixline/complaint-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportNumberService_Generate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seqRepo := repository.NewReportSequenceRepository(db)
	svc := service.NewReportNumberService(seqRepo, zap.NewNop())
	ctx := context.Background()

	year := time.Now().Year()

	t.Run("first number of the year starts at one", func(t *testing.T) {
		number, err := svc.Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CMP-%d-001", year), number)
	})

	t.Run("numbers are sequential and never repeat", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 2; i <= 12; i++ {
			number, err := svc.Generate(ctx)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("CMP-%d-%03d", year, i), number)
			assert.False(t, seen[number])
			seen[number] = true
		}
	})

	t.Run("padding gives way past three digits", func(t *testing.T) {
		// Jump the stored sequence close to the padding boundary
		err := db.Exec("UPDATE report_sequences SET last_sequence = 999 WHERE year = ?", year).Error
		require.NoError(t, err)

		number, err := svc.Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CMP-%d-1000", year), number)
	})
}
