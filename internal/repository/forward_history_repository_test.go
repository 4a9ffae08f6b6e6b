package repository_test

import (
	"context"
	"testing"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/fixline/complaint-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardHistoryRepository_Ordering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewForwardHistoryRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	tech1 := testutil.CreateTestUser(t, db, domain.RoleTechnician)
	tech2 := testutil.CreateTestUser(t, db, domain.RoleTechnician)
	tech3 := testutil.CreateTestUser(t, db, domain.RoleTechnician)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	// Back-to-back inserts, well within one second of each other
	first := &domain.ForwardHistory{
		ComplaintID: complaint.ID,
		ForwardFrom: admin.ID,
		ForwardTo:   tech1.ID,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.ForwardHistory{
		ComplaintID: complaint.ID,
		ForwardFrom: tech1.ID,
		ForwardTo:   tech2.ID,
	}
	require.NoError(t, repo.Create(ctx, second))

	third := &domain.ForwardHistory{
		ComplaintID: complaint.ID,
		ForwardFrom: tech2.ID,
		ForwardTo:   tech3.ID,
	}
	require.NoError(t, repo.Create(ctx, third))

	t.Run("timestamps are distinct for same-second inserts", func(t *testing.T) {
		assert.True(t, first.CreatedAt.Before(second.CreatedAt))
		assert.True(t, second.CreatedAt.Before(third.CreatedAt))
	})

	t.Run("trail is returned most recent first", func(t *testing.T) {
		history, err := repo.GetByComplaintID(ctx, complaint.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, tech3.ID, history[0].ForwardTo)
		assert.Equal(t, tech2.ID, history[1].ForwardTo)
		assert.Equal(t, tech1.ID, history[2].ForwardTo)
	})

	t.Run("latest entry is the newest insert", func(t *testing.T) {
		latest, err := repo.GetLatestByComplaintID(ctx, complaint.ID)
		require.NoError(t, err)
		assert.Equal(t, third.ID, latest.ID)
		assert.Equal(t, tech2.ID, latest.ForwardFrom)
	})

	t.Run("technician view is scoped and newest first", func(t *testing.T) {
		handedToTech2, err := repo.GetByTechnicianID(ctx, tech2.ID, 10)
		require.NoError(t, err)
		require.Len(t, handedToTech2, 1)
		assert.Equal(t, tech1.ID, handedToTech2[0].ForwardFrom)
	})
}
