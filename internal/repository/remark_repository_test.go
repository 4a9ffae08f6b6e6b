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

func TestRemarkRepository_SharedCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRemarkRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	tech := testutil.CreateTestUser(t, db, domain.RoleTechnician)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	t.Run("accepts remarks of both kinds up to the cap", func(t *testing.T) {
		err := repo.AppendAdminRemark(ctx, &domain.AdminRemark{
			ComplaintID: complaint.ID,
			AuthorID:    admin.ID,
			Remark:      "Received at service desk",
		})
		require.NoError(t, err)

		err = repo.AppendTechnicianRemark(ctx, &domain.TechnicianRemark{
			ComplaintID: complaint.ID,
			AuthorID:    tech.ID,
			Checking:    "Motor winding burnt",
		})
		require.NoError(t, err)

		err = repo.AppendAdminRemark(ctx, &domain.AdminRemark{
			ComplaintID:   complaint.ID,
			AuthorID:      admin.ID,
			NoteTransport: "Picked up by courier",
		})
		require.NoError(t, err)

		count, err := repo.CountForComplaint(ctx, complaint.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxRemarksPerComplaint, count)
	})

	t.Run("rejects the fourth remark regardless of kind", func(t *testing.T) {
		err := repo.AppendAdminRemark(ctx, &domain.AdminRemark{
			ComplaintID: complaint.ID,
			AuthorID:    admin.ID,
			Remark:      "One too many",
		})
		assert.ErrorIs(t, err, repository.ErrRemarkLimitFull)

		err = repo.AppendTechnicianRemark(ctx, &domain.TechnicianRemark{
			ComplaintID: complaint.ID,
			AuthorID:    tech.ID,
			Remark:      "Also one too many",
		})
		assert.ErrorIs(t, err, repository.ErrRemarkLimitFull)

		// Rejected rows must not be persisted
		count, err := repo.CountForComplaint(ctx, complaint.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxRemarksPerComplaint, count)
	})

	t.Run("deleting a technician remark frees a slot", func(t *testing.T) {
		remarks, err := repo.ListTechnicianRemarks(ctx, complaint.ID)
		require.NoError(t, err)
		require.Len(t, remarks, 1)

		require.NoError(t, repo.DeleteTechnicianRemark(ctx, remarks[0].ID))

		err = repo.AppendTechnicianRemark(ctx, &domain.TechnicianRemark{
			ComplaintID: complaint.ID,
			AuthorID:    tech.ID,
			Remark:      "Replacement note",
		})
		assert.NoError(t, err)
	})

	t.Run("cap is per complaint", func(t *testing.T) {
		other := testutil.CreateTestComplaint(t, db, owner)
		err := repo.AppendAdminRemark(ctx, &domain.AdminRemark{
			ComplaintID: other.ID,
			AuthorID:    admin.ID,
			Remark:      "Fresh ledger",
		})
		assert.NoError(t, err)
	})
}

func TestRemarkRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRemarkRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	require.NoError(t, repo.AppendAdminRemark(ctx, &domain.AdminRemark{
		ComplaintID: complaint.ID,
		AuthorID:    admin.ID,
		Remark:      "first",
	}))
	require.NoError(t, repo.AppendAdminRemark(ctx, &domain.AdminRemark{
		ComplaintID: complaint.ID,
		AuthorID:    admin.ID,
		Remark:      "second",
	}))

	remarks, err := repo.ListAdminRemarks(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, remarks, 2)
	assert.Equal(t, "first", remarks[0].Remark)
	assert.Equal(t, "second", remarks[1].Remark)
}
