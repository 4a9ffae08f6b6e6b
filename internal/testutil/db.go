package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/fixline/complaint-api/internal/database"
	"github.com/fixline/complaint-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var emailCounter int64

// SetupTestDB creates an isolated in-memory database with the full schema.
// Each call returns a fresh database, so tests never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	// In-memory sqlite loses the schema when the last connection closes
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")

	return db
}

// CreateTestUser creates an active account with the given role.
// Emails are generated to keep the unique constraint satisfied.
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.UserRole) *domain.User {
	t.Helper()

	n := atomic.AddInt64(&emailCounter, 1)
	user := &domain.User{
		Email:       fmt.Sprintf("%s%d@example.com", role, n),
		DisplayName: fmt.Sprintf("Test %s %d", role, n),
		Phone:       "12345678",
		Role:        role,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateInactiveUser creates a deactivated account with the given role.
func CreateInactiveUser(t *testing.T, db *gorm.DB, role domain.UserRole) *domain.User {
	t.Helper()

	user := CreateTestUser(t, db, role)
	user.IsActive = false
	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	return user
}

// CreateTestComplaint creates a pending complaint owned by the given user.
func CreateTestComplaint(t *testing.T, db *gorm.DB, owner *domain.User) *domain.Complaint {
	t.Helper()

	n := atomic.AddInt64(&emailCounter, 1)
	complaint := &domain.Complaint{
		ReportNumber:  fmt.Sprintf("CMP-2026-%03d", n),
		UserID:        owner.ID,
		CategoryID:    1,
		Subcategory:   "Washing Machine",
		ComplaintType: domain.ComplaintOverWarranty,
		BrandName:     "Coolstar",
		ModelNo:       "WM-200",
		State:         "Karnataka",
		Details:       "Drum does not spin",
		Status:        domain.StatusPending,
	}
	require.NoError(t, db.Create(complaint).Error)
	return complaint
}

// AssignComplaint forwards a complaint to a technician directly in the
// database, bypassing the workflow. Useful for arranging test state.
func AssignComplaint(t *testing.T, db *gorm.DB, complaint *domain.Complaint, technician *domain.User, status domain.ComplaintStatus) {
	t.Helper()

	err := db.Model(complaint).Updates(map[string]interface{}{
		"assigned_to": technician.ID,
		"status":      status,
	}).Error
	require.NoError(t, err)
	complaint.AssignedTo = &technician.ID
	complaint.Status = status
}

// CountNotifications returns how many notifications a recipient has.
func CountNotifications(t *testing.T, db *gorm.DB, recipientID interface{}) int64 {
	t.Helper()

	var count int64
	err := db.Model(&domain.Notification{}).Where("recipient_id = ?", recipientID).Count(&count).Error
	require.NoError(t, err)
	return count
}
