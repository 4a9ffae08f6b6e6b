package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields. Timestamps are written by gorm at full
// precision rather than by a database default; ordering by created_at
// must stay stable for rows inserted within the same second.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the database does not
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRole represents the role of an account in the workflow
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleTechnician:
		return true
	}
	return false
}

// ComplaintStatus represents where a complaint is in its lifecycle
type ComplaintStatus string

const (
	StatusPending   ComplaintStatus = "pending"
	StatusInProcess ComplaintStatus = "in_process"
	StatusClosed    ComplaintStatus = "closed"
	StatusCancelled ComplaintStatus = "cancelled"
)

// IsValid checks if the ComplaintStatus is a valid enum value
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProcess, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transitions are allowed.
// Closed and cancelled complaints never move back to an earlier state.
func (s ComplaintStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// ComplaintType distinguishes warranty coverage
type ComplaintType string

const (
	ComplaintUnderWarranty ComplaintType = "under_warranty"
	ComplaintOverWarranty  ComplaintType = "over_warranty"
)

// IsValid checks if the ComplaintType is a valid enum value
func (t ComplaintType) IsValid() bool {
	return t == ComplaintUnderWarranty || t == ComplaintOverWarranty
}

// Complaint represents one customer-reported repair issue
type Complaint struct {
	BaseModel
	ReportNumber    string          `gorm:"type:varchar(50);unique;not null;index;column:report_number"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id"`
	User            *User           `gorm:"foreignKey:UserID"`
	CategoryID      int             `gorm:"not null;column:category_id"`
	Subcategory     string          `gorm:"type:varchar(100)"`
	ComplaintType   ComplaintType   `gorm:"type:varchar(50);not null;column:complaint_type"`
	BrandName       string          `gorm:"type:varchar(100);not null;column:brand_name"`
	ModelNo         string          `gorm:"type:varchar(100);column:model_no"`
	State           string          `gorm:"type:varchar(100)"`
	Details         string          `gorm:"type:varchar(2000);not null"`
	WarrantyFileRef string          `gorm:"type:varchar(500);column:warranty_file_ref"`
	ReceiptFileRef  string          `gorm:"type:varchar(500);column:receipt_file_ref"`
	Status          ComplaintStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	AssignedTo      *uuid.UUID      `gorm:"type:uuid;index;column:assigned_to"`
	Technician      *User           `gorm:"foreignKey:AssignedTo"`
}

// AdminRemark is a note left by admin staff on a complaint.
// Admin remarks are immutable once created.
type AdminRemark struct {
	BaseModel
	ComplaintID   uuid.UUID       `gorm:"type:uuid;not null;index;column:complaint_id"`
	Complaint     *Complaint      `gorm:"foreignKey:ComplaintID"`
	AuthorID      uuid.UUID       `gorm:"type:uuid;not null;column:author_id"`
	NoteTransport string          `gorm:"type:varchar(500);column:note_transport"`
	Checking      string          `gorm:"type:varchar(500)"`
	Remark        string          `gorm:"type:varchar(1000)"`
	Status        ComplaintStatus `gorm:"type:varchar(50)"`
}

// TechnicianRemark is a note left by the assigned technician.
// Unlike admin remarks it can be edited or deleted by its author.
type TechnicianRemark struct {
	BaseModel
	ComplaintID   uuid.UUID       `gorm:"type:uuid;not null;index;column:complaint_id"`
	Complaint     *Complaint      `gorm:"foreignKey:ComplaintID"`
	AuthorID      uuid.UUID       `gorm:"type:uuid;not null;column:author_id"`
	NoteTransport string          `gorm:"type:varchar(500);column:note_transport"`
	Checking      string          `gorm:"type:varchar(500)"`
	Remark        string          `gorm:"type:varchar(1000)"`
	Status        ComplaintStatus `gorm:"type:varchar(50)"`
}

// MaxRemarksPerComplaint is the combined ceiling across admin and
// technician remarks. It is a hard business rule with no override path.
const MaxRemarksPerComplaint = 3

// ForwardHistory is the append-only audit trail of complaint reassignment
type ForwardHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	ComplaintID uuid.UUID  `gorm:"type:uuid;not null;index;column:complaint_id"`
	Complaint   *Complaint `gorm:"foreignKey:ComplaintID"`
	ForwardFrom uuid.UUID  `gorm:"type:uuid;not null;column:forward_from"`
	ForwardTo   uuid.UUID  `gorm:"type:uuid;not null;column:forward_to"`
	CreatedAt   time.Time  `gorm:"not null"`
}

// BeforeCreate assigns an ID when the database does not
func (f *ForwardHistory) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name to match the migration
func (ForwardHistory) TableName() string {
	return "forward_history"
}

// NotificationType tags what kind of update a notification carries
type NotificationType string

const (
	NotificationTypeNewComplaint    NotificationType = "new_complaint"
	NotificationTypeAssignment      NotificationType = "assignment"
	NotificationTypeStatusUpdate    NotificationType = "status_update"
	NotificationTypeStatusDetailed  NotificationType = "status_update_detailed"
	NotificationTypeTransportUpdate NotificationType = "transport_update"
	NotificationTypeCheckingUpdate  NotificationType = "checking_update"
	NotificationTypeRemarkUpdate    NotificationType = "remark_update"
	NotificationTypeCancellation    NotificationType = "cancellation"
	NotificationTypeReminder        NotificationType = "reminder"
)

// Notification represents one message delivered to one recipient.
// The Message field holds either a structured JSON payload or legacy
// free text; see the notify package for the encoding contract.
// Records are immutable except for the read flag.
type Notification struct {
	BaseModel
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index;column:recipient_id"`
	RecipientRole UserRole   `gorm:"type:varchar(50);not null;column:recipient_role"`
	Type          string     `gorm:"type:varchar(50);not null"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Message       string     `gorm:"type:varchar(1000);not null"`
	Read          bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt        *time.Time `gorm:"column:read_at"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid;column:reference_id"`
}

// User represents any account in the system: customer, admin staff,
// or technician. The role decides which workflow operations it may call.
type User struct {
	BaseModel
	Email       string         `gorm:"type:varchar(255);not null;unique"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:display_name"`
	Phone       string         `gorm:"type:varchar(50)"`
	Role        UserRole       `gorm:"type:varchar(50);not null;index"`
	Skills      pq.StringArray `gorm:"type:text[]"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active"`
}

// IsTechnician reports whether the account is an active technician.
// Forward targets must satisfy this; assigning a complaint to any other
// account id is rejected.
func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician && u.IsActive
}

// ReportSequence backs report number generation. One row per year,
// incremented atomically so report numbers are unique and never reused.
type ReportSequence struct {
	ID           uint      `gorm:"primaryKey"`
	Year         int       `gorm:"not null;uniqueIndex"`
	LastSequence int       `gorm:"not null;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName overrides the default table name to match the migration
func (ReportSequence) TableName() string {
	return "report_sequences"
}
