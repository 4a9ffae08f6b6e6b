package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintDTO is the API representation of a complaint
type ComplaintDTO struct {
	ID              uuid.UUID       `json:"id"`
	ReportNumber    string          `json:"reportNumber"`
	UserID          uuid.UUID       `json:"userId"`
	CategoryID      int             `json:"categoryId"`
	Subcategory     string          `json:"subcategory,omitempty"`
	ComplaintType   ComplaintType   `json:"complaintType"`
	BrandName       string          `json:"brandName"`
	ModelNo         string          `json:"modelNo,omitempty"`
	State           string          `json:"state,omitempty"`
	Details         string          `json:"details"`
	WarrantyFileRef string          `json:"warrantyFileRef,omitempty"`
	ReceiptFileRef  string          `json:"receiptFileRef,omitempty"`
	Status          ComplaintStatus `json:"status"`
	AssignedTo      *uuid.UUID      `json:"assignedTo,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateComplaintRequest is the payload for creating a complaint
type CreateComplaintRequest struct {
	CategoryID      int    `json:"categoryId" validate:"required,gt=0"`
	Subcategory     string `json:"subcategory" validate:"max=100"`
	ComplaintType   string `json:"complaintType" validate:"required,oneof=under_warranty over_warranty"`
	BrandName       string `json:"brandName" validate:"required,max=100"`
	ModelNo         string `json:"modelNo" validate:"max=100"`
	State           string `json:"state" validate:"max=100"`
	Details         string `json:"details" validate:"required,max=2000"`
	WarrantyFileRef string `json:"warrantyFileRef" validate:"max=500"`
	ReceiptFileRef  string `json:"receiptFileRef" validate:"max=500"`
}

// ForwardComplaintRequest assigns a complaint to a technician.
// Status is optional; when empty the complaint moves to in_process.
type ForwardComplaintRequest struct {
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
	Status       string    `json:"status" validate:"omitempty,oneof=pending in_process closed"`
}

// RemarkRequest carries the fields of a remark submission. Any of the
// note fields may be set; Status optionally transitions the parent
// complaint in the same call.
type RemarkRequest struct {
	NoteTransport string `json:"noteTransport" validate:"max=500"`
	Checking      string `json:"checking" validate:"max=500"`
	Remark        string `json:"remark" validate:"max=1000"`
	Status        string `json:"status" validate:"omitempty,oneof=pending in_process closed"`
}

// RemarkResult reports the dual effect of a remark submission: the
// persisted remark and whether the complaint status changed with it.
type RemarkResult struct {
	RemarkID      uuid.UUID        `json:"remarkId"`
	StatusChanged bool             `json:"statusChanged"`
	NewStatus     *ComplaintStatus `json:"newStatus,omitempty"`
}

// UpdateStatusRequest sets a complaint status directly
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_process closed"`
}

// RemarkDTO is the API representation of an admin or technician remark
type RemarkDTO struct {
	ID            uuid.UUID       `json:"id"`
	ComplaintID   uuid.UUID       `json:"complaintId"`
	AuthorID      uuid.UUID       `json:"authorId"`
	AuthorRole    UserRole        `json:"authorRole"`
	NoteTransport string          `json:"noteTransport,omitempty"`
	Checking      string          `json:"checking,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	Status        ComplaintStatus `json:"status,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ForwardHistoryDTO is the API representation of one reassignment
type ForwardHistoryDTO struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaintId"`
	ForwardFrom uuid.UUID `json:"forwardFrom"`
	ForwardTo   uuid.UUID `json:"forwardTo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationDTO is the API representation of a notification. Text
// holds the message resolved through the translation catalog; Message
// is the raw stored payload for clients that render themselves.
type NotificationDTO struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Text        string     `json:"text"`
	Read        bool       `json:"read"`
	ReferenceID *uuid.UUID `json:"referenceId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UserDTO is the API representation of an account
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Phone       string    `json:"phone,omitempty"`
	Role        UserRole  `json:"role"`
	Skills      []string  `json:"skills,omitempty"`
	IsActive    bool      `json:"isActive"`
}

// UnreadCountDTO holds the count of unread notifications
type UnreadCountDTO struct {
	Count int `json:"count"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse is a simple error envelope for handler responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
