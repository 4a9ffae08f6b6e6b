package mapper

import (
	"github.com/fixline/complaint-api/internal/domain"
)

// ToComplaintDTO converts Complaint to ComplaintDTO
func ToComplaintDTO(complaint *domain.Complaint) domain.ComplaintDTO {
	return domain.ComplaintDTO{
		ID:              complaint.ID,
		ReportNumber:    complaint.ReportNumber,
		UserID:          complaint.UserID,
		CategoryID:      complaint.CategoryID,
		Subcategory:     complaint.Subcategory,
		ComplaintType:   complaint.ComplaintType,
		BrandName:       complaint.BrandName,
		ModelNo:         complaint.ModelNo,
		State:           complaint.State,
		Details:         complaint.Details,
		WarrantyFileRef: complaint.WarrantyFileRef,
		ReceiptFileRef:  complaint.ReceiptFileRef,
		Status:          complaint.Status,
		AssignedTo:      complaint.AssignedTo,
		CreatedAt:       complaint.CreatedAt,
		UpdatedAt:       complaint.UpdatedAt,
	}
}

// ToAdminRemarkDTO converts AdminRemark to RemarkDTO
func ToAdminRemarkDTO(remark *domain.AdminRemark) domain.RemarkDTO {
	return domain.RemarkDTO{
		ID:            remark.ID,
		ComplaintID:   remark.ComplaintID,
		AuthorID:      remark.AuthorID,
		AuthorRole:    domain.RoleAdmin,
		NoteTransport: remark.NoteTransport,
		Checking:      remark.Checking,
		Remark:        remark.Remark,
		Status:        remark.Status,
		CreatedAt:     remark.CreatedAt,
	}
}

// ToTechnicianRemarkDTO converts TechnicianRemark to RemarkDTO
func ToTechnicianRemarkDTO(remark *domain.TechnicianRemark) domain.RemarkDTO {
	return domain.RemarkDTO{
		ID:            remark.ID,
		ComplaintID:   remark.ComplaintID,
		AuthorID:      remark.AuthorID,
		AuthorRole:    domain.RoleTechnician,
		NoteTransport: remark.NoteTransport,
		Checking:      remark.Checking,
		Remark:        remark.Remark,
		Status:        remark.Status,
		CreatedAt:     remark.CreatedAt,
	}
}

// ToForwardHistoryDTO converts ForwardHistory to ForwardHistoryDTO
func ToForwardHistoryDTO(entry *domain.ForwardHistory) domain.ForwardHistoryDTO {
	return domain.ForwardHistoryDTO{
		ID:          entry.ID,
		ComplaintID: entry.ComplaintID,
		ForwardFrom: entry.ForwardFrom,
		ForwardTo:   entry.ForwardTo,
		CreatedAt:   entry.CreatedAt,
	}
}

// ToNotificationDTO converts Notification to NotificationDTO. text is
// the message resolved through the translation catalog; the raw stored
// payload travels alongside it for clients that render themselves.
func ToNotificationDTO(notification *domain.Notification, text string) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:          notification.ID,
		Type:        notification.Type,
		Title:       notification.Title,
		Message:     notification.Message,
		Text:        text,
		Read:        notification.Read,
		ReferenceID: notification.ReferenceID,
		CreatedAt:   notification.CreatedAt,
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		Role:        user.Role,
		Skills:      user.Skills,
		IsActive:    user.IsActive,
	}
}
