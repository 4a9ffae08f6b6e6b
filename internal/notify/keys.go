package notify

// Translation keys for structured notification messages. Keys are
// stable wire values; renaming one orphans every stored row that
// references it (the resolver then falls back to the stored text).
const (
	KeyNewComplaint        = "new_complaint_msg"
	KeyUserComplaintOpened = "user_complaint_created_msg"

	KeyProcessingTech     = "notif_processing_tech"
	KeyProcessingUser     = "notif_processing_user"
	KeyForwardStatusUser  = "notif_forward_status_user"

	KeyInProcessAdmin = "notif_in_process_admin"
	KeyClosedAdmin    = "notif_closed_admin"
	KeyInProcessUser  = "notif_in_process_user"
	KeyClosedUser     = "notif_closed_user"
	KeyStatusAdmin    = "notif_status_admin"
	KeyStatusUser     = "notif_status_user"

	KeyTransportAdmin = "transport_update_admin"
	KeyTransportUser  = "transport_update_user"
	KeyCheckingAdmin  = "checking_update_admin"
	KeyCheckingUser   = "checking_update_user"
	KeyRemarkAdmin    = "remark_update_admin"
	KeyRemarkUser     = "remark_update_user"
	KeyRemarkTech     = "remark_update_tech"

	KeyCancelledUser  = "complaint_cancelled_user"
	KeyCancelledAdmin = "complaint_cancelled_admin"

	KeyPendingReminder = "pending_reminder_admin"
)

// Param names used in structured payloads
const (
	ParamReportNumber = "report_number"
	ParamCustomer     = "customer"
	ParamTechnician   = "technician"
	ParamStatus       = "status"
	ParamDate         = "date"
	ParamTime         = "time"
	ParamNote         = "note"
	ParamDays         = "days"
)

// defaultCatalog holds the built-in English templates. Placeholders use
// {param} syntax and are substituted by the resolver.
var defaultCatalog = map[string]string{
	KeyNewComplaint:        "New complaint {report_number} submitted by {customer} on {date} at {time}",
	KeyUserComplaintOpened: "Your complaint {report_number} has been registered. We will notify you as it progresses.",

	KeyProcessingTech:    "Complaint {report_number} was assigned to you on {date} at {time}",
	KeyProcessingUser:    "Your complaint {report_number} has been assigned to {technician} and is now in process",
	KeyForwardStatusUser: "Your complaint {report_number} has been assigned to {technician} with status {status}",

	KeyInProcessAdmin: "Complaint {report_number} was moved to in process by {technician} on {date}",
	KeyClosedAdmin:    "Complaint {report_number} was closed by {technician} on {date}",
	KeyInProcessUser:  "Your complaint {report_number} is now being worked on",
	KeyClosedUser:     "Your complaint {report_number} has been resolved and is ready for pickup",
	KeyStatusAdmin:    "Complaint {report_number} status changed to {status}",
	KeyStatusUser:     "Your complaint {report_number} status changed to {status}",

	KeyTransportAdmin: "Transport note on complaint {report_number}: {note}",
	KeyTransportUser:  "Transport update for your complaint {report_number}: {note}",
	KeyCheckingAdmin:  "Checking note on complaint {report_number}: {note}",
	KeyCheckingUser:   "Checking update for your complaint {report_number}: {note}",
	KeyRemarkAdmin:    "Remark on complaint {report_number}: {note}",
	KeyRemarkUser:     "Update on your complaint {report_number}: {note}",
	KeyRemarkTech:     "An admin updated complaint {report_number} assigned to you",

	KeyCancelledUser:  "Your complaint {report_number} has been cancelled",
	KeyCancelledAdmin: "Complaint {report_number} was cancelled by the customer",

	KeyPendingReminder: "Complaint {report_number} has been pending for {days} days",
}

// Catalog resolves a translation key to its template text
type Catalog interface {
	Lookup(key string) (string, bool)
}

// StaticCatalog is a Catalog backed by an in-memory map
type StaticCatalog map[string]string

// Lookup implements Catalog
func (c StaticCatalog) Lookup(key string) (string, bool) {
	template, ok := c[key]
	return template, ok
}

// DefaultCatalog returns the built-in English catalog
func DefaultCatalog() Catalog {
	return StaticCatalog(defaultCatalog)
}
