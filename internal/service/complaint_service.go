package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fixline/complaint-api/internal/auth"
	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/mapper"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComplaintService owns the complaint lifecycle: guarded creation,
// forwarding, remarks, status transitions and cancellation. Every
// mutation validates role, ownership and state before touching the
// record, then hands the post-mutation snapshot to the dispatcher.
type ComplaintService struct {
	complaintRepo *repository.ComplaintRepository
	remarkRepo    *repository.RemarkRepository
	historyRepo   *repository.ForwardHistoryRepository
	userRepo      *repository.UserRepository
	reportNumbers *ReportNumberService
	dispatcher    *NotificationDispatcher
	logger        *zap.Logger
}

// NewComplaintService creates a new ComplaintService instance
func NewComplaintService(
	complaintRepo *repository.ComplaintRepository,
	remarkRepo *repository.RemarkRepository,
	historyRepo *repository.ForwardHistoryRepository,
	userRepo *repository.UserRepository,
	reportNumbers *ReportNumberService,
	dispatcher *NotificationDispatcher,
	logger *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		remarkRepo:    remarkRepo,
		historyRepo:   historyRepo,
		userRepo:      userRepo,
		reportNumbers: reportNumbers,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Create registers a new complaint for the calling user. The complaint
// always starts in pending with no assignee.
func (s *ComplaintService) Create(ctx context.Context, req *domain.CreateComplaintRequest) (*domain.ComplaintDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	complaintType := domain.ComplaintType(req.ComplaintType)
	if !complaintType.IsValid() {
		return nil, fmt.Errorf("%w: unknown complaint type %q", ErrInvalidInput, req.ComplaintType)
	}

	// Under-warranty complaints should carry both file refs, but the
	// check stays soft: missing files are logged, never rejected.
	if complaintType == domain.ComplaintUnderWarranty && (req.WarrantyFileRef == "" || req.ReceiptFileRef == "") {
		s.logger.Warn("under-warranty complaint created without both file references",
			zap.String("userID", userCtx.UserID.String()),
			zap.Bool("hasWarrantyFile", req.WarrantyFileRef != ""),
			zap.Bool("hasReceiptFile", req.ReceiptFileRef != ""),
		)
	}

	reportNumber, err := s.reportNumbers.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report number: %w", err)
	}

	complaint := &domain.Complaint{
		ReportNumber:    reportNumber,
		UserID:          userCtx.UserID,
		CategoryID:      req.CategoryID,
		Subcategory:     req.Subcategory,
		ComplaintType:   complaintType,
		BrandName:       req.BrandName,
		ModelNo:         req.ModelNo,
		State:           req.State,
		Details:         req.Details,
		WarrantyFileRef: req.WarrantyFileRef,
		ReceiptFileRef:  req.ReceiptFileRef,
		Status:          domain.StatusPending,
		AssignedTo:      nil,
	}

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	s.logger.Info("complaint created",
		zap.String("complaintID", complaint.ID.String()),
		zap.String("reportNumber", complaint.ReportNumber),
		zap.String("userID", userCtx.UserID.String()),
	)

	customer, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		s.logger.Warn("failed to load customer for notification",
			zap.String("userID", userCtx.UserID.String()),
			zap.Error(err),
		)
	}
	s.dispatcher.ComplaintCreated(ctx, complaint, customer)

	dto := mapper.ToComplaintDTO(complaint)
	return &dto, nil
}

// GetByID returns a complaint visible to the caller: its owner, any
// admin, or the technician it is assigned to
func (s *ComplaintService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplaintDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(userCtx, complaint) {
		return nil, ErrPermissionDenied
	}

	dto := mapper.ToComplaintDTO(complaint)
	return &dto, nil
}

// List returns complaints scoped to the caller's role: customers see
// their own, technicians see their assignments, admins see everything
func (s *ComplaintService) List(ctx context.Context, status string, page, pageSize int) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	filter := repository.ComplaintFilter{Status: domain.ComplaintStatus(status)}
	switch userCtx.Role {
	case domain.RoleUser:
		filter.UserID = &userCtx.UserID
	case domain.RoleTechnician:
		filter.AssignedTo = &userCtx.UserID
	}

	complaints, total, err := s.complaintRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}

	dtos := make([]domain.ComplaintDTO, len(complaints))
	for i := range complaints {
		dtos[i] = mapper.ToComplaintDTO(&complaints[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Forward assigns a complaint to a technician. Admin only. The target
// must resolve to an active technician account; anything else is
// rejected with ErrInvalidAssignee and leaves the complaint untouched.
func (s *ComplaintService) Forward(ctx context.Context, complaintID uuid.UUID, req *domain.ForwardComplaintRequest) (*domain.ComplaintDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	technician, err := s.userRepo.GetTechnician(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to resolve technician: %w", err)
	}

	status := domain.StatusInProcess
	if req.Status != "" {
		status = domain.ComplaintStatus(req.Status)
	}

	// forwardFrom is the previous assignee, or the acting admin on the
	// first assignment
	forwardFrom := userCtx.UserID
	if complaint.AssignedTo != nil {
		forwardFrom = *complaint.AssignedTo
	}

	if err := s.complaintRepo.Assign(ctx, complaintID, technician.ID, status); err != nil {
		return nil, fmt.Errorf("failed to assign complaint: %w", err)
	}
	complaint.AssignedTo = &technician.ID
	complaint.Status = status

	entry := &domain.ForwardHistory{
		ComplaintID: complaintID,
		ForwardFrom: forwardFrom,
		ForwardTo:   technician.ID,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record forward history: %w", err)
	}

	s.logger.Info("complaint forwarded",
		zap.String("complaintID", complaintID.String()),
		zap.String("technicianID", technician.ID.String()),
		zap.String("status", string(status)),
		zap.String("forwardedBy", userCtx.UserID.String()),
	)

	s.dispatcher.ComplaintForwarded(ctx, complaint, technician)

	dto := mapper.ToComplaintDTO(complaint)
	return &dto, nil
}

// AddRemark appends a remark under the kind matching the caller's role.
// Technicians may only remark complaints assigned to them. A status
// field on the request transitions the complaint in the same call; the
// dual effect is reported in the result.
func (s *ComplaintService) AddRemark(ctx context.Context, complaintID uuid.UUID, req *domain.RemarkRequest) (*domain.RemarkResult, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.IsStaff() {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	// Remarks stay legal on closed complaints but not cancelled ones
	if complaint.Status == domain.StatusCancelled {
		return nil, ErrInvalidTransition
	}

	if userCtx.IsTechnician() && !s.isAssignee(userCtx, complaint) {
		return nil, ErrPermissionDenied
	}

	// A bad status side effect must not consume a ledger slot
	if err := checkRemarkStatus(complaint, req.Status); err != nil {
		return nil, err
	}

	var remarkID uuid.UUID
	if userCtx.IsAdmin() {
		remark := &domain.AdminRemark{
			ComplaintID:   complaintID,
			AuthorID:      userCtx.UserID,
			NoteTransport: req.NoteTransport,
			Checking:      req.Checking,
			Remark:        req.Remark,
			Status:        domain.ComplaintStatus(req.Status),
		}
		if err := s.remarkRepo.AppendAdminRemark(ctx, remark); err != nil {
			return nil, s.mapRemarkError(err)
		}
		remarkID = remark.ID
	} else {
		remark := &domain.TechnicianRemark{
			ComplaintID:   complaintID,
			AuthorID:      userCtx.UserID,
			NoteTransport: req.NoteTransport,
			Checking:      req.Checking,
			Remark:        req.Remark,
			Status:        domain.ComplaintStatus(req.Status),
		}
		if err := s.remarkRepo.AppendTechnicianRemark(ctx, remark); err != nil {
			return nil, s.mapRemarkError(err)
		}
		remarkID = remark.ID
	}

	result := &domain.RemarkResult{RemarkID: remarkID}

	statusChanged, err := s.applyRemarkStatus(ctx, complaint, req.Status)
	if err != nil {
		return nil, err
	}
	if statusChanged {
		result.StatusChanged = true
		result.NewStatus = &complaint.Status
	}

	s.logger.Info("remark added",
		zap.String("complaintID", complaintID.String()),
		zap.String("remarkID", remarkID.String()),
		zap.String("authorRole", string(userCtx.Role)),
		zap.Bool("statusChanged", statusChanged),
	)

	s.dispatcher.RemarkSaved(ctx, complaint, userCtx.Role, userCtx.DisplayName, req, statusChanged)

	return result, nil
}

// UpdateRemark edits a technician remark. Only the author may edit, and
// only technician remarks are editable at all.
func (s *ComplaintService) UpdateRemark(ctx context.Context, remarkID uuid.UUID, req *domain.RemarkRequest) (*domain.RemarkResult, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.IsTechnician() {
		return nil, ErrPermissionDenied
	}

	remark, err := s.remarkRepo.GetTechnicianRemark(ctx, remarkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRemarkNotFound
		}
		return nil, fmt.Errorf("failed to get remark: %w", err)
	}
	if remark.AuthorID != userCtx.UserID {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.getComplaint(ctx, remark.ComplaintID)
	if err != nil {
		return nil, err
	}

	// A bad status side effect must not commit the edit either
	if err := checkRemarkStatus(complaint, req.Status); err != nil {
		return nil, err
	}

	remark.NoteTransport = req.NoteTransport
	remark.Checking = req.Checking
	remark.Remark = req.Remark
	remark.Status = domain.ComplaintStatus(req.Status)
	if err := s.remarkRepo.UpdateTechnicianRemark(ctx, remark); err != nil {
		return nil, fmt.Errorf("failed to update remark: %w", err)
	}

	result := &domain.RemarkResult{RemarkID: remark.ID}

	statusChanged, err := s.applyRemarkStatus(ctx, complaint, req.Status)
	if err != nil {
		return nil, err
	}
	if statusChanged {
		result.StatusChanged = true
		result.NewStatus = &complaint.Status
	}

	s.logger.Info("remark updated",
		zap.String("remarkID", remark.ID.String()),
		zap.String("complaintID", complaint.ID.String()),
		zap.Bool("statusChanged", statusChanged),
	)

	s.dispatcher.RemarkSaved(ctx, complaint, userCtx.Role, userCtx.DisplayName, req, statusChanged)

	return result, nil
}

// DeleteRemark removes a technician remark, author only
func (s *ComplaintService) DeleteRemark(ctx context.Context, remarkID uuid.UUID) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}
	if !userCtx.IsTechnician() {
		return ErrPermissionDenied
	}

	remark, err := s.remarkRepo.GetTechnicianRemark(ctx, remarkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRemarkNotFound
		}
		return fmt.Errorf("failed to get remark: %w", err)
	}
	if remark.AuthorID != userCtx.UserID {
		return ErrPermissionDenied
	}

	if err := s.remarkRepo.DeleteTechnicianRemark(ctx, remarkID); err != nil {
		return fmt.Errorf("failed to delete remark: %w", err)
	}

	s.logger.Info("remark deleted",
		zap.String("remarkID", remarkID.String()),
		zap.String("complaintID", remark.ComplaintID.String()),
	)

	return nil
}

// ListRemarks returns the combined remark ledger for a complaint,
// oldest first across both kinds
func (s *ComplaintService) ListRemarks(ctx context.Context, complaintID uuid.UUID) ([]domain.RemarkDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !s.canView(userCtx, complaint) {
		return nil, ErrPermissionDenied
	}

	adminRemarks, err := s.remarkRepo.ListAdminRemarks(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin remarks: %w", err)
	}
	techRemarks, err := s.remarkRepo.ListTechnicianRemarks(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technician remarks: %w", err)
	}

	dtos := make([]domain.RemarkDTO, 0, len(adminRemarks)+len(techRemarks))
	for i := range adminRemarks {
		dtos = append(dtos, mapper.ToAdminRemarkDTO(&adminRemarks[i]))
	}
	for i := range techRemarks {
		dtos = append(dtos, mapper.ToTechnicianRemarkDTO(&techRemarks[i]))
	}
	sort.Slice(dtos, func(i, j int) bool {
		return dtos[i].CreatedAt.Before(dtos[j].CreatedAt)
	})

	return dtos, nil
}

// UpdateStatus sets a complaint status directly, outside of a remark.
// Admins may touch any complaint, technicians only their assignments.
func (s *ComplaintService) UpdateStatus(ctx context.Context, complaintID uuid.UUID, req *domain.UpdateStatusRequest) (*domain.ComplaintDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !userCtx.IsStaff() {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if userCtx.IsTechnician() && !s.isAssignee(userCtx, complaint) {
		return nil, ErrPermissionDenied
	}

	newStatus := domain.ComplaintStatus(req.Status)
	if err := validateTransition(complaint.Status, newStatus); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.UpdateStatus(ctx, complaintID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update complaint status: %w", err)
	}
	complaint.Status = newStatus

	s.logger.Info("complaint status updated",
		zap.String("complaintID", complaintID.String()),
		zap.String("status", string(newStatus)),
		zap.String("updatedBy", userCtx.UserID.String()),
	)

	s.dispatcher.StatusChanged(ctx, complaint, userCtx.DisplayName)

	dto := mapper.ToComplaintDTO(complaint)
	return &dto, nil
}

// Cancel withdraws a complaint. Only the owner may cancel, and only
// while the complaint is still pending; status is unchanged on failure.
func (s *ComplaintService) Cancel(ctx context.Context, complaintID uuid.UUID) (*domain.ComplaintDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != userCtx.UserID {
		return nil, ErrPermissionDenied
	}
	if complaint.Status != domain.StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.complaintRepo.UpdateStatus(ctx, complaintID, domain.StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel complaint: %w", err)
	}
	complaint.Status = domain.StatusCancelled

	s.logger.Info("complaint cancelled",
		zap.String("complaintID", complaintID.String()),
		zap.String("userID", userCtx.UserID.String()),
	)

	s.dispatcher.ComplaintCancelled(ctx, complaint)

	dto := mapper.ToComplaintDTO(complaint)
	return &dto, nil
}

// GetForwardHistory returns the reassignment trail for a complaint
func (s *ComplaintService) GetForwardHistory(ctx context.Context, complaintID uuid.UUID) ([]domain.ForwardHistoryDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !s.canView(userCtx, complaint) {
		return nil, ErrPermissionDenied
	}

	history, err := s.historyRepo.GetByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to get forward history: %w", err)
	}

	dtos := make([]domain.ForwardHistoryDTO, len(history))
	for i := range history {
		dtos[i] = mapper.ToForwardHistoryDTO(&history[i])
	}
	return dtos, nil
}

// getComplaint loads a complaint, mapping gorm's not-found to the
// service error
func (s *ComplaintService) getComplaint(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return complaint, nil
}

// checkRemarkStatus validates the optional status side effect of a
// remark submission without applying it. Callers run this before
// persisting the remark so a rejected transition leaves the ledger
// untouched.
func checkRemarkStatus(complaint *domain.Complaint, status string) error {
	if status == "" {
		return nil
	}
	newStatus := domain.ComplaintStatus(status)
	if newStatus == complaint.Status {
		return nil
	}
	return validateTransition(complaint.Status, newStatus)
}

// applyRemarkStatus performs the optional status side effect of a
// remark submission. Returns whether the status actually changed.
func (s *ComplaintService) applyRemarkStatus(ctx context.Context, complaint *domain.Complaint, status string) (bool, error) {
	if status == "" {
		return false, nil
	}

	newStatus := domain.ComplaintStatus(status)
	if newStatus == complaint.Status {
		return false, nil
	}
	if err := validateTransition(complaint.Status, newStatus); err != nil {
		return false, err
	}

	if err := s.complaintRepo.UpdateStatus(ctx, complaint.ID, newStatus); err != nil {
		return false, fmt.Errorf("failed to update complaint status: %w", err)
	}
	complaint.Status = newStatus
	return true, nil
}

func (s *ComplaintService) canView(userCtx *auth.UserContext, complaint *domain.Complaint) bool {
	if userCtx.IsAdmin() {
		return true
	}
	if userCtx.IsTechnician() {
		return s.isAssignee(userCtx, complaint)
	}
	return complaint.UserID == userCtx.UserID
}

func (s *ComplaintService) isAssignee(userCtx *auth.UserContext, complaint *domain.Complaint) bool {
	return complaint.AssignedTo != nil && *complaint.AssignedTo == userCtx.UserID
}

// mapRemarkError converts repository-level ledger errors to service errors
func (s *ComplaintService) mapRemarkError(err error) error {
	if errors.Is(err, repository.ErrRemarkLimitFull) {
		return ErrRemarkLimitReached
	}
	return fmt.Errorf("failed to append remark: %w", err)
}

// validateTransition enforces the lifecycle state machine. Terminal
// states never transition out, and cancellation has its own guarded
// path rather than going through a direct status update.
func validateTransition(from, to domain.ComplaintStatus) error {
	if !to.IsValid() || to == domain.StatusCancelled {
		return ErrInvalidTransition
	}
	if from.IsTerminal() {
		return ErrInvalidTransition
	}
	return nil
}
