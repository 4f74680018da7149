package regularization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/hrm-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/file"
)

type RegularizationServiceImpl struct {
	txManager          database.TxManager
	regularizationRepo regularization.RegularizationRepository
	attendanceRepo     attendance.AttendanceRepository
	employeeRepo       employee.EmployeeRepository
	fileService        file.FileService
	clock              clock.Clock
}

func NewRegularizationService(
	txManager database.TxManager,
	regularizationRepo regularization.RegularizationRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	clk clock.Clock,
) regularization.RegularizationService {
	return &RegularizationServiceImpl{
		txManager:          txManager,
		regularizationRepo: regularizationRepo,
		attendanceRepo:     attendanceRepo,
		employeeRepo:       employeeRepo,
		fileService:        fileService,
		clock:              clk,
	}
}

// Submit implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Submit(ctx context.Context, req regularization.SubmitRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}
	date, _ := timeutil.ParseDate(req.Date)

	if !validator.IsValidUUID(req.EmployeeID) {
		return regularization.RegularizationResponse{}, employee.ErrEmployeeNotFound
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	exists, err := s.regularizationRepo.ExistsActive(ctx, req.EmployeeID, date)
	if err != nil {
		return regularization.RegularizationResponse{}, fmt.Errorf("check existing regularization: %w", err)
	}
	if exists {
		return regularization.RegularizationResponse{}, regularization.ErrRegularizationExists
	}

	// the request type was checked by Validate; keep only the fields it uses
	correction, _ := regularization.NewCorrection(regularization.RequestType(req.RequestType), req.RequestedCheckInTime, req.RequestedCheckOutTime)
	record := regularization.Regularization{
		EmployeeID:  req.EmployeeID,
		Date:        date,
		RequestType: correction.Type(),
		Reason:      req.Reason,
		Status:      regularization.StatusPending,
	}
	if in := correction.LoginTime(); in != nil {
		record.RequestedCheckInTime = *in
	}
	if out := correction.LogoutTime(); out != nil {
		record.RequestedCheckOutTime = *out
	}

	if req.File != nil && req.FileHeader != nil {
		defer req.File.Close()
		key, err := s.fileService.UploadRegularizationDocument(ctx, req.EmployeeID, date, req.File, req.FileHeader.Filename)
		if err != nil {
			return regularization.RegularizationResponse{}, fmt.Errorf("upload supporting document: %w", err)
		}
		record.SupportingDocument = key
	}

	created, err := s.regularizationRepo.Create(ctx, record)
	if err != nil {
		if record.SupportingDocument != "" {
			if delErr := s.fileService.DeleteFile(ctx, record.SupportingDocument); delErr != nil {
				slog.Warn("Failed to remove orphaned supporting document", "key", record.SupportingDocument, "error", delErr)
			}
		}
		if errors.Is(err, regularization.ErrRegularizationExists) {
			return regularization.RegularizationResponse{}, err
		}
		return regularization.RegularizationResponse{}, fmt.Errorf("create regularization: %w", err)
	}

	slog.Info("Regularization submitted",
		"regularization_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", req.Date,
		"request_type", created.RequestType,
	)
	return s.toResponse(created), nil
}

// Decide implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Decide(ctx context.Context, req regularization.DecideRequest) (regularization.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.DecisionResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return regularization.DecisionResponse{}, regularization.ErrRegularizationNotFound
	}

	decision := regularization.Decision{
		Status:        regularization.Status(req.Status),
		ManagerRemark: req.ManagerRemark,
		DecidedBy:     req.ApproverID,
		DecidedAt:     s.clock.Now(),
	}

	var (
		decided regularization.Regularization
		record  *attendance.Attendance
	)
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		decided, err = s.regularizationRepo.Decide(txCtx, req.ID, decision)
		if err != nil {
			return err
		}
		if decided.Status != regularization.StatusApproved {
			return nil
		}

		reconciled, err := s.reconcile(txCtx, decided)
		if err != nil {
			return err
		}
		record = &reconciled
		return nil
	})
	if err != nil {
		return regularization.DecisionResponse{}, fmt.Errorf("decide regularization: %w", err)
	}

	slog.Info("Regularization decided",
		"regularization_id", decided.ID,
		"employee_id", decided.EmployeeID,
		"status", decided.Status,
		"approver_id", req.ApproverID,
	)

	resp := regularization.DecisionResponse{Regularization: s.toResponse(decided)}
	if record != nil {
		attendanceResp := attendance.ToResponse(*record)
		resp.Attendance = &attendanceResp
	}
	return resp, nil
}

// reconcile writes an approved correction into the day's attendance record.
func (s *RegularizationServiceImpl) reconcile(ctx context.Context, approved regularization.Regularization) (attendance.Attendance, error) {
	correction, err := approved.Correction()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("rebuild correction: %w", err)
	}

	record, err := s.attendanceRepo.UpsertCorrection(ctx, approved.EmployeeID, approved.Date, correction.LoginTime(), correction.LogoutTime())
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("apply correction: %w", err)
	}

	return attendanceService.RefreshWorkingHours(ctx, s.attendanceRepo, record)
}

// Get implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Get(ctx context.Context, id string) (regularization.RegularizationResponse, error) {
	if !validator.IsValidUUID(id) {
		return regularization.RegularizationResponse{}, regularization.ErrRegularizationNotFound
	}

	record, err := s.regularizationRepo.GetByID(ctx, id)
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}
	return s.toResponse(record), nil
}

// ListPending implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) ListPending(ctx context.Context) ([]regularization.RegularizationResponse, error) {
	records, err := s.regularizationRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending regularizations: %w", err)
	}

	items := make([]regularization.RegularizationResponse, 0, len(records))
	for _, r := range records {
		items = append(items, s.toResponse(r))
	}
	return items, nil
}

// ListByEmployee implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) ListByEmployee(ctx context.Context, filter regularization.ListFilter) (regularization.ListRegularizationResponse, error) {
	if err := filter.Validate(); err != nil {
		return regularization.ListRegularizationResponse{}, err
	}
	if !validator.IsValidUUID(filter.EmployeeID) {
		return regularization.ListRegularizationResponse{}, employee.ErrEmployeeNotFound
	}

	records, total, err := s.regularizationRepo.ListByEmployee(ctx, filter)
	if err != nil {
		return regularization.ListRegularizationResponse{}, fmt.Errorf("list regularizations: %w", err)
	}

	resp := regularization.ListRegularizationResponse{
		Items:      make([]regularization.RegularizationResponse, 0, len(records)),
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}
	for _, r := range records {
		resp.Items = append(resp.Items, s.toResponse(r))
	}
	return resp, nil
}

// Delete implements regularization.RegularizationService.
func (s *RegularizationServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return regularization.ErrRegularizationNotFound
	}
	record, err := s.regularizationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.regularizationRepo.DeletePending(ctx, id); err != nil {
		return err
	}

	if err := s.fileService.DeleteFile(ctx, record.SupportingDocument); err != nil {
		slog.Warn("Failed to remove supporting document", "regularization_id", id, "key", record.SupportingDocument, "error", err)
	}
	return nil
}

func (s *RegularizationServiceImpl) toResponse(r regularization.Regularization) regularization.RegularizationResponse {
	resp := regularization.ToResponse(r)
	resp.SupportingDocument = s.fileService.GetFileURL(r.SupportingDocument)
	return resp
}
