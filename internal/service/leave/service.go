package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	txManager    database.TxManager
	requestRepo  leave.LeaveRequestRepository
	ledgerRepo   leave.LeaveLedgerRepository
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
	clock        clock.Clock
}

func NewLeaveService(
	txManager database.TxManager,
	requestRepo leave.LeaveRequestRepository,
	ledgerRepo leave.LeaveLedgerRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	clk clock.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		txManager:    txManager,
		requestRepo:  requestRepo,
		ledgerRepo:   ledgerRepo,
		employeeRepo: employeeRepo,
		fileService:  fileService,
		clock:        clk,
	}
}

// RequestLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) RequestLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	from, _ := timeutil.ParseDate(req.From)
	to, _ := timeutil.ParseDate(req.To)

	if !validator.IsValidUUID(req.EmployeeID) {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeNotFound
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := leave.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		From:        from,
		To:          to,
		Type:        leave.Type(req.Type),
		Mode:        leave.Mode(req.Mode),
		Description: req.Description,
		Status:      leave.StatusPending,
	}

	if req.File != nil && req.FileHeader != nil {
		defer req.File.Close()
		key, err := s.fileService.UploadLeaveAttachment(ctx, req.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("upload leave attachment: %w", err)
		}
		request.File = key
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		if request.File != "" {
			if delErr := s.fileService.DeleteFile(ctx, request.File); delErr != nil {
				slog.Warn("Failed to remove orphaned leave attachment", "key", request.File, "error", delErr)
			}
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("create leave request: %w", err)
	}

	slog.Info("Leave requested",
		"leave_request_id", created.ID,
		"employee_id", created.EmployeeID,
		"type", created.Type,
		"mode", created.Mode,
		"from", req.From,
		"to", req.To,
	)
	return s.toResponse(created), nil
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return s.toResponse(request), nil
}

// ListPending implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending leave requests: %w", err)
	}

	items := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, s.toResponse(r))
	}
	return items, nil
}

// UpdateLeaveStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeaveStatus(ctx context.Context, req leave.UpdateStatusRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	decision := leave.Decision{
		Status:    leave.Status(req.Status),
		HRRemark:  req.HRRemark,
		DecidedBy: req.ApproverID,
		DecidedAt: s.clock.Now(),
	}

	var decided leave.LeaveRequest
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		decided, err = s.requestRepo.Decide(txCtx, req.ID, decision)
		if err != nil {
			return err
		}
		if decided.Status != leave.StatusApproved {
			return nil
		}

		_, err = s.ApplyApprovedLeave(txCtx, decided)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("update leave status: %w", err)
	}

	slog.Info("Leave request decided",
		"leave_request_id", decided.ID,
		"employee_id", decided.EmployeeID,
		"status", decided.Status,
		"approver_id", req.ApproverID,
	)
	return s.toResponse(decided), nil
}

// ApplyApprovedLeave implements leave.LeaveService. The ledger_applied_at
// guard and every ledger increment share one transaction.
func (s *LeaveServiceImpl) ApplyApprovedLeave(ctx context.Context, request leave.LeaveRequest) ([]leave.Segment, error) {
	if request.Status != leave.StatusApproved {
		return nil, leave.ErrLeaveNotApproved
	}
	if !request.Type.Valid() || !request.Mode.Valid() {
		return nil, fmt.Errorf("apply leave %s: unknown type %q or mode %q", request.ID, request.Type, request.Mode)
	}

	segments := SplitByMonth(request.From, request.To, request.Mode)

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.MarkLedgerApplied(txCtx, request.ID, s.clock.Now()); err != nil {
			return err
		}

		for _, seg := range segments {
			entry := leave.LedgerEntry{
				From:        seg.From,
				To:          seg.To,
				Type:        request.Type,
				Mode:        request.Mode,
				Description: request.Description,
				File:        request.File,
			}
			if _, err := s.ledgerRepo.Increment(txCtx, request.EmployeeID, seg.Year, seg.Month, request.Type, seg.Effective, entry); err != nil {
				return fmt.Errorf("increment ledger %04d-%02d: %w", seg.Year, seg.Month, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveAlreadyApplied) {
			return nil, err
		}
		return nil, fmt.Errorf("apply approved leave: %w", err)
	}

	slog.Info("Leave posted to ledger",
		"leave_request_id", request.ID,
		"employee_id", request.EmployeeID,
		"segments", len(segments),
	)
	return segments, nil
}

// GetEmployeeLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetEmployeeLeaves(ctx context.Context, employeeID string, year int) (leave.EmployeeLeaveSummary, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if year < 1970 || year > 9999 {
		errs.Add("year", "year must be between 1970 and 9999")
	}
	if err := errs.Err(); err != nil {
		return leave.EmployeeLeaveSummary{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return leave.EmployeeLeaveSummary{}, employee.ErrEmployeeNotFound
	}

	ledgers, err := s.ledgerRepo.ListByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return leave.EmployeeLeaveSummary{}, fmt.Errorf("list leave ledgers: %w", err)
	}

	summary := leave.EmployeeLeaveSummary{
		EmployeeID: employeeID,
		Year:       year,
		Totals:     make(map[leave.Type]decimal.Decimal, len(leave.Types)),
		Months:     make([]leave.LedgerResponse, 0, len(ledgers)),
	}
	for _, t := range leave.Types {
		summary.Totals[t] = decimal.Zero
	}
	for _, l := range ledgers {
		for _, t := range leave.Types {
			summary.Totals[t] = summary.Totals[t].Add(l.Counter(t))
		}
		month := leave.ToLedgerResponse(l)
		for i := range month.Leaves {
			month.Leaves[i].File = s.fileService.GetFileURL(month.Leaves[i].File)
		}
		summary.Months = append(summary.Months, month)
	}
	return summary, nil
}

func (s *LeaveServiceImpl) toResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.ToResponse(r)
	resp.File = s.fileService.GetFileURL(r.File)
	return resp
}
