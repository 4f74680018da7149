package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ghostID is a well-formed id no test seeds
const (
	ayuID   = "0190b1c4-3f00-7a00-8000-00000000a001"
	ghostID = "0190b1c4-3f00-7a00-8000-00000000dead"
)

func newTestService(t *testing.T) (leave.LeaveService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddEmployee(employee.Employee{ID: ayuID, EmployeeCode: "0001-0001", FullName: "Ayu Lestari"})

	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	clk := &clock.Fixed{T: time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)}
	svc := NewLeaveService(store, store.LeaveRequests(), store.LeaveLedgers(), store.Employees(), file.NewFileService(fs), clk)
	return svc, store
}

func requestLeave(t *testing.T, svc leave.LeaveService, from, to string, leaveType leave.Type, mode leave.Mode) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := svc.RequestLeave(context.Background(), leave.CreateLeaveRequest{
		EmployeeID:  ayuID,
		From:        from,
		To:          to,
		Type:        string(leaveType),
		Mode:        string(mode),
		Description: "family matters",
	})
	require.NoError(t, err)
	return resp
}

func approveReq(id string) leave.UpdateStatusRequest {
	return leave.UpdateStatusRequest{ID: id, Status: string(leave.StatusApproved), HRRemark: "enjoy", ApproverID: "user-9"}
}

func TestRequestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a pending request", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, "")
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, leave.ModeFull, resp.Mode)
		assert.Equal(t, "2024-01-30", resp.From)
		assert.Empty(t, resp.File)

		got, err := svc.GetRequest(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.ID, got.ID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.RequestLeave(ctx, leave.CreateLeaveRequest{EmployeeID: ghostID, From: "2024-01-30", To: "2024-01-30", Type: "sickLeave"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("invalid range", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.RequestLeave(ctx, leave.CreateLeaveRequest{EmployeeID: ayuID, From: "2024-02-02", To: "2024-01-30", Type: "sickLeave"})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "to")
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetRequest(ctx, ghostID)
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

		_, err = svc.GetRequest(ctx, "lr-missing")
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	})

	t.Run("malformed employee id", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.RequestLeave(ctx, leave.CreateLeaveRequest{EmployeeID: "abc", From: "2024-01-30", To: "2024-01-30", Type: "sickLeave"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestUpdateLeaveStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approval splits the range across monthly ledgers", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, leave.ModeFull)

		resp, err := svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, "user-9", *resp.ApprovedBy)
		assert.Equal(t, 2, store.LedgerCount())

		summary, err := svc.GetEmployeeLeaves(ctx, ayuID, 2024)
		require.NoError(t, err)
		require.Len(t, summary.Months, 2)

		jan, feb := summary.Months[0], summary.Months[1]
		assert.Equal(t, 1, jan.Month)
		assert.True(t, decimal.NewFromInt(2).Equal(jan.CasualLeave))
		assert.True(t, decimal.Zero.Equal(jan.SickLeave))
		require.Len(t, jan.Leaves, 1)
		assert.Equal(t, "2024-01-30", jan.Leaves[0].From)
		assert.Equal(t, "2024-01-31", jan.Leaves[0].To)
		assert.Equal(t, "family matters", jan.Leaves[0].Description)

		assert.Equal(t, 2, feb.Month)
		assert.True(t, decimal.NewFromInt(2).Equal(feb.CasualLeave))
		assert.Equal(t, "2024-02-01", feb.Leaves[0].From)
		assert.Equal(t, "2024-02-02", feb.Leaves[0].To)

		assert.True(t, decimal.NewFromInt(4).Equal(summary.Totals[leave.TypeCasual]))
		assert.True(t, decimal.Zero.Equal(summary.Totals[leave.TypePaid]))
	})

	t.Run("half mode counts half days and accumulates in the same month", func(t *testing.T) {
		svc, store := newTestService(t)
		first := requestLeave(t, svc, "2024-03-04", "2024-03-06", leave.TypeSick, leave.ModeHalf)
		second := requestLeave(t, svc, "2024-03-20", "2024-03-20", leave.TypeSick, leave.ModeFull)

		_, err := svc.UpdateLeaveStatus(ctx, approveReq(first.ID))
		require.NoError(t, err)
		_, err = svc.UpdateLeaveStatus(ctx, approveReq(second.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, store.LedgerCount())

		summary, err := svc.GetEmployeeLeaves(ctx, ayuID, 2024)
		require.NoError(t, err)
		require.Len(t, summary.Months, 1)
		assert.True(t, decimal.RequireFromString("2.5").Equal(summary.Months[0].SickLeave), summary.Months[0].SickLeave.String())
		assert.Len(t, summary.Months[0].Leaves, 2)
	})

	t.Run("half mode across a month boundary", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, leave.ModeHalf)

		_, err := svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.NoError(t, err)
		assert.Equal(t, 2, store.LedgerCount())

		summary, err := svc.GetEmployeeLeaves(ctx, ayuID, 2024)
		require.NoError(t, err)
		require.Len(t, summary.Months, 2)
		assert.Equal(t, 1, summary.Months[0].Month)
		assert.True(t, decimal.NewFromInt(1).Equal(summary.Months[0].CasualLeave), summary.Months[0].CasualLeave.String())
		assert.Equal(t, 2, summary.Months[1].Month)
		assert.True(t, decimal.NewFromInt(1).Equal(summary.Months[1].CasualLeave), summary.Months[1].CasualLeave.String())
		assert.True(t, decimal.NewFromInt(2).Equal(summary.Totals[leave.TypeCasual]))
	})

	t.Run("rejection leaves the ledger untouched", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypePaid, leave.ModeFull)

		resp, err := svc.UpdateLeaveStatus(ctx, leave.UpdateStatusRequest{ID: req.ID, Status: "rejected", HRRemark: "busy period", ApproverID: "user-9"})
		require.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, "busy period", resp.HRRemark)
		assert.Equal(t, 0, store.LedgerCount())
	})

	t.Run("retrying an approval never double counts", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeEmergency, leave.ModeFull)

		_, err := svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.NoError(t, err)

		_, err = svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
		assert.Equal(t, apperror.KindAlreadyProcessed, apperror.KindOf(err))

		summary, err := svc.GetEmployeeLeaves(ctx, ayuID, 2024)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(4).Equal(summary.Totals[leave.TypeEmergency]))
	})

	t.Run("ledger failure rolls back the approval", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, leave.ModeFull)

		store.FailOn["ledger.Increment"] = errors.New("connection reset")
		_, err := svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.Error(t, err)

		got, err := svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 0, store.LedgerCount())

		// once the fault clears the same request can still be approved
		delete(store.FailOn, "ledger.Increment")
		_, err = svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.NoError(t, err)
		assert.Equal(t, 2, store.LedgerCount())
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.UpdateLeaveStatus(ctx, approveReq(ghostID))
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

		_, err = svc.UpdateLeaveStatus(ctx, approveReq("lr-missing"))
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestApplyApprovedLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("applies at most once", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, leave.ModeFull)
		_, err := svc.UpdateLeaveStatus(ctx, approveReq(req.ID))
		require.NoError(t, err)

		stored, err := store.LeaveRequests().GetByID(ctx, req.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LedgerAppliedAt)

		_, err = svc.ApplyApprovedLeave(ctx, stored)
		assert.ErrorIs(t, err, leave.ErrLeaveAlreadyApplied)

		summary, err := svc.GetEmployeeLeaves(ctx, ayuID, 2024)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(4).Equal(summary.Totals[leave.TypeCasual]))
	})

	t.Run("requires an approved request", func(t *testing.T) {
		svc, store := newTestService(t)
		req := requestLeave(t, svc, "2024-01-30", "2024-02-02", leave.TypeCasual, leave.ModeFull)

		stored, err := store.LeaveRequests().GetByID(ctx, req.ID)
		require.NoError(t, err)

		_, err = svc.ApplyApprovedLeave(ctx, stored)
		assert.ErrorIs(t, err, leave.ErrLeaveNotApproved)
		assert.Equal(t, 0, store.LedgerCount())
	})
}

func TestGetEmployeeLeaves(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.GetEmployeeLeaves(context.Background(), ayuID, 2024)
	require.NoError(t, err)
	assert.Empty(t, summary.Months)
	assert.Len(t, summary.Totals, len(leave.Types))

	_, err = svc.GetEmployeeLeaves(context.Background(), ayuID, 12)
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = svc.GetEmployeeLeaves(context.Background(), "abc", 2024)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListPending(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first := requestLeave(t, svc, "2024-01-30", "2024-01-30", leave.TypeCasual, leave.ModeFull)
	second := requestLeave(t, svc, "2024-02-05", "2024-02-05", leave.TypeSick, leave.ModeFull)
	_, err := svc.UpdateLeaveStatus(ctx, approveReq(first.ID))
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
