package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequestRepository_Lifecycle(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewLeaveRequestRepository(testDB)
	empID := createTestEmployee(t, ctx, employee.StatusActive)

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID:  empID,
		From:        date(2026, time.January, 30),
		To:          date(2026, time.February, 2),
		Type:        leave.TypeSick,
		Mode:        leave.ModeFull,
		Description: "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Nil(t, created.LedgerAppliedAt)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	decidedAt := time.Date(2026, time.January, 29, 9, 0, 0, 0, time.UTC)
	approved, err := repo.Decide(ctx, created.ID, leave.Decision{
		Status:    leave.StatusApproved,
		HRRemark:  "get well",
		DecidedBy: "admin-1",
		DecidedAt: decidedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Equal(t, "get well", approved.HRRemark)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)

	_, err = repo.Decide(ctx, created.ID, leave.Decision{Status: leave.StatusRejected, DecidedAt: decidedAt})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = repo.GetByID(ctx, "0190a4b2-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_MarkLedgerApplied_Once(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewLeaveRequestRepository(testDB)
	empID := createTestEmployee(t, ctx, employee.StatusActive)

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: empID,
		From:       date(2026, time.March, 2),
		To:         date(2026, time.March, 2),
		Type:       leave.TypeCasual,
		Mode:       leave.ModeHalf,
	})
	require.NoError(t, err)

	at := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkLedgerApplied(ctx, created.ID, at))
	assert.ErrorIs(t, repo.MarkLedgerApplied(ctx, created.ID, at.Add(time.Hour)), leave.ErrLeaveAlreadyApplied)
	assert.ErrorIs(t, repo.MarkLedgerApplied(ctx, "0190a4b2-0000-7000-8000-000000000000", at), leave.ErrLeaveRequestNotFound)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LedgerAppliedAt)
	assert.True(t, got.LedgerAppliedAt.Equal(at))
}

func TestLeaveLedgerRepository_IncrementIsAdditive(t *testing.T) {
	ctx := setupTestData(t)
	repo := postgresql.NewLeaveLedgerRepository(testDB)
	empID := createTestEmployee(t, ctx, employee.StatusActive)

	entry := leave.LedgerEntry{
		From: date(2026, time.January, 30),
		To:   date(2026, time.January, 31),
		Type: leave.TypeSick,
		Mode: leave.ModeFull,
	}

	first, err := repo.Increment(ctx, empID, 2026, 1, leave.TypeSick, decimal.NewFromInt(2), entry)
	require.NoError(t, err)
	assert.True(t, first.SickLeave.Equal(decimal.NewFromInt(2)))

	half := entry
	half.Mode = leave.ModeHalf
	half.Type = leave.TypeCasual
	second, err := repo.Increment(ctx, empID, 2026, 1, leave.TypeCasual, decimal.RequireFromString("0.5"), half)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.SickLeave.Equal(decimal.NewFromInt(2)))
	assert.True(t, second.CasualLeave.Equal(decimal.RequireFromString("0.5")))

	_, err = repo.Increment(ctx, empID, 2026, 2, leave.TypeSick, decimal.NewFromInt(1), entry)
	require.NoError(t, err)
	_, err = repo.Increment(ctx, empID, 2025, 12, leave.TypePaid, decimal.NewFromInt(3), entry)
	require.NoError(t, err)

	ledgers, err := repo.ListByEmployeeAndYear(ctx, empID, 2026)
	require.NoError(t, err)
	require.Len(t, ledgers, 2)
	assert.Equal(t, 1, ledgers[0].Month)
	assert.Equal(t, 2, ledgers[1].Month)
	require.Len(t, ledgers[0].Entries, 2)
	assert.Equal(t, leave.TypeSick, ledgers[0].Entries[0].Type)
	assert.Equal(t, leave.ModeHalf, ledgers[0].Entries[1].Mode)
	assert.True(t, ledgers[0].Entries[0].From.Equal(entry.From))
	assert.Len(t, ledgers[1].Entries, 1)
	assert.True(t, ledgers[1].PaidLeave.IsZero())

	none, err := repo.ListByEmployeeAndYear(ctx, empID, 2024)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := setupTestData(t)
	txManager := postgresql.NewTxManager(testDB)
	ledgerRepo := postgresql.NewLeaveLedgerRepository(testDB)
	empID := createTestEmployee(t, ctx, employee.StatusActive)
	entry := leave.LedgerEntry{From: date(2026, time.May, 4), To: date(2026, time.May, 4), Type: leave.TypePaid, Mode: leave.ModeFull}

	err := txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := ledgerRepo.Increment(txCtx, empID, 2026, 5, leave.TypePaid, decimal.NewFromInt(1), entry); err != nil {
			return err
		}
		return leave.ErrLeaveAlreadyApplied
	})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyApplied)

	ledgers, err := ledgerRepo.ListByEmployeeAndYear(ctx, empID, 2026)
	require.NoError(t, err)
	assert.Empty(t, ledgers)
}
