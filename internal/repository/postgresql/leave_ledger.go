package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const leaveLedgerColumns = `id, employee_id, month, year, casual_leave, sick_leave, paid_leave, emergency_leave, created_at, updated_at`

type leaveLedgerRepositoryImpl struct {
	db *database.DB
}

func NewLeaveLedgerRepository(db *database.DB) leave.LeaveLedgerRepository {
	return &leaveLedgerRepositoryImpl{db: db}
}

// Increment implements leave.LeaveLedgerRepository.
func (r *leaveLedgerRepositoryImpl) Increment(ctx context.Context, employeeID string, year, month int, leaveType leave.Type, amount decimal.Decimal, entry leave.LedgerEntry) (leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Ledger{}, fmt.Errorf("generate ledger id: %w", err)
	}

	// exactly one of the four deltas is non-zero
	deltas := make(map[leave.Type]decimal.Decimal, len(leave.Types))
	for _, t := range leave.Types {
		deltas[t] = decimal.Zero
	}
	deltas[leaveType] = amount

	query := `
		INSERT INTO leave_ledgers (id, employee_id, month, year, casual_leave, sick_leave, paid_leave, emergency_leave)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			casual_leave = leave_ledgers.casual_leave + EXCLUDED.casual_leave,
			sick_leave = leave_ledgers.sick_leave + EXCLUDED.sick_leave,
			paid_leave = leave_ledgers.paid_leave + EXCLUDED.paid_leave,
			emergency_leave = leave_ledgers.emergency_leave + EXCLUDED.emergency_leave,
			updated_at = NOW()
		RETURNING ` + leaveLedgerColumns

	var ledger leave.Ledger
	err = q.QueryRow(ctx, query,
		id.String(), employeeID, month, year,
		deltas[leave.TypeCasual], deltas[leave.TypeSick], deltas[leave.TypePaid], deltas[leave.TypeEmergency],
	).Scan(
		&ledger.ID, &ledger.EmployeeID, &ledger.Month, &ledger.Year,
		&ledger.CasualLeave, &ledger.SickLeave, &ledger.PaidLeave, &ledger.EmergencyLeave,
		&ledger.CreatedAt, &ledger.UpdatedAt,
	)
	if err != nil {
		return leave.Ledger{}, fmt.Errorf("upsert leave ledger %d-%02d: %w", year, month, err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO leave_ledger_entries (ledger_id, from_date, to_date, type, mode, description, file)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ledger.ID, entry.From, entry.To, entry.Type, entry.Mode, entry.Description, entry.File)
	if err != nil {
		return leave.Ledger{}, fmt.Errorf("append leave ledger entry: %w", err)
	}

	return ledger, nil
}

// ListByEmployeeAndYear implements leave.LeaveLedgerRepository.
func (r *leaveLedgerRepositoryImpl) ListByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveLedgerColumns+`
		FROM leave_ledgers
		WHERE employee_id = $1 AND year = $2
		ORDER BY month
	`, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("list leave ledgers: %w", err)
	}

	ledgers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (leave.Ledger, error) {
		var l leave.Ledger
		err := row.Scan(
			&l.ID, &l.EmployeeID, &l.Month, &l.Year,
			&l.CasualLeave, &l.SickLeave, &l.PaidLeave, &l.EmergencyLeave,
			&l.CreatedAt, &l.UpdatedAt,
		)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan leave ledgers: %w", err)
	}
	if len(ledgers) == 0 {
		return ledgers, nil
	}

	index := make(map[string]int, len(ledgers))
	ids := make([]string, len(ledgers))
	for i, l := range ledgers {
		index[l.ID] = i
		ids[i] = l.ID
		ledgers[i].Entries = make([]leave.LedgerEntry, 0)
	}

	entryRows, err := q.Query(ctx, `
		SELECT ledger_id, from_date, to_date, type, mode, description, file
		FROM leave_ledger_entries
		WHERE ledger_id = ANY($1::uuid[])
		ORDER BY seq
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list leave ledger entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var ledgerID string
		var e leave.LedgerEntry
		if err := entryRows.Scan(&ledgerID, &e.From, &e.To, &e.Type, &e.Mode, &e.Description, &e.File); err != nil {
			return nil, fmt.Errorf("scan leave ledger entry: %w", err)
		}
		i := index[ledgerID]
		ledgers[i].Entries = append(ledgers[i].Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("read leave ledger entries: %w", err)
	}

	return ledgers, nil
}
