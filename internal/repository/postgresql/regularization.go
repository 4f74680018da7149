package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const regularizationColumns = `id, employee_id, date, request_type, requested_check_in_time, requested_check_out_time,
	reason, supporting_document, status, manager_remark, approved_by, approved_at, created_at, updated_at`

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.RegularizationRepository {
	return &regularizationRepository{db: db}
}

func scanRegularization(row pgx.Row) (regularization.Regularization, error) {
	var r regularization.Regularization
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.RequestType, &r.RequestedCheckInTime, &r.RequestedCheckOutTime,
		&r.Reason, &r.SupportingDocument, &r.Status, &r.ManagerRemark, &r.ApprovedBy, &r.ApprovedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements regularization.RegularizationRepository.
func (rr *regularizationRepository) Create(ctx context.Context, request regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, rr.db)

	id, err := uuid.NewV7()
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("generate regularization id: %w", err)
	}

	query := `
		INSERT INTO attendance_regularizations (
			id, employee_id, date, request_type, requested_check_in_time, requested_check_out_time,
			reason, supporting_document, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + regularizationColumns

	created, err := scanRegularization(q.QueryRow(ctx, query,
		id.String(), request.EmployeeID, request.Date, request.RequestType,
		request.RequestedCheckInTime, request.RequestedCheckOutTime,
		request.Reason, request.SupportingDocument, regularization.StatusPending,
	))
	if err != nil {
		if isUniqueViolation(err, "attendance_regularizations_active_key") {
			return regularization.Regularization{}, regularization.ErrRegularizationExists
		}
		return regularization.Regularization{}, fmt.Errorf("create regularization: %w", err)
	}
	return created, nil
}

// ExistsActive implements regularization.RegularizationRepository.
func (rr *regularizationRepository) ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, rr.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_regularizations
			WHERE employee_id = $1 AND date = $2 AND status IN ('pending', 'approved')
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active regularization: %w", err)
	}
	return exists, nil
}

// GetByID implements regularization.RegularizationRepository.
func (rr *regularizationRepository) GetByID(ctx context.Context, id string) (regularization.Regularization, error) {
	q := GetQuerier(ctx, rr.db)

	r, err := scanRegularization(q.QueryRow(ctx, `SELECT `+regularizationColumns+` FROM attendance_regularizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrRegularizationNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("get regularization: %w", err)
	}
	return r, nil
}

// Decide implements regularization.RegularizationRepository.
func (rr *regularizationRepository) Decide(ctx context.Context, id string, decision regularization.Decision) (regularization.Regularization, error) {
	q := GetQuerier(ctx, rr.db)

	query := `
		UPDATE attendance_regularizations
		SET status = $2, manager_remark = $3, approved_by = $4, approved_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + regularizationColumns

	r, err := scanRegularization(q.QueryRow(ctx, query, id, decision.Status, decision.ManagerRemark, decision.DecidedBy, decision.DecidedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, rr.notPendingError(ctx, id)
		}
		return regularization.Regularization{}, fmt.Errorf("decide regularization: %w", err)
	}
	return r, nil
}

// DeletePending implements regularization.RegularizationRepository.
func (rr *regularizationRepository) DeletePending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, rr.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_regularizations WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("delete regularization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rr.notPendingError(ctx, id)
	}
	return nil
}

// notPendingError tells a missing request apart from one that was already decided.
func (rr *regularizationRepository) notPendingError(ctx context.Context, id string) error {
	if _, err := rr.GetByID(ctx, id); err != nil {
		return err
	}
	return regularization.ErrAlreadyProcessed
}

// ListPending implements regularization.RegularizationRepository.
func (rr *regularizationRepository) ListPending(ctx context.Context) ([]regularization.Regularization, error) {
	q := GetQuerier(ctx, rr.db)

	rows, err := q.Query(ctx, `
		SELECT `+regularizationColumns+`
		FROM attendance_regularizations
		WHERE status = 'pending'
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending regularizations: %w", err)
	}
	return collectRegularizations(rows)
}

// ListByEmployee implements regularization.RegularizationRepository.
func (rr *regularizationRepository) ListByEmployee(ctx context.Context, filter regularization.ListFilter) ([]regularization.Regularization, int64, error) {
	q := GetQuerier(ctx, rr.db)

	where := `WHERE employee_id = $1 AND ($2::text = '' OR status = $2::text)`

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_regularizations `+where, filter.EmployeeID, filter.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count regularizations: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+regularizationColumns+`
		FROM attendance_regularizations `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, filter.EmployeeID, filter.Status, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list regularizations: %w", err)
	}

	items, err := collectRegularizations(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collectRegularizations(rows pgx.Rows) ([]regularization.Regularization, error) {
	defer rows.Close()

	items := make([]regularization.Regularization, 0)
	for rows.Next() {
		r, err := scanRegularization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regularization: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read regularizations: %w", err)
	}
	return items, nil
}
