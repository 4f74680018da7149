package regularization

import (
	"context"
	"time"
)

type RegularizationRepository interface {
	// Create stores a pending request. Returns ErrRegularizationExists when the
	// employee already has a pending or approved request for the date.
	Create(ctx context.Context, request Regularization) (Regularization, error)

	// ExistsActive reports whether a pending or approved request exists for (employee, date).
	ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error)

	GetByID(ctx context.Context, id string) (Regularization, error)

	// Decide moves a pending request to its terminal status. Returns
	// ErrRegularizationNotFound or ErrAlreadyProcessed when no pending row matches.
	Decide(ctx context.Context, id string, decision Decision) (Regularization, error)

	// DeletePending removes a request that is still pending.
	DeletePending(ctx context.Context, id string) error

	// ListPending returns pending requests, oldest first.
	ListPending(ctx context.Context) ([]Regularization, error)

	// ListByEmployee returns one employee's requests, newest first, with the total count.
	ListByEmployee(ctx context.Context, filter ListFilter) ([]Regularization, int64, error)
}
