package regularization

import "context"

type RegularizationService interface {
	// Submit validates and stores a pending request
	Submit(ctx context.Context, req SubmitRequest) (RegularizationResponse, error)

	// Decide approves or rejects a pending request. Approval reconciles the
	// attendance record in the same transaction.
	Decide(ctx context.Context, req DecideRequest) (DecisionResponse, error)

	Get(ctx context.Context, id string) (RegularizationResponse, error)
	ListPending(ctx context.Context) ([]RegularizationResponse, error)
	ListByEmployee(ctx context.Context, filter ListFilter) (ListRegularizationResponse, error)

	// Delete removes a request that has not been decided yet
	Delete(ctx context.Context, id string) error
}
