package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/regularization"
)

type regularizationRepository struct {
	s *Store
}

func (s *Store) Regularizations() regularization.RegularizationRepository {
	return regularizationRepository{s: s}
}

// activeExists must be called with mu held.
func (r regularizationRepository) activeExists(employeeID string, date time.Time) bool {
	for _, reg := range r.s.state.regularizations {
		if reg.EmployeeID == employeeID && reg.Date.Equal(date) &&
			(reg.Status == regularization.StatusPending || reg.Status == regularization.StatusApproved) {
			return true
		}
	}
	return false
}

func (r regularizationRepository) Create(ctx context.Context, request regularization.Regularization) (regularization.Regularization, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("regularization.Create"); err != nil {
		return regularization.Regularization{}, err
	}

	if r.activeExists(request.EmployeeID, request.Date) {
		return regularization.Regularization{}, regularization.ErrRegularizationExists
	}
	now := time.Now()
	request.ID = r.s.nextID()
	request.Status = regularization.StatusPending
	request.CreatedAt = now.Add(time.Duration(r.s.seq))
	request.UpdatedAt = request.CreatedAt
	r.s.state.regularizations[request.ID] = request
	return request, nil
}

func (r regularizationRepository) ExistsActive(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	defer r.s.lock(ctx)()
	return r.activeExists(employeeID, date), nil
}

func (r regularizationRepository) GetByID(ctx context.Context, id string) (regularization.Regularization, error) {
	defer r.s.lock(ctx)()

	reg, ok := r.s.state.regularizations[id]
	if !ok {
		return regularization.Regularization{}, regularization.ErrRegularizationNotFound
	}
	return reg, nil
}

func (r regularizationRepository) Decide(ctx context.Context, id string, decision regularization.Decision) (regularization.Regularization, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fail("regularization.Decide"); err != nil {
		return regularization.Regularization{}, err
	}

	reg, ok := r.s.state.regularizations[id]
	if !ok {
		return regularization.Regularization{}, regularization.ErrRegularizationNotFound
	}
	if !reg.IsPending() {
		return regularization.Regularization{}, regularization.ErrAlreadyProcessed
	}
	decidedBy, decidedAt := decision.DecidedBy, decision.DecidedAt
	reg.Status = decision.Status
	reg.ManagerRemark = decision.ManagerRemark
	reg.ApprovedBy = &decidedBy
	reg.ApprovedAt = &decidedAt
	reg.UpdatedAt = time.Now()
	r.s.state.regularizations[id] = reg
	return reg, nil
}

func (r regularizationRepository) DeletePending(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	reg, ok := r.s.state.regularizations[id]
	if !ok {
		return regularization.ErrRegularizationNotFound
	}
	if !reg.IsPending() {
		return regularization.ErrAlreadyProcessed
	}
	delete(r.s.state.regularizations, id)
	return nil
}

func (r regularizationRepository) ListPending(ctx context.Context) ([]regularization.Regularization, error) {
	defer r.s.lock(ctx)()

	items := make([]regularization.Regularization, 0)
	for _, reg := range r.s.state.regularizations {
		if reg.IsPending() {
			items = append(items, reg)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r regularizationRepository) ListByEmployee(ctx context.Context, filter regularization.ListFilter) ([]regularization.Regularization, int64, error) {
	defer r.s.lock(ctx)()

	matched := make([]regularization.Regularization, 0)
	for _, reg := range r.s.state.regularizations {
		if reg.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && string(reg.Status) != filter.Status {
			continue
		}
		matched = append(matched, reg)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
