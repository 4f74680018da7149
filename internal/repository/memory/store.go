// Package memory holds map-backed repositories for service and handler tests.
// WithinTransaction snapshots the store and restores it when fn fails, so
// rollback behaviour matches the PostgreSQL implementation. Repository calls
// made outside a transaction wait for any running transaction to finish, so a
// rollback never discards their writes.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type ledgerKey struct {
	employeeID string
	year       int
	month      int
}

type state struct {
	employees       map[string]employee.Employee
	attendances     map[string]attendance.Attendance
	regularizations map[string]regularization.Regularization
	leaveRequests   map[string]leave.LeaveRequest
	ledgers         map[ledgerKey]leave.Ledger
}

func (s state) clone() state {
	c := state{
		employees:       make(map[string]employee.Employee, len(s.employees)),
		attendances:     make(map[string]attendance.Attendance, len(s.attendances)),
		regularizations: make(map[string]regularization.Regularization, len(s.regularizations)),
		leaveRequests:   make(map[string]leave.LeaveRequest, len(s.leaveRequests)),
		ledgers:         make(map[ledgerKey]leave.Ledger, len(s.ledgers)),
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.attendances {
		c.attendances[k] = v
	}
	for k, v := range s.regularizations {
		c.regularizations[k] = v
	}
	for k, v := range s.leaveRequests {
		c.leaveRequests[k] = v
	}
	for k, v := range s.ledgers {
		v.Entries = append([]leave.LedgerEntry(nil), v.Entries...)
		c.ledgers[k] = v
	}
	return c
}

// Store is the shared backing state of every repository in this package.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	seq   int
	state state

	// FailOn makes the named operation return an error, for rollback tests.
	FailOn map[string]error
}

func NewStore() *Store {
	return &Store{
		state:  state{}.clone(),
		FailOn: make(map[string]error),
	}
}

// nextID returns a fresh UUIDv7. seq also orders CreatedAt of rows created within one clock tick.
func (s *Store) nextID() string {
	s.seq++
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

type txKey struct{}

// lock takes mu, and txMu as well when ctx is not inside WithinTransaction.
func (s *Store) lock(ctx context.Context) (unlock func()) {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// WithinTransaction implements database.TxManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	// transactions are serialized against each other and against non-tx calls
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ database.TxManager = (*Store)(nil)

// AddEmployee seeds an employee.
func (s *Store) AddEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Status == "" {
		e.Status = employee.StatusActive
	}
	s.state.employees[e.ID] = e
}

// Employee returns a seeded employee as currently stored.
func (s *Store) Employee(id string) (employee.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.employees[id]
	return e, ok
}

// AttendanceCount returns the number of stored attendance records.
func (s *Store) AttendanceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.attendances)
}

// LedgerCount returns the number of stored monthly ledgers.
func (s *Store) LedgerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.ledgers)
}
