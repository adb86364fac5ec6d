// Package memory is an in-process Store used by tests and by the memory
// storage driver.
package memory

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// Store keeps every entity in maps guarded by one lock.
type Store struct {
	mu        sync.RWMutex
	seq       map[string]int64
	aircraft  map[int64]models.Aircraft
	employees map[int64]models.Employee
	services  map[int64]models.Service
	expenses  map[int64]models.Expense
	safras    map[int64]models.Safra
	snapshots []models.ReportSnapshot
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		seq:       make(map[string]int64),
		aircraft:  make(map[int64]models.Aircraft),
		employees: make(map[int64]models.Employee),
		services:  make(map[int64]models.Service),
		expenses:  make(map[int64]models.Expense),
		safras:    make(map[int64]models.Safra),
	}
}

func (s *Store) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

func sameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) CreateAircraft(_ context.Context, a models.Aircraft) (models.Aircraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.aircraft {
		if sameKey(existing.Registration, a.Registration) {
			return models.Aircraft{}, &models.ConflictError{Entity: "aircraft", Key: a.Registration}
		}
	}
	a.ID = s.next("aircraft")
	s.aircraft[a.ID] = a
	return a, nil
}

func (s *Store) FindAircraft(_ context.Context, id int64) (models.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.aircraft[id]
	if !ok {
		return models.Aircraft{}, &models.NotFoundError{Entity: "aircraft", ID: id}
	}
	return a, nil
}

func (s *Store) FindAircraftByRegistration(_ context.Context, registration string) (models.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.aircraft {
		if sameKey(a.Registration, registration) {
			return a, nil
		}
	}
	return models.Aircraft{}, &models.NotFoundError{Entity: "aircraft", ID: registration}
}

func (s *Store) ListAircraft(context.Context) ([]models.Aircraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.aircraft, func(a models.Aircraft) int64 { return a.ID }), nil
}

func (s *Store) UpdateAircraft(_ context.Context, a models.Aircraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aircraft[a.ID]; !ok {
		return &models.NotFoundError{Entity: "aircraft", ID: a.ID}
	}
	for _, existing := range s.aircraft {
		if existing.ID != a.ID && sameKey(existing.Registration, a.Registration) {
			return &models.ConflictError{Entity: "aircraft", Key: a.Registration}
		}
	}
	s.aircraft[a.ID] = a
	return nil
}

func (s *Store) DeleteAircraft(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aircraft[id]; !ok {
		return &models.NotFoundError{Entity: "aircraft", ID: id}
	}
	for _, svc := range s.services {
		if svc.AircraftID == id {
			return &models.ConflictError{Entity: "aircraft", Key: strconv.FormatInt(id, 10) + " is referenced by services"}
		}
	}
	for _, e := range s.expenses {
		if cost, ok := models.Cost(e); ok && cost.AircraftID != nil && *cost.AircraftID == id {
			return &models.ConflictError{Entity: "aircraft", Key: strconv.FormatInt(id, 10) + " is referenced by expenses"}
		}
	}
	delete(s.aircraft, id)
	return nil
}

func (s *Store) CreateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.employees {
		if sameKey(existing.Name, e.Name) {
			return models.Employee{}, &models.ConflictError{Entity: "employee", Key: e.Name}
		}
	}
	e.ID = s.next("employees")
	s.employees[e.ID] = e
	return e, nil
}

func (s *Store) FindEmployee(_ context.Context, id int64) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return models.Employee{}, &models.NotFoundError{Entity: "employee", ID: id}
	}
	return e, nil
}

func (s *Store) FindEmployeeByName(_ context.Context, name string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.employees {
		if sameKey(e.Name, name) {
			return e, nil
		}
	}
	return models.Employee{}, &models.NotFoundError{Entity: "employee", ID: name}
}

func (s *Store) ListEmployees(_ context.Context, role *models.EmployeeRole) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedByID(s.employees, func(e models.Employee) int64 { return e.ID })
	if role == nil {
		return all, nil
	}
	out := all[:0]
	for _, e := range all {
		if e.Role == *role {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) UpdateEmployee(_ context.Context, e models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[e.ID]; !ok {
		return &models.NotFoundError{Entity: "employee", ID: e.ID}
	}
	for _, existing := range s.employees {
		if existing.ID != e.ID && sameKey(existing.Name, e.Name) {
			return &models.ConflictError{Entity: "employee", Key: e.Name}
		}
	}
	s.employees[e.ID] = e
	return nil
}

func (s *Store) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return &models.NotFoundError{Entity: "employee", ID: id}
	}
	employee := id
	q := repository.ServiceQuery{EmployeeID: &employee}
	for _, svc := range s.services {
		if q.Match(svc) {
			return &models.ConflictError{Entity: "employee", Key: strconv.FormatInt(id, 10) + " is referenced by services"}
		}
	}
	delete(s.employees, id)
	return nil
}

func (s *Store) CreateService(_ context.Context, svc models.Service, commissions []models.CommissionExpense) (models.Service, []models.CommissionExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc.ID = s.next("services")
	s.services[svc.ID] = svc
	return svc, s.putCommissions(svc.ID, commissions), nil
}

func (s *Store) UpdateService(_ context.Context, svc models.Service, commissions []models.CommissionExpense) ([]models.CommissionExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[svc.ID]; !ok {
		return nil, &models.NotFoundError{Entity: "service", ID: svc.ID}
	}
	for id, e := range s.expenses {
		if c, ok := e.(models.CommissionExpense); ok && c.ServiceID == svc.ID {
			delete(s.expenses, id)
		}
	}
	s.services[svc.ID] = svc
	return s.putCommissions(svc.ID, commissions), nil
}

func (s *Store) putCommissions(serviceID int64, commissions []models.CommissionExpense) []models.CommissionExpense {
	out := make([]models.CommissionExpense, 0, len(commissions))
	for _, c := range commissions {
		c.ServiceID = serviceID
		c.ID = s.next("expenses")
		s.expenses[c.ID] = c
		out = append(out, c)
	}
	return out
}

func (s *Store) FindService(_ context.Context, id int64) (models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return models.Service{}, &models.NotFoundError{Entity: "service", ID: id}
	}
	return svc, nil
}

func (s *Store) ListServices(_ context.Context, q repository.ServiceQuery) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0)
	for _, svc := range s.services {
		if q.Match(svc) {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteServices(_ context.Context, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := s.services[id]; !ok {
			continue
		}
		delete(s.services, id)
		n++
	}
	for id, e := range s.expenses {
		if c, ok := e.(models.CommissionExpense); ok && slices.Contains(ids, c.ServiceID) {
			delete(s.expenses, id)
		}
	}
	return n, nil
}

func (s *Store) CreateExpense(_ context.Context, e models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e = models.WithExpenseID(e, s.next("expenses"))
	s.expenses[e.Common().ID] = e
	return e, nil
}

func (s *Store) FindExpense(_ context.Context, id int64) (models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "expense", ID: id}
	}
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, e models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.Common().ID
	if _, ok := s.expenses[id]; !ok {
		return &models.NotFoundError{Entity: "expense", ID: id}
	}
	s.expenses[id] = e
	return nil
}

func (s *Store) ListExpenses(_ context.Context, q repository.ExpenseQuery) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, 0)
	for _, e := range s.expenses {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Common(), out[j].Common()
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *Store) UpdateExpenseFields(_ context.Context, ids []int64, field string, value string) (int64, error) {
	if field != repository.FieldPaymentStatus {
		return 0, &models.ValidationError{Field: "field", Reason: "only " + repository.FieldPaymentStatus + " can be bulk updated"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		e, ok := s.expenses[id]
		if !ok {
			continue
		}
		s.expenses[id] = models.WithBase(e, func(b *models.ExpenseBase) { b.PaymentStatus = models.PaymentStatus(value) })
		n++
	}
	return n, nil
}

func (s *Store) DeleteExpenses(_ context.Context, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := s.expenses[id]; ok {
			delete(s.expenses, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateSafra(_ context.Context, sf models.Safra) (models.Safra, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf.ID = s.next("safras")
	s.safras[sf.ID] = sf
	return sf, nil
}

func (s *Store) FindSafra(_ context.Context, id int64) (models.Safra, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, ok := s.safras[id]
	if !ok {
		return models.Safra{}, &models.NotFoundError{Entity: "safra", ID: id}
	}
	return sf, nil
}

func (s *Store) ListSafras(context.Context) ([]models.Safra, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.safras, func(sf models.Safra) int64 { return sf.ID }), nil
}

func (s *Store) UpdateSafra(_ context.Context, sf models.Safra) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.safras[sf.ID]; !ok {
		return &models.NotFoundError{Entity: "safra", ID: sf.ID}
	}
	s.safras[sf.ID] = sf
	return nil
}

func (s *Store) DeleteSafra(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.safras[id]; !ok {
		return &models.NotFoundError{Entity: "safra", ID: id}
	}
	delete(s.safras, id)
	return nil
}

func (s *Store) SaveReportSnapshot(_ context.Context, snap models.ReportSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	return nil
}

// ListReportSnapshots returns the newest snapshots first.
func (s *Store) ListReportSnapshots(_ context.Context, limit int64) ([]models.ReportSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ReportSnapshot, 0, len(s.snapshots))
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, s.snapshots[i])
	}
	return out, nil
}

func sortedByID[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
