// Package repository declares the storage contract the services depend on.
// Implementations live in the mongodb and memory subpackages.
package repository

import (
	"context"
	"slices"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// FieldPaymentStatus is the only expense field that can be bulk updated.
const FieldPaymentStatus = "payment_status"

// ServiceQuery narrows ListServices. Zero fields do not constrain. Range
// matches on the service start date.
type ServiceQuery struct {
	IDs        []int64
	AircraftID *int64
	EmployeeID *int64
	Range      *models.DateRange
}

// Match reports whether s satisfies the query.
func (q ServiceQuery) Match(s models.Service) bool {
	if len(q.IDs) > 0 && !slices.Contains(q.IDs, s.ID) {
		return false
	}
	if q.AircraftID != nil && s.AircraftID != *q.AircraftID {
		return false
	}
	if q.EmployeeID != nil && s.PilotID != *q.EmployeeID &&
		(s.SecondaryEmployeeID == nil || *s.SecondaryEmployeeID != *q.EmployeeID) {
		return false
	}
	if q.Range != nil && !q.Range.Contains(s.StartDate) {
		return false
	}
	return true
}

// ExpenseQuery narrows ListExpenses. Zero fields do not constrain.
// AircraftID only matches cost expenses linked directly to the aircraft.
type ExpenseQuery struct {
	Origin     models.Origin
	AircraftID *int64
	EmployeeID *int64
	ServiceIDs []int64
	Range      *models.DateRange
}

// Match reports whether e satisfies the query.
func (q ExpenseQuery) Match(e models.Expense) bool {
	if q.Origin != "" && e.Origin() != q.Origin {
		return false
	}
	if q.Range != nil && !q.Range.Contains(e.Common().Date) {
		return false
	}
	if q.AircraftID != nil {
		cost, ok := models.Cost(e)
		if !ok || cost.AircraftID == nil || *cost.AircraftID != *q.AircraftID {
			return false
		}
	}
	if q.EmployeeID != nil || len(q.ServiceIDs) > 0 {
		c, ok := e.(models.CommissionExpense)
		if !ok {
			return false
		}
		if q.EmployeeID != nil && c.EmployeeID != *q.EmployeeID {
			return false
		}
		if len(q.ServiceIDs) > 0 && !slices.Contains(q.ServiceIDs, c.ServiceID) {
			return false
		}
	}
	return true
}

type AircraftStore interface {
	CreateAircraft(ctx context.Context, a models.Aircraft) (models.Aircraft, error)
	FindAircraft(ctx context.Context, id int64) (models.Aircraft, error)
	FindAircraftByRegistration(ctx context.Context, registration string) (models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
	UpdateAircraft(ctx context.Context, a models.Aircraft) error
	DeleteAircraft(ctx context.Context, id int64) error
}

type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error)
	FindEmployee(ctx context.Context, id int64) (models.Employee, error)
	FindEmployeeByName(ctx context.Context, name string) (models.Employee, error)
	// ListEmployees returns every employee, or only those holding role when
	// it is set.
	ListEmployees(ctx context.Context, role *models.EmployeeRole) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, e models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
}

type ServiceStore interface {
	// CreateService assigns the service id, links the commissions to it and
	// persists all of them atomically.
	CreateService(ctx context.Context, svc models.Service, commissions []models.CommissionExpense) (models.Service, []models.CommissionExpense, error)
	// UpdateService replaces the service and its commission expenses
	// atomically.
	UpdateService(ctx context.Context, svc models.Service, commissions []models.CommissionExpense) ([]models.CommissionExpense, error)
	FindService(ctx context.Context, id int64) (models.Service, error)
	ListServices(ctx context.Context, q ServiceQuery) ([]models.Service, error)
	// DeleteServices removes the services and every expense linked to them.
	DeleteServices(ctx context.Context, ids []int64) (int64, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error)
	FindExpense(ctx context.Context, id int64) (models.Expense, error)
	UpdateExpense(ctx context.Context, e models.Expense) error
	ListExpenses(ctx context.Context, q ExpenseQuery) ([]models.Expense, error)
	// UpdateExpenseFields sets field to value on every listed expense and
	// returns how many matched.
	UpdateExpenseFields(ctx context.Context, ids []int64, field string, value string) (int64, error)
	DeleteExpenses(ctx context.Context, ids []int64) (int64, error)
}

type SafraStore interface {
	CreateSafra(ctx context.Context, s models.Safra) (models.Safra, error)
	FindSafra(ctx context.Context, id int64) (models.Safra, error)
	ListSafras(ctx context.Context) ([]models.Safra, error)
	UpdateSafra(ctx context.Context, s models.Safra) error
	DeleteSafra(ctx context.Context, id int64) error
}

type SnapshotStore interface {
	SaveReportSnapshot(ctx context.Context, snap models.ReportSnapshot) error
	ListReportSnapshots(ctx context.Context, limit int64) ([]models.ReportSnapshot, error)
}

// Store is everything the application persists.
type Store interface {
	AircraftStore
	EmployeeStore
	ServiceStore
	ExpenseStore
	SafraStore
	SnapshotStore
	Close(ctx context.Context) error
}
