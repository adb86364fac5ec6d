package reporting

import (
	"context"
	"fmt"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/filter"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// DefaultPageSize applies when a listing asks for no limit.
const DefaultPageSize = 50

// MaxPageSize caps a single listing page.
const MaxPageSize = 500

// ListQuery narrows and pages a listing. Filters are ANDed field filters,
// Search matches any field.
type ListQuery struct {
	Range      *models.DateRange
	Origin     models.Origin
	AircraftID *int64
	EmployeeID *int64
	Filters    map[string]string
	Search     string
	Offset     int
	Limit      int
}

func (q ListQuery) window(total int) (int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Page is one slice of a filtered listing.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ServiceView is a service with its references resolved for display.
type ServiceView struct {
	models.Service
	AircraftName          string `json:"aircraft_name"`
	PilotName             string `json:"pilot_name"`
	SecondaryEmployeeName string `json:"secondary_employee_name,omitempty"`
}

// ExpenseView is an expense with its references resolved for display.
type ExpenseView struct {
	models.ExpenseRecord
	AircraftName string `json:"aircraft_name,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	ServiceName  string `json:"service_name,omitempty"`
}

// ListServices returns the page of services matching q.
func (s *Service) ListServices(ctx context.Context, q ListQuery) (Page[ServiceView], error) {
	if q.Range != nil {
		if err := q.Range.Validate(); err != nil {
			return Page[ServiceView]{}, err
		}
	}
	services, err := s.store.ListServices(ctx, repository.ServiceQuery{
		AircraftID: q.AircraftID,
		EmployeeID: q.EmployeeID,
		Range:      q.Range,
	})
	if err != nil {
		return Page[ServiceView]{}, fmt.Errorf("load services: %w", err)
	}
	lookup, err := s.lookup(ctx, nil)
	if err != nil {
		return Page[ServiceView]{}, err
	}

	matched := make([]models.Service, 0, len(services))
	for _, svc := range services {
		fields := lookup.ServiceFields(svc)
		if filter.Matches(fields, q.Filters) && filter.Search(fields, q.Search) {
			matched = append(matched, svc)
		}
	}

	start, end := q.window(len(matched))
	page := Page[ServiceView]{Items: make([]ServiceView, 0, end-start), Total: len(matched), Offset: start, Limit: end - start}
	for _, svc := range matched[start:end] {
		view := ServiceView{Service: svc}
		if a, ok := lookup.Aircraft[svc.AircraftID]; ok {
			view.AircraftName = a.Descriptor()
		}
		if e, ok := lookup.Employees[svc.PilotID]; ok {
			view.PilotName = e.Descriptor()
		}
		if svc.SecondaryEmployeeID != nil {
			if e, ok := lookup.Employees[*svc.SecondaryEmployeeID]; ok {
				view.SecondaryEmployeeName = e.Descriptor()
			}
		}
		page.Items = append(page.Items, view)
	}
	return page, nil
}

// ListExpenses returns the page of expenses matching q.
func (s *Service) ListExpenses(ctx context.Context, q ListQuery) (Page[ExpenseView], error) {
	if q.Origin != "" && !q.Origin.Valid() {
		return Page[ExpenseView]{}, &models.ValidationError{Field: "origin", Reason: "unknown origin " + string(q.Origin)}
	}
	if q.Range != nil {
		if err := q.Range.Validate(); err != nil {
			return Page[ExpenseView]{}, err
		}
	}
	expenses, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{
		Origin:     q.Origin,
		AircraftID: q.AircraftID,
		EmployeeID: q.EmployeeID,
		Range:      q.Range,
	})
	if err != nil {
		return Page[ExpenseView]{}, fmt.Errorf("load expenses: %w", err)
	}

	var serviceIDs []int64
	for _, e := range expenses {
		if c, ok := e.(models.CommissionExpense); ok {
			serviceIDs = append(serviceIDs, c.ServiceID)
		}
	}
	lookup, err := s.lookup(ctx, serviceIDs)
	if err != nil {
		return Page[ExpenseView]{}, err
	}

	matched := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		fields := lookup.ExpenseFields(e)
		if filter.Matches(fields, q.Filters) && filter.Search(fields, q.Search) {
			matched = append(matched, e)
		}
	}

	start, end := q.window(len(matched))
	page := Page[ExpenseView]{Items: make([]ExpenseView, 0, end-start), Total: len(matched), Offset: start, Limit: end - start}
	for _, e := range matched[start:end] {
		fields := lookup.ExpenseFields(e)
		page.Items = append(page.Items, ExpenseView{
			ExpenseRecord: models.FlattenExpense(e),
			AircraftName:  fields[filter.KeyAircraftName].String(),
			EmployeeName:  fields[filter.KeyEmployeeName].String(),
			ServiceName:   fields[filter.KeyServiceName].String(),
		})
	}
	return page, nil
}

// lookup loads the reference data listings resolve against. serviceIDs names
// the services commission rows point at; nil skips loading services.
func (s *Service) lookup(ctx context.Context, serviceIDs []int64) (filter.Lookup, error) {
	aircraft, err := s.store.ListAircraft(ctx)
	if err != nil {
		return filter.Lookup{}, fmt.Errorf("load aircraft: %w", err)
	}
	employees, err := s.store.ListEmployees(ctx, nil)
	if err != nil {
		return filter.Lookup{}, fmt.Errorf("load employees: %w", err)
	}
	var services []models.Service
	if len(serviceIDs) > 0 {
		services, err = s.store.ListServices(ctx, repository.ServiceQuery{IDs: serviceIDs})
		if err != nil {
			return filter.Lookup{}, fmt.Errorf("load services: %w", err)
		}
	}
	return filter.NewLookup(aircraft, employees, services), nil
}
