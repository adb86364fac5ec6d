// Package reporting serves the read side: balance and aircraft reports,
// dashboard aggregates and filtered listings. It loads explicit snapshots
// from the store and hands them to the finance folds.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// Store is the storage the read paths need.
type Store interface {
	FindAircraft(ctx context.Context, id int64) (models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
	ListEmployees(ctx context.Context, role *models.EmployeeRole) ([]models.Employee, error)
	ListServices(ctx context.Context, q repository.ServiceQuery) ([]models.Service, error)
	ListExpenses(ctx context.Context, q repository.ExpenseQuery) ([]models.Expense, error)
	FindSafra(ctx context.Context, id int64) (models.Safra, error)
	SaveReportSnapshot(ctx context.Context, snap models.ReportSnapshot) error
	ListReportSnapshots(ctx context.Context, limit int64) ([]models.ReportSnapshot, error)
}

// Service exposes reports over the persisted services and expenses.
type Service struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, now: time.Now, logger: logger}
}

// ResolveRange picks the reporting window: the safra's bounds when safraID
// is set, otherwise the parsed start and end.
func (s *Service) ResolveRange(ctx context.Context, start, end string, safraID *int64) (models.DateRange, error) {
	if safraID != nil {
		sf, err := s.store.FindSafra(ctx, *safraID)
		if err != nil {
			return models.DateRange{}, err
		}
		r := sf.Range()
		return r, r.Validate()
	}
	return models.ParseDateRange(start, end)
}

// Balance computes the balance of r, fleet wide or for one aircraft.
func (s *Service) Balance(ctx context.Context, r models.DateRange, aircraftID *int64) (finance.BalanceReport, error) {
	if err := r.Validate(); err != nil {
		return finance.BalanceReport{}, err
	}
	if aircraftID != nil {
		if _, err := s.store.FindAircraft(ctx, *aircraftID); err != nil {
			return finance.BalanceReport{}, err
		}
	}

	services, expenses, err := s.loadPeriod(ctx, r)
	if err != nil {
		return finance.BalanceReport{}, err
	}

	report, err := finance.ComputeBalance(services, expenses, aircraftID, r)
	if err != nil {
		return finance.BalanceReport{}, err
	}
	s.logger.Debug("balance computed",
		zap.Time("start", r.Start), zap.Time("end", r.End),
		zap.Int("services", len(services)), zap.Int("expenses", len(expenses)))
	return report, nil
}

// AircraftReport computes the performance report of one aircraft over r.
func (s *Service) AircraftReport(ctx context.Context, aircraftID int64, r models.DateRange) (finance.AircraftReport, error) {
	aircraft, err := s.store.FindAircraft(ctx, aircraftID)
	if err != nil {
		return finance.AircraftReport{}, err
	}
	if err := r.Validate(); err != nil {
		return finance.AircraftReport{}, err
	}

	services, err := s.store.ListServices(ctx, repository.ServiceQuery{AircraftID: &aircraftID, Range: &r})
	if err != nil {
		return finance.AircraftReport{}, fmt.Errorf("load services of aircraft %d: %w", aircraftID, err)
	}
	if len(services) == 0 {
		return finance.EmptyAircraftReport(), nil
	}

	costs, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{AircraftID: &aircraftID, Range: &r})
	if err != nil {
		return finance.AircraftReport{}, fmt.Errorf("load expenses of aircraft %d: %w", aircraftID, err)
	}
	ids := make([]int64, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	commissions, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{Origin: models.OriginCommission, ServiceIDs: ids})
	if err != nil {
		return finance.AircraftReport{}, fmt.Errorf("load commissions of aircraft %d: %w", aircraftID, err)
	}
	employees, err := s.store.ListEmployees(ctx, nil)
	if err != nil {
		return finance.AircraftReport{}, fmt.Errorf("load employees: %w", err)
	}

	return finance.ComputeAircraftReport(aircraft, employees, services, append(costs, commissions...), r)
}

// CategoryBreakdown splits the expenses of r by origin.
func (s *Service) CategoryBreakdown(ctx context.Context, r models.DateRange) (finance.CategoryBreakdown, error) {
	if err := r.Validate(); err != nil {
		return finance.CategoryBreakdown{}, err
	}
	expenses, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{Range: &r})
	if err != nil {
		return finance.CategoryBreakdown{}, fmt.Errorf("load expenses: %w", err)
	}
	return finance.BreakdownByCategory(expenses, nil), nil
}

// CommissionsByEmployee totals the commissions of r per employee.
func (s *Service) CommissionsByEmployee(ctx context.Context, r models.DateRange) ([]finance.EmployeeTotal, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{Origin: models.OriginCommission, Range: &r})
	if err != nil {
		return nil, fmt.Errorf("load commissions: %w", err)
	}
	employees, err := s.store.ListEmployees(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return finance.CommissionsByEmployee(expenses, employees, nil), nil
}

// Dashboard groups every chart of the dashboard over one range.
type Dashboard struct {
	Range                 models.DateRange               `json:"range"`
	Balance               finance.BalanceReport          `json:"balance"`
	Categories            finance.CategoryBreakdown      `json:"categories"`
	CommissionsByEmployee []finance.EmployeeTotal        `json:"commissions_by_employee"`
	RevenueByAircraft     []finance.AircraftTotal        `json:"revenue_by_aircraft"`
	ProfitByAircraft      []finance.AircraftTotal        `json:"profit_by_aircraft"`
	ExpensesByAircraft    []finance.AircraftTotal        `json:"expenses_by_aircraft"`
	ServicesByEmployee    []finance.EmployeeServiceCount `json:"services_by_employee"`
	DailyRevenue          []finance.DayTotal             `json:"daily_revenue"`
}

// Rounded returns the dashboard with every amount rounded to cents.
func (d Dashboard) Rounded() Dashboard {
	out := d
	out.Balance = d.Balance.Rounded()
	out.Categories = d.Categories.Rounded()
	out.CommissionsByEmployee = finance.RoundEmployeeTotals(d.CommissionsByEmployee)
	out.RevenueByAircraft = finance.RoundAircraftTotals(d.RevenueByAircraft)
	out.ProfitByAircraft = finance.RoundAircraftTotals(d.ProfitByAircraft)
	out.ExpensesByAircraft = finance.RoundAircraftTotals(d.ExpensesByAircraft)
	out.DailyRevenue = finance.RoundDayTotals(d.DailyRevenue)
	return out
}

// Dashboard computes every dashboard aggregate of r from one snapshot.
func (s *Service) Dashboard(ctx context.Context, r models.DateRange) (Dashboard, error) {
	if err := r.Validate(); err != nil {
		return Dashboard{}, err
	}
	services, expenses, err := s.loadPeriod(ctx, r)
	if err != nil {
		return Dashboard{}, err
	}
	aircraft, err := s.store.ListAircraft(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load aircraft: %w", err)
	}
	employees, err := s.store.ListEmployees(ctx, nil)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load employees: %w", err)
	}

	balance, err := finance.ComputeBalance(services, expenses, nil, r)
	if err != nil {
		return Dashboard{}, err
	}
	inRange := finance.StartedIn(r)
	return Dashboard{
		Range:                 r,
		Balance:               balance,
		Categories:            finance.BreakdownByCategory(expenses, nil),
		CommissionsByEmployee: finance.CommissionsByEmployee(expenses, employees, nil),
		RevenueByAircraft:     finance.RevenueByAircraft(services, aircraft, inRange),
		ProfitByAircraft:      finance.ProfitByAircraft(services, aircraft, inRange),
		ExpensesByAircraft:    finance.ExpensesByAircraft(expenses, aircraft, finance.IndexServices(services), nil),
		ServicesByEmployee:    finance.ServicesByEmployee(services, employees, inRange),
		DailyRevenue:          finance.DailyRevenue(services, inRange),
	}, nil
}

// CurrentMonth is the unclamped result of the calendar month containing now.
func (s *Service) CurrentMonth(ctx context.Context) (finance.PeriodResult, error) {
	r := models.MonthRange(s.now())
	services, expenses, err := s.loadPeriod(ctx, r)
	if err != nil {
		return finance.PeriodResult{}, err
	}
	return finance.ComputePeriodResult(services, expenses, r)
}

// Snapshot computes the fleet balance of r and persists it under label.
func (s *Service) Snapshot(ctx context.Context, label string, r models.DateRange) (models.ReportSnapshot, error) {
	balance, err := s.Balance(ctx, r, nil)
	if err != nil {
		return models.ReportSnapshot{}, err
	}
	snap := models.ReportSnapshot{
		Label:         label,
		PeriodStart:   r.Start,
		PeriodEnd:     r.End,
		GrossRevenue:  balance.GrossRevenue,
		TotalExpenses: balance.TotalExpenses,
		FuelCost:      balance.FuelCost,
		OilCost:       balance.OilCost,
		NetProfit:     balance.NetProfit,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.SaveReportSnapshot(ctx, snap); err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.Info("report snapshot saved", zap.String("label", label), zap.String("net_profit", snap.NetProfit.String()))
	return snap, nil
}

// Snapshots lists persisted snapshots, newest first.
func (s *Service) Snapshots(ctx context.Context, limit int64) ([]models.ReportSnapshot, error) {
	return s.store.ListReportSnapshots(ctx, limit)
}

// loadPeriod fetches the services started in r, the expenses dated in r and
// any service those expenses' commissions refer to.
func (s *Service) loadPeriod(ctx context.Context, r models.DateRange) ([]models.Service, []models.Expense, error) {
	services, err := s.store.ListServices(ctx, repository.ServiceQuery{Range: &r})
	if err != nil {
		return nil, nil, fmt.Errorf("load services: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{Range: &r})
	if err != nil {
		return nil, nil, fmt.Errorf("load expenses: %w", err)
	}

	known := finance.IndexServices(services)
	var missing []int64
	for _, e := range expenses {
		if c, ok := e.(models.CommissionExpense); ok {
			if _, found := known[c.ServiceID]; !found {
				missing = append(missing, c.ServiceID)
				known[c.ServiceID] = models.Service{}
			}
		}
	}
	if len(missing) > 0 {
		linked, err := s.store.ListServices(ctx, repository.ServiceQuery{IDs: missing})
		if err != nil {
			return nil, nil, fmt.Errorf("load linked services: %w", err)
		}
		services = append(services, linked...)
	}
	return services, expenses, nil
}
