package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// Predicate selects expenses for a fold.
type Predicate func(models.Expense) bool

// KeyFunc names the group an expense is summed into.
type KeyFunc func(models.Expense) string

// All combines predicates with logical AND. No predicates selects everything.
func All(preds ...Predicate) Predicate {
	return func(e models.Expense) bool {
		for _, p := range preds {
			if p != nil && !p(e) {
				return false
			}
		}
		return true
	}
}

// InRange selects expenses dated inside r, bounds included.
func InRange(r models.DateRange) Predicate {
	return func(e models.Expense) bool { return r.Contains(e.Common().Date) }
}

// OfOrigin selects expenses with the given origin.
func OfOrigin(o models.Origin) Predicate {
	return func(e models.Expense) bool { return e.Origin() == o }
}

// OfType selects expenses whose type equals kind.
func OfType(kind string) Predicate {
	return func(e models.Expense) bool { return models.IsType(e, kind) }
}

// ForAircraft selects the expenses attributable to an aircraft: cost
// expenses linked to it directly and commissions whose service flew it.
// services maps service id to service.
func ForAircraft(aircraftID int64, services map[int64]models.Service) Predicate {
	return func(e models.Expense) bool {
		id, ok := AircraftOf(e, services)
		return ok && id == aircraftID
	}
}

// AircraftOf resolves the aircraft an expense belongs to, if any.
func AircraftOf(e models.Expense, services map[int64]models.Service) (int64, bool) {
	if c, ok := e.(models.CommissionExpense); ok {
		svc, found := services[c.ServiceID]
		if !found {
			return 0, false
		}
		return svc.AircraftID, true
	}
	cost, _ := models.Cost(e)
	if cost.AircraftID == nil {
		return 0, false
	}
	return *cost.AircraftID, true
}

// Sum adds the amounts of the expenses selected by pred.
func Sum(expenses []models.Expense, pred Predicate) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if pred == nil || pred(e) {
			total = total.Add(e.Common().Amount)
		}
	}
	return total
}

// Aggregate sums amounts per group key in a single pass over the expenses
// selected by pred.
func Aggregate(expenses []models.Expense, groupBy KeyFunc, pred Predicate) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if pred != nil && !pred(e) {
			continue
		}
		key := groupBy(e)
		out[key] = out[key].Add(e.Common().Amount)
	}
	return out
}

// ByOrigin groups by expense origin.
func ByOrigin(e models.Expense) string { return string(e.Origin()) }

// ByType groups by expense type.
func ByType(e models.Expense) string { return models.ExpenseType(e) }

// CategoryBreakdown is the dashboard split of expenses by origin.
type CategoryBreakdown struct {
	Aircraft   decimal.Decimal `json:"Aeronave"`
	Commission decimal.Decimal `json:"Comissão"`
	Vehicle    decimal.Decimal `json:"Veículo"`
	Specific   decimal.Decimal `json:"Específico"`
	Total      decimal.Decimal `json:"Total"`
}

// BreakdownByCategory sums the expenses selected by pred per origin. Total is
// the sum over the four categories.
func BreakdownByCategory(expenses []models.Expense, pred Predicate) CategoryBreakdown {
	sums := Aggregate(expenses, ByOrigin, pred)
	b := CategoryBreakdown{
		Aircraft:   sums[string(models.OriginAircraft)],
		Commission: sums[string(models.OriginCommission)],
		Vehicle:    sums[string(models.OriginVehicle)],
		Specific:   sums[string(models.OriginSpecific)],
	}
	b.Total = b.Aircraft.Add(b.Commission).Add(b.Vehicle).Add(b.Specific)
	return b
}

// UnknownEmployee names employees that no longer resolve.
const UnknownEmployee = "Desconhecido"

// EmployeeTotal is an amount attributed to one employee.
type EmployeeTotal struct {
	EmployeeID int64           `json:"employee_id"`
	Name       string          `json:"employee_name"`
	Total      decimal.Decimal `json:"total"`
}

// CommissionsByEmployee sums commission expenses per employee, largest first.
func CommissionsByEmployee(expenses []models.Expense, employees []models.Employee, pred Predicate) []EmployeeTotal {
	names := make(map[int64]string, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
	}

	totals := make(map[int64]decimal.Decimal)
	for _, e := range expenses {
		c, ok := e.(models.CommissionExpense)
		if !ok || (pred != nil && !pred(e)) {
			continue
		}
		totals[c.EmployeeID] = totals[c.EmployeeID].Add(c.Amount)
	}

	out := make([]EmployeeTotal, 0, len(totals))
	for id, total := range totals {
		name, ok := names[id]
		if !ok {
			name = UnknownEmployee
		}
		out = append(out, EmployeeTotal{EmployeeID: id, Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// AircraftTotal is an amount or count attributed to one aircraft.
type AircraftTotal struct {
	AircraftID   int64           `json:"aircraft_id"`
	Registration string          `json:"aircraft_name"`
	Total        decimal.Decimal `json:"total"`
	Services     int             `json:"services"`
}

// ExpensesByAircraft sums, per aircraft, the expenses attributable to it.
// Aircraft without expenses are reported with zero.
func ExpensesByAircraft(expenses []models.Expense, aircraft []models.Aircraft, services map[int64]models.Service, pred Predicate) []AircraftTotal {
	totals := make(map[int64]decimal.Decimal)
	for _, e := range expenses {
		if pred != nil && !pred(e) {
			continue
		}
		if id, ok := AircraftOf(e, services); ok {
			totals[id] = totals[id].Add(e.Common().Amount)
		}
	}

	out := make([]AircraftTotal, 0, len(aircraft))
	for _, a := range aircraft {
		out = append(out, AircraftTotal{AircraftID: a.ID, Registration: a.Registration, Total: totals[a.ID]})
	}
	return out
}

// ServicePredicate selects services for a fold.
type ServicePredicate func(models.Service) bool

// StartedIn selects services whose start date lies in r.
func StartedIn(r models.DateRange) ServicePredicate {
	return func(s models.Service) bool { return r.Contains(s.StartDate) }
}

// FlownBy selects services flown by the given aircraft.
func FlownBy(aircraftID int64) ServicePredicate {
	return func(s models.Service) bool { return s.AircraftID == aircraftID }
}

// AllServices combines service predicates with logical AND.
func AllServices(preds ...ServicePredicate) ServicePredicate {
	return func(s models.Service) bool {
		for _, p := range preds {
			if p != nil && !p(s) {
				return false
			}
		}
		return true
	}
}

// SelectServices returns the services selected by pred, in input order.
func SelectServices(services []models.Service, pred ServicePredicate) []models.Service {
	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if pred == nil || pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// Revenue sums the total price of the services selected by pred.
func Revenue(services []models.Service, pred ServicePredicate) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		if pred == nil || pred(s) {
			total = total.Add(s.TotalPrice)
		}
	}
	return total
}

// RevenueByAircraft sums service revenue per aircraft, skipping aircraft
// without services in the selection.
func RevenueByAircraft(services []models.Service, aircraft []models.Aircraft, pred ServicePredicate) []AircraftTotal {
	return foldServicesByAircraft(services, aircraft, pred, func(s models.Service) decimal.Decimal { return s.TotalPrice })
}

// ProfitByAircraft sums the per-service net profit per aircraft.
func ProfitByAircraft(services []models.Service, aircraft []models.Aircraft, pred ServicePredicate) []AircraftTotal {
	return foldServicesByAircraft(services, aircraft, pred, func(s models.Service) decimal.Decimal { return s.Financials.NetProfit })
}

func foldServicesByAircraft(services []models.Service, aircraft []models.Aircraft, pred ServicePredicate, value func(models.Service) decimal.Decimal) []AircraftTotal {
	totals := make(map[int64]decimal.Decimal)
	counts := make(map[int64]int)
	for _, s := range services {
		if pred != nil && !pred(s) {
			continue
		}
		totals[s.AircraftID] = totals[s.AircraftID].Add(value(s))
		counts[s.AircraftID]++
	}

	out := make([]AircraftTotal, 0, len(counts))
	for _, a := range aircraft {
		if counts[a.ID] == 0 {
			continue
		}
		out = append(out, AircraftTotal{AircraftID: a.ID, Registration: a.Registration, Total: totals[a.ID], Services: counts[a.ID]})
	}
	return out
}

// EmployeeServiceCount is the number of services an employee flew.
type EmployeeServiceCount struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"employee_name"`
	Services   int    `json:"services"`
}

// ServicesByEmployee counts selected services per pilot, skipping employees
// without services.
func ServicesByEmployee(services []models.Service, employees []models.Employee, pred ServicePredicate) []EmployeeServiceCount {
	counts := make(map[int64]int)
	for _, s := range services {
		if pred == nil || pred(s) {
			counts[s.PilotID]++
		}
	}

	out := make([]EmployeeServiceCount, 0, len(counts))
	for _, emp := range employees {
		if counts[emp.ID] == 0 {
			continue
		}
		out = append(out, EmployeeServiceCount{EmployeeID: emp.ID, Name: emp.Name, Services: counts[emp.ID]})
	}
	return out
}

// DayTotal is the revenue of services started on one day.
type DayTotal struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// DailyRevenue groups selected services by start day, oldest first.
func DailyRevenue(services []models.Service, pred ServicePredicate) []DayTotal {
	totals := make(map[time.Time]decimal.Decimal)
	for _, s := range services {
		if pred != nil && !pred(s) {
			continue
		}
		y, m, d := s.StartDate.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, s.StartDate.Location())
		totals[day] = totals[day].Add(s.TotalPrice)
	}

	out := make([]DayTotal, 0, len(totals))
	for day, total := range totals {
		out = append(out, DayTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
