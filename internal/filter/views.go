package filter

import (
	"fmt"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// Filter keys understood by the record views.
const (
	KeyID            = "id"
	KeyDate          = "date"
	KeyStartDate     = "start_date"
	KeyEndDate       = "end_date"
	KeyRequester     = "requester"
	KeyAreaName      = "area_name"
	KeyHectares      = "hectares"
	KeyTotalPrice    = "total_price"
	KeyPaymentStatus = "payment_status"
	KeyAircraftName  = "aircraft_name"
	KeyEmployeeName  = "employee_name"
	KeyServiceName   = "service_name"
	KeyOrigin        = "origin"
	KeyType          = "type"
	KeyDescription   = "description"
	KeyAmount        = "amount"
)

// Lookup resolves the entities records refer to.
type Lookup struct {
	Aircraft  map[int64]models.Aircraft
	Employees map[int64]models.Employee
	Services  map[int64]models.Service
}

// NewLookup indexes the given entities by id.
func NewLookup(aircraft []models.Aircraft, employees []models.Employee, services []models.Service) Lookup {
	l := Lookup{
		Aircraft:  make(map[int64]models.Aircraft, len(aircraft)),
		Employees: make(map[int64]models.Employee, len(employees)),
		Services:  make(map[int64]models.Service, len(services)),
	}
	for _, a := range aircraft {
		l.Aircraft[a.ID] = a
	}
	for _, e := range employees {
		l.Employees[e.ID] = e
	}
	for _, s := range services {
		l.Services[s.ID] = s
	}
	return l
}

func (l Lookup) aircraft(id *int64) Value {
	if id == nil {
		return Unresolved()
	}
	a, ok := l.Aircraft[*id]
	if !ok {
		return Joined("", *id)
	}
	return Joined(a.Descriptor(), a.ID)
}

func (l Lookup) employee(id int64) Value {
	e, ok := l.Employees[id]
	if !ok {
		return Joined("", id)
	}
	return Joined(e.Descriptor(), e.ID)
}

func (l Lookup) service(id int64) Value {
	s, ok := l.Services[id]
	if !ok {
		return Joined("", id)
	}
	return Joined(ServiceDescriptor(s), s.ID)
}

// ServiceDescriptor renders a service the way expense lists show it.
func ServiceDescriptor(s models.Service) string {
	return fmt.Sprintf("Id: %d | %s | %s de %s até %s",
		s.ID, s.Requester, s.AreaName,
		s.StartDate.Format(models.DisplayDateLayout), s.EndDate.Format(models.DisplayDateLayout))
}

// ServiceFields is the searchable view of a service.
func (l Lookup) ServiceFields(s models.Service) Fields {
	aircraftID := s.AircraftID
	return Fields{
		KeyID:            Int(s.ID),
		KeyStartDate:     Date(s.StartDate),
		KeyEndDate:       Date(s.EndDate),
		KeyRequester:     Text(s.Requester),
		KeyAreaName:      Text(s.AreaName),
		KeyHectares:      Number(s.Hectares),
		KeyTotalPrice:    Number(s.TotalPrice),
		KeyPaymentStatus: Text(string(s.PaymentStatus)),
		KeyAircraftName:  l.aircraft(&aircraftID),
		KeyEmployeeName:  l.employee(s.PilotID),
	}
}

// ExpenseFields is the searchable view of an expense. Commission expenses
// expose the employee and service they belong to; cost expenses expose their
// aircraft.
func (l Lookup) ExpenseFields(e models.Expense) Fields {
	base := e.Common()
	f := Fields{
		KeyID:            Int(base.ID),
		KeyDate:          Date(base.Date),
		KeyOrigin:        Text(string(e.Origin())),
		KeyType:          Text(models.ExpenseType(e)),
		KeyDescription:   Text(base.Description),
		KeyAmount:        Number(base.Amount),
		KeyPaymentStatus: Text(string(base.PaymentStatus)),
	}
	if c, ok := e.(models.CommissionExpense); ok {
		f[KeyEmployeeName] = l.employee(c.EmployeeID)
		f[KeyServiceName] = l.service(c.ServiceID)
		if s, found := l.Services[c.ServiceID]; found {
			aircraftID := s.AircraftID
			f[KeyAircraftName] = l.aircraft(&aircraftID)
		} else {
			f[KeyAircraftName] = Unresolved()
		}
		return f
	}
	cost, _ := models.Cost(e)
	f[KeyAircraftName] = l.aircraft(cost.AircraftID)
	f[KeyEmployeeName] = Unresolved()
	f[KeyServiceName] = Unresolved()
	return f
}
