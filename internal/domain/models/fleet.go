package models

import "fmt"

// Aircraft is an agricultural aircraft operated by the company.
type Aircraft struct {
	ID           int64  `json:"id"`
	Registration string `json:"registration" binding:"required"`
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
}

// Descriptor renders the aircraft the way lists and filters display it.
func (a Aircraft) Descriptor() string {
	return fmt.Sprintf("%s - %s - %s", a.Registration, a.Brand, a.Model)
}

// EmployeeRole enumerates the job roles an employee can hold.
type EmployeeRole string

const (
	RolePilot          EmployeeRole = "Piloto"
	RoleGroundCrew     EmployeeRole = "Auxiliar de pista"
	RoleMechanic       EmployeeRole = "Mecânico"
	RoleAdministrative EmployeeRole = "Administrativo"
	RoleOther          EmployeeRole = "Outro"
)

// Valid reports whether the role is one of the known roles.
func (r EmployeeRole) Valid() bool {
	switch r {
	case RolePilot, RoleGroundCrew, RoleMechanic, RoleAdministrative, RoleOther:
		return true
	}
	return false
}

// Employee is a pilot, ground-crew member or any other staff member.
type Employee struct {
	ID   int64        `json:"id"`
	Name string       `json:"name" binding:"required"`
	Role EmployeeRole `json:"role" binding:"required"`
}

// Descriptor renders the employee as "name - role".
func (e Employee) Descriptor() string {
	return fmt.Sprintf("%s - %s", e.Name, e.Role)
}

// Safra is a harvest season. Its bounds are the default reporting window.
type Safra struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// Range returns the season window as an inclusive date range.
func (s Safra) Range() DateRange {
	return DayRange(s.StartDate.Time, s.EndDate.Time)
}
