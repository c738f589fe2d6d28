package domain

import "strings"

// Department scopes official authority and grievance routing.
type Department string

const (
	DepartmentWater       Department = "Water"
	DepartmentRTO         Department = "RTO"
	DepartmentElectricity Department = "Electricity"
)

// Departments lists every department in display order.
var Departments = []Department{DepartmentWater, DepartmentRTO, DepartmentElectricity}

// ParseDepartment resolves a case-insensitive name to its canonical value.
func ParseDepartment(raw string) (Department, bool) {
	raw = strings.TrimSpace(raw)
	for _, d := range Departments {
		if strings.EqualFold(string(d), raw) {
			return d, true
		}
	}
	return "", false
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	canonical, ok := ParseDepartment(string(d))
	return ok && canonical == d
}
