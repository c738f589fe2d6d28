package auth

import "github.com/spec-kit/grievance-service/internal/domain"

type rolePaths struct {
	dashboard string
	profile   string
}

var pathsByRole = map[domain.Role]rolePaths{
	domain.RoleAdmin:      {dashboard: "/admin", profile: "/admin/update-profile"},
	domain.RolePetitioner: {dashboard: "/petitioner-dashboard", profile: "/update-profile"},
	domain.RoleOfficial:   {dashboard: "/official-dashboard", profile: "/official/update-profile"},
}

var officialPaths = map[domain.Department]rolePaths{
	domain.DepartmentWater:       {dashboard: "/official-dashboard/water", profile: "/official-dashboard/water/update-profile"},
	domain.DepartmentRTO:         {dashboard: "/official-dashboard/rto", profile: "/official-dashboard/rto/update-profile"},
	domain.DepartmentElectricity: {dashboard: "/official-dashboard/electricity", profile: "/official-dashboard/electricity/update-profile"},
}

func lookupPaths(role domain.Role, dept domain.Department) (rolePaths, bool) {
	if role == domain.RoleOfficial {
		if p, ok := officialPaths[dept]; ok {
			return p, true
		}
	}
	p, ok := pathsByRole[role]
	return p, ok
}

// DashboardPath returns the landing page for a role, or "/" when unknown.
func DashboardPath(role domain.Role, dept domain.Department) string {
	if p, ok := lookupPaths(role, dept); ok {
		return p.dashboard
	}
	return "/"
}

// ProfilePath returns the profile editing page for a role, or "/" when unknown.
func ProfilePath(role domain.Role, dept domain.Department) string {
	if p, ok := lookupPaths(role, dept); ok {
		return p.profile
	}
	return "/"
}
