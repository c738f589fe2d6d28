package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

func principalFrom(c *fiber.Ctx) (domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthenticated("authentication required")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// parsePage converts page/page_size query parameters to limit and offset.
func parsePage(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseStatuses(raw string) ([]domain.GrievanceStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var out []domain.GrievanceStatus
	for _, part := range strings.Split(raw, ",") {
		status := domain.GrievanceStatus(strings.ToLower(strings.TrimSpace(part)))
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": part})
		}
		out = append(out, status)
	}
	return out, nil
}

func profileResponse(p *service.Profile) dto.ProfileResponse {
	prefs := p.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return dto.ProfileResponse{
		ID:            p.ID,
		Role:          p.Role,
		Department:    p.Department,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Pincode:       p.Pincode,
		District:      p.District,
		EmployeeID:    p.EmployeeID,
		Designation:   p.Designation,
		AdminID:       p.AdminID,
		Preferences:   prefs,
		DashboardPath: p.DashboardPath,
		ProfilePath:   p.ProfilePath,
	}
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:         res.Token,
		ExpiresAt:     res.ExpiresAt,
		Role:          res.Principal.Role,
		Department:    res.Principal.Department,
		DashboardPath: res.DashboardPath,
		User:          profileResponse(res.Profile),
	}
}

func grievanceList(list []domain.Grievance) []dto.GrievanceResponse {
	items := make([]dto.GrievanceResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewGrievanceResponse(&list[i]))
	}
	return items
}
