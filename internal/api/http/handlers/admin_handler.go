package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// AdminHandler serves the admin dashboard and the responder picker.
type AdminHandler struct {
	escalation *service.EscalationService
	stats      *service.StatsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(escalation *service.EscalationService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{escalation: escalation, stats: stats}
}

// Officials GET /admin/officials?department=.
func (h *AdminHandler) Officials(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	department := c.Query("department")
	if department == "" {
		return apperrors.NewValidationError("department required", map[string]any{"field": "department"})
	}
	officials, err := h.escalation.ListEligibleResponders(c.UserContext(), principal, department)
	if err != nil {
		return err
	}
	items := make([]dto.OfficialSummary, 0, len(officials))
	for _, o := range officials {
		items = append(items, dto.OfficialSummary{
			ID:          o.ID,
			EmployeeID:  o.EmployeeID,
			Name:        o.FullName(),
			Email:       o.Email,
			Department:  o.Department,
			Designation: o.Designation,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// QuickStats GET /admin/quick-stats.
func (h *AdminHandler) QuickStats(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.QuickStats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// DepartmentStats GET /admin/department-stats.
func (h *AdminHandler) DepartmentStats(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.DepartmentStats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// MonthlyStats GET /admin/monthly-stats.
func (h *AdminHandler) MonthlyStats(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.MonthlyStats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	d, err := h.stats.Dashboard(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": d})
}
