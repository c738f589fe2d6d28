package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// GrievancesHandler exposes the grievance lifecycle and escalation routes.
type GrievancesHandler struct {
	lifecycle  *service.LifecycleService
	escalation *service.EscalationService
	stats      *service.StatsService
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(lifecycle *service.LifecycleService, escalation *service.EscalationService, stats *service.StatsService) *GrievancesHandler {
	return &GrievancesHandler{lifecycle: lifecycle, escalation: escalation, stats: stats}
}

// Create POST /grievances.
func (h *GrievancesHandler) Create(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateGrievanceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	g, err := h.lifecycle.Create(c.UserContext(), principal, service.CreateGrievanceInput{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceResponse(g)})
}

// List GET /grievances.
func (h *GrievancesHandler) List(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return err
	}
	filter := service.GrievanceListFilter{
		Statuses:      statuses,
		AssignedToMe:  c.Query("assigned") == "me",
		EscalatedOnly: c.QueryBool("escalated"),
	}
	if raw := c.Query("department"); raw != "" {
		dept, ok := domain.ParseDepartment(raw)
		if !ok {
			return apperrors.NewValidationError("unknown department", map[string]any{"department": raw})
		}
		filter.Department = &dept
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.SearchTerm = &q
	}
	filter.Limit, filter.Offset = parsePage(c)

	list, err := h.lifecycle.List(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": grievanceList(list)})
}

// Summary GET /grievances/summary.
func (h *GrievancesHandler) Summary(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	counts, err := h.stats.Summary(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// Escalated GET /grievances/escalated.
func (h *GrievancesHandler) Escalated(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	limit, offset := parsePage(c)
	list, err := h.escalation.ListEscalated(c.UserContext(), principal, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": grievanceList(list)})
}

// Get GET /grievances/:id. The id may also be a petition id.
func (h *GrievancesHandler) Get(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	g, err := h.lifecycle.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(g)})
}

// History GET /grievances/:id/history.
func (h *GrievancesHandler) History(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	entries, err := h.lifecycle.History(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewHistoryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign POST /grievances/:id/assign.
func (h *GrievancesHandler) Assign(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.OfficialID) == "" {
		return apperrors.NewValidationError("officialId required", map[string]any{"field": "officialId"})
	}
	return h.respond(c)(h.lifecycle.Assign(c.UserContext(), principal, c.Params("id"), req.OfficialID))
}

// Start POST /grievances/:id/start.
func (h *GrievancesHandler) Start(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	return h.respond(c)(h.lifecycle.StartWork(c.UserContext(), principal, c.Params("id")))
}

// Resolve POST /grievances/:id/resolve.
func (h *GrievancesHandler) Resolve(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	return h.respond(c)(h.lifecycle.Resolve(c.UserContext(), principal, c.Params("id"), req.ResolutionDocument))
}

// Reject POST /grievances/:id/reject.
func (h *GrievancesHandler) Reject(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	return h.respond(c)(h.lifecycle.Reject(c.UserContext(), principal, c.Params("id"), req.Reason))
}

// Escalate POST /grievances/:id/escalate.
func (h *GrievancesHandler) Escalate(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.EscalateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.lifecycle.Escalate(c.UserContext(), principal, c.Params("id"), req.EscalationReason))
}

// Feedback POST /grievances/:id/feedback.
func (h *GrievancesHandler) Feedback(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.lifecycle.SubmitFeedback(c.UserContext(), principal, c.Params("id"), req.Rating, req.Comment))
}

// RespondToEscalation POST /grievances/:id/escalation-response.
func (h *GrievancesHandler) RespondToEscalation(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.EscalationResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.escalation.Respond(c.UserContext(), principal, c.Params("id"), service.RespondInput{
		Response:   req.Response,
		ReassignTo: req.ReassignTo,
	}))
}

func (h *GrievancesHandler) respond(c *fiber.Ctx) func(*domain.Grievance, error) error {
	return func(g *domain.Grievance, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(g)})
	}
}
