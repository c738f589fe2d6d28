package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// AuthHandler exposes registration and login for every role.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterPetitioner handles POST /auth/petitioners/register.
func (h *AuthHandler) RegisterPetitioner(c *fiber.Ctx) error {
	var req dto.PetitionerRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.RegisterPetitioner(c.UserContext(), service.RegisterPetitionerInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(res)})
}

// RegisterOfficial handles POST /auth/officials/register.
func (h *AuthHandler) RegisterOfficial(c *fiber.Ctx) error {
	var req dto.OfficialRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.RegisterOfficial(c.UserContext(), service.RegisterOfficialInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		EmployeeID:      req.EmployeeID,
		Designation:     req.Designation,
		City:            req.City,
		District:        req.District,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(res)})
}

// LoginPetitioner handles POST /auth/petitioners/login.
func (h *AuthHandler) LoginPetitioner(c *fiber.Ctx) error {
	return h.login(c, domain.RolePetitioner)
}

// LoginOfficial handles POST /auth/officials/login.
func (h *AuthHandler) LoginOfficial(c *fiber.Ctx) error {
	return h.login(c, domain.RoleOfficial)
}

// LoginAdmin handles POST /auth/admins/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c *fiber.Ctx, role domain.Role) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	res, err := h.auth.Login(c.UserContext(), role, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(res)})
}
