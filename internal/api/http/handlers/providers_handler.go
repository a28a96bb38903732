package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provider-registration/internal/api/dto"
	"github.com/spec-kit/provider-registration/internal/service"
	"github.com/spec-kit/provider-registration/internal/validation"
	"github.com/spec-kit/provider-registration/pkg/errorutil"
)

// RegistrationAPI is the service surface the handler needs.
type RegistrationAPI interface {
	Register(ctx context.Context, in service.RegistrationInput) (*service.RegistrationOutcome, error)
	VerifyEmail(ctx context.Context, token, clientIP string) (*service.VerificationOutcome, error)
	Specializations() []string
	PasswordRequirements() validation.Requirements
}

// ProvidersHandler exposes the provider registration endpoints.
type ProvidersHandler struct {
	registration RegistrationAPI
}

// NewProvidersHandler constructs handler.
func NewProvidersHandler(registration RegistrationAPI) *ProvidersHandler {
	return &ProvidersHandler{registration: registration}
}

// Register handles POST /api/v1/providers/register.
func (h *ProvidersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewBadRequest("invalid request payload")
	}

	outcome, err := h.registration.Register(c.UserContext(), service.RegistrationInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Password:          req.Password,
		ConfirmPassword:   req.ConfirmPassword,
		Specialization:    req.Specialization,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		ClinicAddress:     req.ClinicAddress,
		ClientIP:          clientIP(c),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.RegisterProviderResponse{
			ProviderID:         outcome.ProviderID,
			Email:              outcome.Email,
			VerificationStatus: string(outcome.Status),
		},
	})
}

// VerifyEmail handles GET /api/v1/providers/verify?token=...
func (h *ProvidersHandler) VerifyEmail(c *fiber.Ctx) error {
	outcome, err := h.registration.VerifyEmail(c.UserContext(), c.Query("token"), clientIP(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.VerifyEmailResponse{
			Email:              outcome.Email,
			VerificationStatus: "verified",
			AlreadyVerified:    outcome.AlreadyVerified,
		},
	})
}

// Specializations handles GET /api/v1/providers/specializations.
func (h *ProvidersHandler) Specializations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{"specializations": h.registration.Specializations()},
	})
}

// PasswordRequirements handles GET /api/v1/providers/password-requirements.
func (h *ProvidersHandler) PasswordRequirements(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": h.registration.PasswordRequirements(),
	})
}

// clientIP resolves the originating address, trusting proxy headers in
// the order the deployment sets them.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	return c.IP()
}
