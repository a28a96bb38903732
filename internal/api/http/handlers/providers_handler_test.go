package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/provider-registration/internal/api/http"
	"github.com/spec-kit/provider-registration/internal/api/http/handlers"
	"github.com/spec-kit/provider-registration/internal/domain"
	"github.com/spec-kit/provider-registration/internal/observability"
	"github.com/spec-kit/provider-registration/internal/service"
	"github.com/spec-kit/provider-registration/internal/validation"
	"github.com/spec-kit/provider-registration/pkg/errorutil"
)

type stubRegistration struct {
	registerOutcome *service.RegistrationOutcome
	registerErr     error
	lastInput       service.RegistrationInput
	verifyOutcome   *service.VerificationOutcome
	verifyErr       error
}

func (s *stubRegistration) Register(_ context.Context, in service.RegistrationInput) (*service.RegistrationOutcome, error) {
	s.lastInput = in
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerOutcome, nil
}

func (s *stubRegistration) VerifyEmail(_ context.Context, _, _ string) (*service.VerificationOutcome, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.verifyOutcome, nil
}

func (s *stubRegistration) Specializations() []string {
	return []string{"Cardiology", "Neurology"}
}

func (s *stubRegistration) PasswordRequirements() validation.Requirements {
	return validation.PasswordRequirements()
}

func newTestApp(stub *stubRegistration) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler("test-service", "test", nil, nil),
		Providers: handlers.NewProvidersHandler(stub),
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func registerBody() map[string]any {
	return map[string]any{
		"first_name":          "Jane",
		"last_name":           "Doe",
		"email":               "jane.doe@example.com",
		"phone_number":        "+12345678901",
		"password":            "Str0ng&Secure",
		"confirm_password":    "Str0ng&Secure",
		"specialization":      "Cardiology",
		"license_number":      "MD12345",
		"years_of_experience": 10,
		"clinic_address": map[string]any{
			"street": "123 Main Street",
			"city":   "Springfield",
			"state":  "IL",
			"zip":    "62701",
		},
	}
}

func postRegister(t *testing.T, app *fiber.App, payload any, headers map[string]string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	stub := &stubRegistration{
		registerOutcome: &service.RegistrationOutcome{
			ProviderID: "provider-1",
			Email:      "jane.doe@example.com",
			Status:     domain.VerificationPending,
		},
	}
	app := newTestApp(stub)

	resp := postRegister(t, app, registerBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	require.Equal(t, "provider-1", data["provider_id"])
	require.Equal(t, "jane.doe@example.com", data["email"])
	require.Equal(t, "pending", data["verification_status"])

	require.Equal(t, "Jane", stub.lastInput.FirstName)
	require.Equal(t, "62701", stub.lastInput.ClinicAddress.Zip)
}

func TestRegisterInvalidJSON(t *testing.T) {
	app := newTestApp(&stubRegistration{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "BAD_REQUEST", errBody["code"])
}

func TestRegisterValidationFailure(t *testing.T) {
	stub := &stubRegistration{
		registerErr: errorutil.NewValidationError(map[string]any{
			"email":    []string{"invalid email address format"},
			"password": []string{"password must be at least 8 characters long"},
		}),
	}
	app := newTestApp(stub)

	resp := postRegister(t, app, registerBody(), nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "VALIDATION_FAILED", errBody["code"])

	fields := errBody["details"].(map[string]any)["fields"].(map[string]any)
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
}

func TestRegisterRateLimited(t *testing.T) {
	resetAt := time.Now().Add(90 * time.Second)
	stub := &stubRegistration{
		registerErr: errorutil.NewRateLimitError(90*time.Second, 5, 0, 3600, resetAt),
	}
	app := newTestApp(stub)

	resp := postRegister(t, app, registerBody(), nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "90", resp.Header.Get("Retry-After"))
	require.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	require.Equal(t, strconv.FormatInt(resetAt.Unix(), 10), resp.Header.Get("X-RateLimit-Reset"))

	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "RATE_LIMIT_EXCEEDED", errBody["code"])

	details := errBody["details"].(map[string]any)
	require.EqualValues(t, 90, details["retry_after_seconds"])
	require.EqualValues(t, 5, details["max_requests"])
	require.EqualValues(t, 0, details["remaining"])
	require.EqualValues(t, 3600, details["window_seconds"])
	require.EqualValues(t, resetAt.Unix(), details["reset_at"])
}

func TestRegisterClientIPFromForwardedHeader(t *testing.T) {
	stub := &stubRegistration{
		registerOutcome: &service.RegistrationOutcome{ProviderID: "provider-1", Status: domain.VerificationPending},
	}
	app := newTestApp(stub)

	resp := postRegister(t, app, registerBody(), map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "203.0.113.9", stub.lastInput.ClientIP)

	resp = postRegister(t, app, registerBody(), map[string]string{
		"X-Real-IP": "198.51.100.7",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "198.51.100.7", stub.lastInput.ClientIP)
}

func TestVerifyEmail(t *testing.T) {
	stub := &stubRegistration{
		verifyOutcome: &service.VerificationOutcome{Email: "jane.doe@example.com"},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/verify?token=some-token", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	require.Equal(t, "jane.doe@example.com", data["email"])
	require.Equal(t, "verified", data["verification_status"])
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	stub := &stubRegistration{
		verifyErr: errorutil.NewDomainError("INVALID_TOKEN", "invalid or expired verification token", http.StatusBadRequest, nil),
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/verify?token=bad", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "INVALID_TOKEN", body["error"].(map[string]any)["code"])
}

func TestSpecializations(t *testing.T) {
	app := newTestApp(&stubRegistration{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/specializations", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	list := body["data"].(map[string]any)["specializations"].([]any)
	require.Equal(t, []any{"Cardiology", "Neurology"}, list)
}

func TestPasswordRequirements(t *testing.T) {
	app := newTestApp(&stubRegistration{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/password-requirements", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	require.EqualValues(t, 8, data["min_length"])
	require.EqualValues(t, 128, data["max_length"])
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(&stubRegistration{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "alive", body["status"])
	require.Equal(t, "test-service", body["service"])
}
