package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

func call(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("salary: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrAccountLocked, http.StatusLocked},
		{service.ErrAccountInactive, http.StatusForbidden},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("employee %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("company %w", service.ErrAlreadyExists), http.StatusConflict},
		{service.ErrQuotaExceeded, http.StatusUnprocessableEntity},
		{service.ErrSetupCompleted, http.StatusForbidden},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return handleError(c, tt.err) })

			status, env := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, tt.want, status)
			require.False(t, env.Success)
			require.NotEmpty(t, env.Message)
			require.NotContains(t, env.Message, "pq:")
		})
	}
}

func TestBind_ValidationErrors(t *testing.T) {
	t.Parallel()

	v := validator.NewValidator()
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req service.CreateEmployeeRequest
		if err := bind(c, v, &req); err != nil {
			return handleError(c, err)
		}
		return success(c, fiber.StatusCreated, req)
	})

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	status, env := call(t, app, post(`{"email":"not-an-email","password":"short","first_name":"J","last_name":"Doe","salary":"-1"}`))
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Errors, "email")
	require.Contains(t, env.Errors, "salary")

	status, _ = call(t, app, post(`{`))
	require.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, app, post(`{"email":"jane@acme.test","password":"long-enough","first_name":"Jane","last_name":"Doe","salary":"1200.50"}`))
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)
}

func TestEmployeeTarget(t *testing.T) {
	t.Parallel()

	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		claims *domain.Claims
		target uuid.UUID
		want   int
	}{
		{"employee asks about itself", &domain.Claims{ActorClass: domain.ActorEmployee, ActorID: self}, self, http.StatusOK},
		{"employee asks about a colleague", &domain.Claims{ActorClass: domain.ActorEmployee, ActorID: self}, other, http.StatusForbidden},
		{"company asks about staff", &domain.Claims{ActorClass: domain.ActorCompany, ActorID: uuid.New()}, other, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			app.Get("/employees/:id", func(c *fiber.Ctx) error {
				c.Locals(ClaimsKey, tt.claims)
				id, err := employeeTarget(c)
				if err != nil {
					return handleError(c, err)
				}
				return success(c, fiber.StatusOK, id)
			})

			status, env := call(t, app, httptest.NewRequest(http.MethodGet, "/employees/"+tt.target.String(), nil))
			require.Equal(t, tt.want, status)
			if tt.want == http.StatusForbidden {
				require.Equal(t, "Access Denied", env.Message)
			}
		})
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Parallel()

	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	for _, tc := range []struct {
		cache Pinger
		want  int
	}{
		{ok, http.StatusOK},
		{down, http.StatusServiceUnavailable},
	} {
		app := fiber.New()
		h := NewHealthHandler(ok, tc.cache)
		app.Get("/ready", h.Ready)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.NoError(t, err)
		require.Equal(t, tc.want, resp.StatusCode)
	}
}
