package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/admin"
	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/banking"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	hrapp "github.com/jhoicas/backoffice-api/internal/application/hr"
	"github.com/jhoicas/backoffice-api/internal/application/navigation"
	"github.com/jhoicas/backoffice-api/internal/application/reporting"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/export"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/kvstore"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/mail"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/session"
	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

const (
	adminEmail    = "root@acme.com"
	adminPassword = "supersecreta"
)

type server struct {
	app   *fiber.App
	repos repository.Repositories
}

// newServer arma la API completa sobre el store en memoria, con el admin sembrado.
func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	repos := kvstore.New(kvstore.NewMemoryBackend()).Repositories()
	_, err := admin.Seed(ctx, repos, config.SeedConfig{AdminEmail: adminEmail, AdminPassword: adminPassword}, log)
	require.NoError(t, err)

	authz := access.NewAuthorizer(repos.Roles, repos.Settings)
	authUC := auth.NewAuthUseCase(
		repos.Users, repos.Alerts, authz,
		session.NewMemoryStore(), session.NewMemoryPresence(time.Minute),
		auth.Config{JWTSecret: testJWTSecret, Issuer: testIssuer, SessionTTL: time.Hour, MaxAttempts: 3},
		log,
	)
	exportUC := reporting.NewExportUseCase(repos, authz, reporting.Renderers{
		PDF:      export.NewPDFRenderer(),
		Word:     export.NewWordRenderer(),
		Workbook: export.NewWorkbookWriter(),
	}, log)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Clients, authz, mail.NewSimulatedMailer(0, log), log).
		WithExporter(exportUC)

	app := apphttp.NewApp("test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		MenuUC:      navigation.NewMenuUseCase(authz),
		Authz:       authz,
		DashboardUC: analytics.NewDashboardUseCase(repos, authz),
		ClientUC:    billing.NewClientUseCase(repos.Clients, repos.Invoices, authz),
		InvoiceUC:   invoiceUC,
		CompanyUC:   billing.NewCompanyUseCase(repos.Settings, authz),
		ExportUC:    exportUC,
		BankingUC:   banking.NewBankingUseCase(repos, authz, time.Hour, log),
		UserUC:      admin.NewUserUseCase(repos.Users, repos.Roles, authz, log),
		RoleUC:      admin.NewRoleUseCase(repos.Roles, repos.Users, authz),
		HRUC:        hrapp.NewHRUseCase(repos.Leaves, repos.Announcements, authz, log),
		SettingsUC:  admin.NewSettingsUseCase(repos.Settings, repos.Alerts, authz, log),
		JWTSecret:   testJWTSecret,
	})
	return &server{app: app, repos: repos}
}

// call envía body como JSON (si no es nil) y devuelve la respuesta.
func (s *server) call(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return out.Token
}

// createUser da de alta un actor con el admin y devuelve su token.
func (s *server) createUser(t *testing.T, adminToken, email, role string) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/users", adminToken, dto.CreateUserRequest{
		Email: email, Password: "clave-segura", Name: email, Role: role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return s.login(t, email, "clave-segura")
}

func (s *server) createInvoice(t *testing.T, token string) dto.InvoiceResponse {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/clients", token, dto.ClientRequest{Name: "Globex", Email: "pagos@globex.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client struct {
		ID string `json:"id"`
	}
	decode(t, resp, &client)

	resp = s.call(t, http.MethodPost, "/api/invoices", token, map[string]interface{}{
		"client_id": client.ID,
		"items":     []map[string]interface{}{{"description": "Consultoría", "quantity": "2", "rate": "100"}},
		"tax_rate":  "10",
		"discount":  "5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decode(t, resp, &inv)
	return inv
}

func TestAPI_FlujoDeFacturaYExportacion(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)

	inv := s.createInvoice(t, token)
	assert.Equal(t, "215", inv.Total.String())
	assert.NotEmpty(t, inv.InvoiceNumber)
	assert.Equal(t, "draft", string(inv.EffectiveStatus))

	resp := s.call(t, http.MethodGet, "/api/invoices/"+inv.ID+"/export?format=doc", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, reporting.ContentTypeDoc, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_"+inv.InvoiceNumber+".doc")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Globex")

	// máscara explícita: sin datos del cliente
	mask := url.QueryEscape(`{"invoice":{"number":true}}`)
	resp = s.call(t, http.MethodGet, "/api/invoices/"+inv.ID+"/export?format=doc&mask="+mask, token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "pagos@globex.com")

	resp = s.call(t, http.MethodGet, "/api/invoices/"+inv.ID+"/export?format=odt", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/exports/invoices", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, reporting.ContentTypeXLSX, resp.Header.Get("Content-Type"))
}

func TestAPI_ValidacionDevuelveCampos(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp := s.call(t, http.MethodPost, "/api/clients", token, dto.ClientRequest{Name: "", Email: "no-es-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Fields, "name")
	assert.Contains(t, out.Fields, "email")

	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestAPI_CapacidadesPorRol(t *testing.T) {
	s := newServer(t)
	adminToken := s.login(t, adminEmail, adminPassword)
	hrToken := s.createUser(t, adminToken, "rrhh@acme.com", "hr")

	resp := s.call(t, http.MethodGet, "/api/invoices", hrToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/users", hrToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/me/menu", hrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var menu []navigation.Entry
	decode(t, resp, &menu)
	keys := make([]string, 0, len(menu))
	for _, e := range menu {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"dashboard", "reports", "hr"}, keys)

	// el cambio de rol aplica en la siguiente petición, sin volver a iniciar sesión
	var users []dto.UserResponse
	resp = s.call(t, http.MethodGet, "/api/users", adminToken, nil)
	decode(t, resp, &users)
	var hrID string
	for _, u := range users {
		if u.Email == "rrhh@acme.com" {
			hrID = u.ID
		}
	}
	require.NotEmpty(t, hrID)
	resp = s.call(t, http.MethodPut, "/api/users/"+hrID, adminToken, dto.UpdateUserRequest{Name: "RRHH", Role: "finance"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/invoices", hrToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CongelamientoDeFacturasPagadas(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)
	inv := s.createInvoice(t, token)

	resp := s.call(t, http.MethodPost, "/api/invoices/"+inv.ID+"/paid", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.call(t, http.MethodPut, "/api/settings/freeze", token, dto.FreezeSettingsRequest{PaidInvoices: true})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.call(t, http.MethodDelete, "/api/invoices/"+inv.ID, token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "FROZEN", out.Code)

	resp = s.call(t, http.MethodPut, "/api/settings/freeze", token, dto.FreezeSettingsRequest{PaidInvoices: false})
	resp.Body.Close()
	resp = s.call(t, http.MethodDelete, "/api/invoices/"+inv.ID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_RolPredeterminadoProtegido(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp := s.call(t, http.MethodDelete, "/api/roles/finance", token, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "PROTECTED_ROLE", out.Code)
}

func TestAPI_BloqueoPorIntentosYDesbloqueo(t *testing.T) {
	s := newServer(t)
	adminToken := s.login(t, adminEmail, adminPassword)
	s.createUser(t, adminToken, "ana@acme.com", "user")

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		resp := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@acme.com", Password: "incorrecta"})
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusLocked, http.StatusLocked}, codes)

	resp := s.call(t, http.MethodGet, "/api/security-alerts", adminToken, nil)
	var alerts []map[string]interface{}
	decode(t, resp, &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, "ana@acme.com", alerts[0]["actor_email"])

	var users []dto.UserResponse
	resp = s.call(t, http.MethodGet, "/api/users", adminToken, nil)
	decode(t, resp, &users)
	for _, u := range users {
		if u.Email == "ana@acme.com" {
			resp = s.call(t, http.MethodPost, "/api/users/"+u.ID+"/unlock", adminToken, nil)
			resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
	}
	s.login(t, "ana@acme.com", "clave-segura")
}

func TestAPI_LogoutInvalidaElToken(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp := s.call(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.MeResponse
	decode(t, resp, &me)
	assert.Equal(t, adminEmail, me.User.Email)
	assert.Contains(t, me.Permissions, "admin")

	resp = s.call(t, http.MethodPost, "/api/auth/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/me", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_Presencia(t *testing.T) {
	s := newServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp := s.call(t, http.MethodPost, "/api/presence/heartbeat", token, dto.HeartbeatRequest{Route: "/invoices"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/presence?route=/invoices", token, nil)
	var online []dto.PresenceEntry
	decode(t, resp, &online)
	require.Len(t, online, 1)
	assert.Equal(t, adminEmail, online[0].Email)
}

func TestAPI_RecursosHumanos(t *testing.T) {
	s := newServer(t)
	adminToken := s.login(t, adminEmail, adminPassword)
	hrToken := s.createUser(t, adminToken, "rrhh@acme.com", "hr")
	userToken := s.createUser(t, adminToken, "ana@acme.com", "user")

	in := dto.LeaveRequestInput{
		EmployeeName: "Luis", EmployeeEmail: "luis@acme.com", Kind: "vacation",
		StartDate: "2026-11-02", EndDate: "2026-11-06",
	}
	resp := s.call(t, http.MethodPost, "/api/hr/leave-requests", userToken, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(t, http.MethodPost, "/api/hr/leave-requests", hrToken, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var leave struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Version int64  `json:"version"`
	}
	decode(t, resp, &leave)
	assert.Equal(t, "pending", leave.Status)

	resp = s.call(t, http.MethodPost, "/api/hr/leave-requests/"+leave.ID+"/review", hrToken, dto.LeaveReviewRequest{Approve: true, Version: leave.Version})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &leave)
	assert.Equal(t, "approved", leave.Status)

	resp = s.call(t, http.MethodPut, "/api/hr/leave-requests/"+leave.ID, hrToken, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.call(t, http.MethodPost, "/api/hr/announcements", hrToken, dto.AnnouncementRequest{Title: "Horario", Body: "Cambia el lunes"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/exports/leave-requests", hrToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, reporting.ContentTypeXLSX, resp.Header.Get("Content-Type"))
}

func TestAPI_ExportsExigenReportes(t *testing.T) {
	s := newServer(t)
	adminToken := s.login(t, adminEmail, adminPassword)
	userToken := s.createUser(t, adminToken, "ana@acme.com", "user")
	hrToken := s.createUser(t, adminToken, "rrhh@acme.com", "hr")

	resp := s.call(t, http.MethodGet, "/api/exports/invoices", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "invoices sin reports")

	resp = s.call(t, http.MethodGet, "/api/exports/invoices", hrToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "reports sin invoices")

	inv := s.createInvoice(t, userToken)
	resp = s.call(t, http.MethodGet, "/api/invoices/"+inv.ID+"/export", userToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "la factura individual solo exige invoices")
}

func TestAPI_PanelSegunCapacidades(t *testing.T) {
	s := newServer(t)
	adminToken := s.login(t, adminEmail, adminPassword)
	hrToken := s.createUser(t, adminToken, "rrhh@acme.com", "hr")
	s.createInvoice(t, adminToken)

	resp := s.call(t, http.MethodGet, "/api/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var full dto.DashboardSummaryDTO
	decode(t, resp, &full)
	require.NotNil(t, full.Invoices)
	assert.Equal(t, 1, full.Invoices.Count)
	assert.NotNil(t, full.Payments)
	assert.NotNil(t, full.HR)

	resp = s.call(t, http.MethodGet, "/api/dashboard", hrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var partial dto.DashboardSummaryDTO
	decode(t, resp, &partial)
	assert.Nil(t, partial.Invoices)
	assert.Empty(t, partial.Accounts)
	require.NotNil(t, partial.HR)
	assert.Zero(t, partial.HR.OpenLeaves)

	resp = s.call(t, http.MethodPost, "/api/roles", adminToken, dto.RoleRequest{Name: "Solo facturas", Permissions: []string{"invoices"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var role entity.Role
	decode(t, resp, &role)
	noPanel := s.createUser(t, adminToken, "caja@acme.com", role.ID)
	resp = s.call(t, http.MethodGet, "/api/dashboard", noPanel, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
