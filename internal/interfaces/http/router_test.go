package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/auth"
	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/application/report"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/antifraude-api/internal/interfaces/http"
)

// newTestAPI arma la API completa sobre el almacén en memoria.
func newTestAPI(t *testing.T, maxValue int) *fiber.App {
	t.Helper()
	store := memory.NewStore(time.Second)
	tx := memory.NewTxRunner(store)
	records := memory.NewCaseRecordRepository(store)
	catalog := fraud.DefaultCatalog()

	alloc, err := intake.NewSerialAllocator(tx, maxValue)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		IntakeUC:  intake.NewIntakeUseCase(nil, fraud.NewKeywordClassifier(catalog), catalog, alloc, records, nil, intake.Config{}),
		AdminUC:   admin.NewAdminUseCase(records, tx, catalog, nil),
		ReportUC:  report.NewReportUseCase(memory.NewReportRepository(store)),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

// login registra el usuario y devuelve su token.
func login(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()
	resp, _ := call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: username, Password: "secreto123", Role: role})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestAPI_AnalizarRegistraCaso(t *testing.T) {
	app := newTestAPI(t, 0)
	tok := login(t, app, "alice", "")

	resp, body := call(t, app, http.MethodPost, "/api/analyze", tok, dto.AnalyzeRequest{Text: "免费领取海外代购清仓"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "f00001", body["case_id"])
	assert.Equal(t, true, body["is_fraud"])
	assert.Equal(t, "虚假购物、服务类", body["fraud_type"])

	resp, body = call(t, app, http.MethodPost, "/api/analyze", tok, dto.AnalyzeRequest{Text: "免费领取海外代购清仓"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "f00002", body["case_id"])
}

func TestAPI_AnalizarSinTokenEs401(t *testing.T) {
	app := newTestAPI(t, 0)
	resp, body := call(t, app, http.MethodPost, "/api/analyze", "", dto.AnalyzeRequest{Text: "hola"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAPI_AnalizarTextoVacioEs400(t *testing.T) {
	app := newTestAPI(t, 0)
	tok := login(t, app, "alice", "")
	resp, body := call(t, app, http.MethodPost, "/api/analyze", tok, dto.AnalyzeRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_ConsecutivoAgotadoEs409(t *testing.T) {
	app := newTestAPI(t, 1)
	tok := login(t, app, "alice", "")

	resp, body := call(t, app, http.MethodPost, "/api/analyze", tok, dto.AnalyzeRequest{Text: "明天下午三点开会"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "z00001", body["case_id"])

	resp, body = call(t, app, http.MethodPost, "/api/analyze", tok, dto.AnalyzeRequest{Text: "明天下午三点开会"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CASE_SERIAL_EXHAUSTED", body["code"])
}

func TestAPI_AdminRequiereRol(t *testing.T) {
	app := newTestAPI(t, 0)
	userTok := login(t, app, "alice", "")
	adminTok := login(t, app, "root", "admin")

	resp, _ := call(t, app, http.MethodGet, "/api/admin/stats", userTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/admin/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["today_new_records"])
}

func TestAPI_AdminReiniciaCategoria(t *testing.T) {
	app := newTestAPI(t, 0)
	userTok := login(t, app, "alice", "")
	adminTok := login(t, app, "root", "admin")

	for i := 0; i < 2; i++ {
		resp, _ := call(t, app, http.MethodPost, "/api/analyze", userTok, dto.AnalyzeRequest{Text: "免费领取海外代购清仓"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := call(t, app, http.MethodGet, "/api/admin/records?fraud_type="+url.QueryEscape("虚假购物、服务类"), adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])

	resp, body = call(t, app, http.MethodPost, "/api/admin/sequences/f/reset", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["deleted_records"])

	resp, body = call(t, app, http.MethodPost, "/api/analyze", userTok, dto.AnalyzeRequest{Text: "免费领取海外代购清仓"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "f00001", body["case_id"])

	// Código válido sin consecutivo creado.
	resp, body = call(t, app, http.MethodPost, "/api/admin/sequences/q/reset", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// Código inválido.
	resp, body = call(t, app, http.MethodPost, "/api/admin/sequences/ab/reset", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_DenunciaAnonimaYGestion(t *testing.T) {
	app := newTestAPI(t, 0)
	adminTok := login(t, app, "root", "admin")

	resp, body := call(t, app, http.MethodPost, "/api/reports", "", dto.SubmitReportRequest{Type: "sms", Content: "me pidieron un código", Source: "10690000"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["report_id"].(string)
	require.NotEmpty(t, id)

	resp, body = call(t, app, http.MethodPut, "/api/admin/reports/"+id+"/status", adminTok, dto.UpdateReportStatusRequest{Status: "resolved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", body["old_status"])
	assert.Equal(t, "resolved", body["new_status"])

	resp, _ = call(t, app, http.MethodPost, "/api/reports", "", dto.SubmitReportRequest{Type: "fax", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	app := newTestAPI(t, 0)
	login(t, app, "alice", "")

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "alice", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice", Password: "secreto123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
