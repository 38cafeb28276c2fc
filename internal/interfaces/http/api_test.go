package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/application/report"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/infrastructure/csvimport"
	infrapdf "github.com/jhoicas/Inventario-conteo/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/Inventario-conteo/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/Inventario-conteo/internal/interfaces/http"
	"github.com/jhoicas/Inventario-conteo/internal/testing/memrepo"
	"github.com/jhoicas/Inventario-conteo/pkg/logger"
)

type apiFixture struct {
	app      *fiber.App
	store    *memrepo.Store
	admin    *http.Cookie
	operador *http.Cookie
}

func newAPI(t *testing.T, loginRate int) *apiFixture {
	t.Helper()
	store := memrepo.New()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	categoryUC := usecase.NewCategoryUseCase(store.Categories())
	userUC := usecase.NewUserUseCase(store.Users())
	ctx := context.Background()
	for _, u := range []dto.CreateUserRequest{
		{Username: "root", Email: "root@example.com", Password: "admin-clave", Role: entity.RoleAdmin},
		{Username: "ana", Email: "ana@example.com", Password: "operador-clave", Role: entity.RoleOperador},
	} {
		_, err := userUC.Create(ctx, u)
		require.NoError(t, err)
	}

	authUC := auth.NewAuthUseCase(store.Users(), infraredis.NewSessionStore(client), auth.JWTConfig{
		Secret: "api-test-secret", ExpMinutes: 30, Issuer: "test",
	})
	app := apphttp.NewApp("inventario-test", logger.NewNop())
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:   usecase.NewCompanyUseCase(store.Companies()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses(), store.Companies()),
		CategoryUC:  categoryUC,
		ItemUC:      usecase.NewItemUseCase(store.Items(), categoryUC, store, csvimport.NewDecoder(0)),
		UserUC:      userUC,
		StockUC:     inventory.NewStockUseCase(store, store.Movements()),
		SessionUC: inventory.NewSessionUseCase(
			store.Sessions(), store.Counts(), store.Companies(), store.Warehouses(), store.Items(), store,
			inventory.SessionPolicy{},
		),
		ReportUC:       report.NewUseCase(store.Items(), store.Movements(), store.Sessions(), store.Counts(), infrapdf.NewMarotoPDFGenerator("test")),
		AuthUC:         authUC,
		Cookie:         apphttp.CookieConfig{Name: testCookie},
		LoginRateLimit: loginRate,
		ServiceName:    "inventario-test",
		HealthChecks: []apphttp.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return client.Ping(ctx).Err() }},
		},
	})

	f := &apiFixture{app: app, store: store}
	f.admin = f.login(t, "root", "admin-clave")
	f.operador = f.login(t, "ana@example.com", "operador-clave")
	return f
}

func (f *apiFixture) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			assert.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatalf("login sin cookie %s", testCookie)
	return nil
}

func (f *apiFixture) do(t *testing.T, method, path string, payload any, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return f.send(t, req)
}

func (f *apiFixture) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	body := map[string]any{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

// seedCatalog crea C1, W1 e ítem "123" (qty 50, min 10) vía API.
func (f *apiFixture) seedCatalog(t *testing.T) (companyID, warehouseID, itemID string) {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/companies", map[string]any{"name": "C1"}, f.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	companyID = body["company"].(map[string]any)["id"].(string)

	resp, body = f.do(t, http.MethodPost, "/api/warehouses", map[string]any{"company_id": companyID, "code": "W1", "name": "Bodega 1"}, f.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	warehouseID = body["warehouse"].(map[string]any)["id"].(string)

	resp, body = f.do(t, http.MethodPost, "/api/items", map[string]any{
		"barcode": "123", "name": "Tornillo", "quantity": 50, "min_quantity": 10, "unit_price": "2.50",
	}, f.operador)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	itemID = body["item"].(map[string]any)["id"].(string)
	return companyID, warehouseID, itemID
}

func TestAPI_FlujoDeConteo(t *testing.T) {
	f := newAPI(t, 0)
	companyID, warehouseID, itemID := f.seedCatalog(t)

	resp, body := f.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"name": "Inventario mensual", "company_id": companyID, "warehouse_id": warehouseID,
	}, f.operador)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	sessionID := body["session_id"].(string)

	// conteo por el endpoint compartido, desambiguado por barcode
	resp, body = f.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"session_id": sessionID, "barcode": "123", "counted_quantity": 45,
	}, f.operador)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, itemID, body["item_id"])
	assert.EqualValues(t, 50, body["expected_quantity"])
	assert.EqualValues(t, 45, body["counted_quantity"])
	assert.EqualValues(t, -5, body["difference"])

	resp, body = f.do(t, http.MethodGet, "/api/sessions/"+sessionID, nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["total_counts"])
	assert.EqualValues(t, 1, summary["discrepancies"])
	assert.EqualValues(t, -5, summary["total_difference"])
	assert.Len(t, body["counts"], 1)

	// GET /sessions?id= devuelve el mismo detalle
	resp, body = f.do(t, http.MethodGet, "/api/sessions?id="+sessionID, nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, sessionID, body["session"].(map[string]any)["id"])

	resp, body = f.do(t, http.MethodPut, "/api/sessions", map[string]any{"session_id": sessionID, "status": "fechada"}, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	session := body["session"].(map[string]any)
	assert.Equal(t, "fechada", session["status"])
	assert.NotNil(t, session["finished_at"])

	// aplicar es solo admin
	resp, _ = f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/apply", nil, f.operador)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/apply", nil, f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.EqualValues(t, 1, body["adjusted"])

	resp, body = f.do(t, http.MethodGet, "/api/items/"+itemID, nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.EqualValues(t, 45, body["item"].(map[string]any)["quantity"])

	resp, body = f.do(t, http.MethodGet, "/api/items/"+itemID+"/movements", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	movements := body["movements"].([]any)
	require.Len(t, movements, 2, "entrada inicial y ajuste")
	assert.Equal(t, "ajuste", movements[0].(map[string]any)["movement_type"])
}

func TestAPI_ConteoEnRutaDeSesion(t *testing.T) {
	f := newAPI(t, 0)
	companyID, warehouseID, _ := f.seedCatalog(t)
	_, body := f.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"name": "S", "company_id": companyID, "warehouse_id": warehouseID,
	}, f.operador)
	sessionID := body["session_id"].(string)

	resp, body := f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/counts", map[string]any{"barcode": "999", "counted_quantity": 1}, f.operador)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/counts", map[string]any{"barcode": "123"}, f.operador)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "counted_quantity")

	resp, body = f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/counts", map[string]any{"barcode": "123", "counted_quantity": 3000000000}, f.operador)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "fuera del rango entero de la columna")
	assert.Contains(t, body["message"], "counted_quantity")

	resp, _ = f.do(t, http.MethodPost, "/api/items", map[string]any{"barcode": "G1", "name": "Granel", "quantity": 3000000000}, f.operador)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/sessions/"+sessionID+"/status", map[string]any{"status": "pausada"}, f.operador)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CrearSesionConBodegaDeOtraEmpresa(t *testing.T) {
	f := newAPI(t, 0)
	_, warehouseID, _ := f.seedCatalog(t)
	_, body := f.do(t, http.MethodPost, "/api/companies", map[string]any{"name": "C2"}, f.admin)
	otherCompany := body["company"].(map[string]any)["id"].(string)

	resp, _ := f.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"name": "S", "company_id": otherCompany, "warehouse_id": warehouseID,
	}, f.operador)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/sessions", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"])
}

func TestAPI_Autorizacion(t *testing.T) {
	f := newAPI(t, 0)

	resp, _ := f.do(t, http.MethodGet, "/api/items", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/companies", map[string]any{"name": "X"}, f.operador)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/users", nil, f.operador)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/users", nil, f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["users"], 2)

	resp, body = f.do(t, http.MethodGet, "/api/auth/me", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana", body["user"].(map[string]any)["username"])
}

func TestAPI_LoginFallido(t *testing.T) {
	f := newAPI(t, 0)
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "root", "password": "incorrecta"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "root"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_LogoutRevocaLaSesion(t *testing.T) {
	f := newAPI(t, 0)
	resp, _ := f.do(t, http.MethodPost, "/api/auth/logout", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/auth/me", nil, f.operador)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LoginConLimite(t *testing.T) {
	f := newAPI(t, 3) // dos logins ya consumidos por el fixture
	resp, _ := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "root", "password": "admin-clave"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "root", "password": "admin-clave"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
}

func TestAPI_ErroresGenericos(t *testing.T) {
	f := newAPI(t, 0)

	resp, body := f.do(t, http.MethodPatch, "/api/sessions", map[string]any{}, f.operador)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])

	resp, body = f.do(t, http.MethodGet, "/api/items/no-es-uuid", nil, f.operador)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, _ = f.do(t, http.MethodGet, "/api/sessions/00000000-0000-0000-0000-000000000000", nil, f.operador)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ItemsBusquedaYDuplicados(t *testing.T) {
	f := newAPI(t, 0)
	_, _, itemID := f.seedCatalog(t)

	resp, body := f.do(t, http.MethodGet, "/api/items?barcode=123", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, itemID, body["item"].(map[string]any)["id"])

	resp, body = f.do(t, http.MethodGet, "/api/items?search=tornI", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	resp, body = f.do(t, http.MethodPost, "/api/items", map[string]any{"barcode": "123", "name": "Otro"}, f.operador)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])

	resp, body = f.do(t, http.MethodPost, "/api/items/"+itemID+"/adjust", map[string]any{"type": "saida", "quantity": 60}, f.operador)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	resp, body = f.do(t, http.MethodGet, "/api/items/low-stock", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"])
}

func TestAPI_ImportarCSV(t *testing.T) {
	f := newAPI(t, 0)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "items.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("barcode;name;category;quantity\n900;Martillo;Herramientas;4\n901;;Herramientas;1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(f.operador)
	resp, body := f.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.EqualValues(t, 1, body["created"])
	assert.EqualValues(t, 0, body["updated"])
	assert.Len(t, body["errors"], 1)

	resp, body = f.do(t, http.MethodGet, "/api/categories", nil, f.operador)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["categories"], 1)
}

func TestAPI_ReportesYSalud(t *testing.T) {
	f := newAPI(t, 0)
	f.seedCatalog(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/export?type=items&format=csv", nil)
	req.AddCookie(f.operador)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Tornillo")

	r, body := f.do(t, http.MethodGet, "/api/reports/export?type=counts", nil, f.operador)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode, body)

	r, body = f.do(t, http.MethodGet, "/api/reports/summary", nil, f.operador)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.EqualValues(t, 1, body["summary"].(map[string]any)["total_items"])

	r, body = f.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "ok", body["checks"].(map[string]any)["redis"])
}
