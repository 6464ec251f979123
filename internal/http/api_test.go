package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sugarstudio/internal/http/handlers"
	"sugarstudio/internal/notify"
	"sugarstudio/internal/repos"
)

var memdbSeq atomic.Int64

// newTestApp wires the API the way main does, against a fresh seeded
// in-memory database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:apimemdb%d?mode=memory&cache=shared", memdbSeq.Add(1))
	db, err := repos.OpenDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := handlers.NewDeps(db, "test-secret", notify.LogNotifier{})
	staff := handlers.RequireStaff(deps.Auth)
	admin := handlers.RequireAdmin(deps.Auth)

	app := fiber.New()
	app.Use(requestid.New())

	api := app.Group("/api")
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Post("/auth/register", admin, deps.AuthHandler.Register)
	api.Get("/auth/profile", staff, deps.AuthHandler.Profile)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id/availability", deps.ProductHandler.Availability)
	api.Patch("/products/:id/stock", staff, deps.ProductHandler.AdjustStock)

	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders", staff, deps.OrderHandler.List)
	api.Get("/orders/track/:number", deps.OrderHandler.Track)
	api.Patch("/orders/:id/advance", staff, deps.OrderHandler.Advance)

	return app
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	code, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestAPI_PlaceOrderAndTrack(t *testing.T) {
	app := newTestApp(t)

	code, env := doJSON(t, app, http.MethodPost, "/api/orders", "", `{
	  "order_type": "pickup",
	  "items": [{"product_id": "choco-chip", "quantity": 3}]
	}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)

	var order struct {
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "pending", order.Status)
	assert.Regexp(t, `^BK\d{9}$`, order.OrderNumber)
	total, err := decimal.NewFromString(order.TotalAmount)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("120.00")), "total %s", order.TotalAmount)

	code, env = doJSON(t, app, http.MethodGet, "/api/orders/track/"+order.OrderNumber, "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
}

func TestAPI_PlaceOrderErrors(t *testing.T) {
	app := newTestApp(t)

	code, env := doJSON(t, app, http.MethodPost, "/api/orders", "", `{"order_type":"pickup","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)

	// red-velvet seeds with stock 4
	code, env = doJSON(t, app, http.MethodPost, "/api/orders", "", `{
	  "order_type": "pickup",
	  "items": [{"product_id": "red-velvet", "quantity": 5}]
	}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "insufficient stock")

	code, _ = doJSON(t, app, http.MethodPost, "/api/orders", "", `{
	  "order_type": "pickup",
	  "items": [{"product_id": "no-such", "quantity": 1}]
	}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAPI_StaffEndpointsRequireToken(t *testing.T) {
	app := newTestApp(t)

	code, _ := doJSON(t, app, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, app, http.MethodGet, "/api/orders", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	token := login(t, app, "baker@sugarstudio.test", "Passw0rd!")
	code, env := doJSON(t, app, http.MethodGet, "/api/orders", token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
}

func TestAPI_AdminOnlyRegister(t *testing.T) {
	app := newTestApp(t)

	staffToken := login(t, app, "baker@sugarstudio.test", "Passw0rd!")
	body := `{"email":"new@sugarstudio.test","full_name":"New Staff","password":"Sourdough9"}`

	code, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", staffToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	adminToken := login(t, app, "admin@sugarstudio.test", "Passw0rd!")
	code, env := doJSON(t, app, http.MethodPost, "/api/auth/register", adminToken, body)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)
}

func TestAPI_AdvanceOrderLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "baker@sugarstudio.test", "Passw0rd!")

	code, env := doJSON(t, app, http.MethodPost, "/api/orders", "", `{
	  "order_type": "pickup",
	  "items": [{"product_id": "sourdough", "quantity": 1}]
	}`)
	require.Equal(t, http.StatusCreated, code)
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))

	code, env = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/advance", token, "")
	assert.Equal(t, http.StatusOK, code)
	var advanced struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &advanced))
	assert.Equal(t, "confirmed", advanced.Status)
}

func TestAPI_AvailabilityBadge(t *testing.T) {
	app := newTestApp(t)

	code, env := doJSON(t, app, http.MethodGet, "/api/products/red-velvet/availability", "", "")
	assert.Equal(t, http.StatusOK, code)
	var avail struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, "LOW_STOCK", avail.Status)
	assert.Equal(t, 4, avail.Qty)

	token := login(t, app, "baker@sugarstudio.test", "Passw0rd!")
	code, _ = doJSON(t, app, http.MethodPatch, "/api/products/red-velvet/stock", token, `{"operation":"set","quantity":0}`)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, app, http.MethodGet, "/api/products/red-velvet/availability", "", "")
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &avail))
	assert.Equal(t, "OUT_OF_STOCK", avail.Status)
}
