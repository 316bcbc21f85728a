package transaction

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
	"github.com/saldo-pay/saldo_pay/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	store := ledger.NewInMemory()
	ledger.SeedWallet(store, 1, 0, 1000)

	engine := NewEngine(store, logging.Discard(), RetryPolicy{})
	h := NewHandler(engine)

	app := fiber.New()
	app.Post("/clientes/:id/transacoes", h.Create)
	return app
}

func postMovement(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	_ = json.Unmarshal(payload, &decoded)
	return resp.StatusCode, decoded
}

func TestCreateMovementSuccess(t *testing.T) {
	app := setupApp(t)

	status, body := postMovement(t, app, "/clientes/1/transacoes", `{"valor": 500, "tipo": "d", "descricao": "rent"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["saldo"].(float64) != -500 || body["limite"].(float64) != 1000 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateMovementInsufficientLimit(t *testing.T) {
	app := setupApp(t)

	if status, _ := postMovement(t, app, "/clientes/1/transacoes", `{"valor": 500, "tipo": "d", "descricao": "rent"}`); status != fiber.StatusOK {
		t.Fatalf("setup debit failed with %d", status)
	}
	status, _ := postMovement(t, app, "/clientes/1/transacoes", `{"valor": 600, "tipo": "d", "descricao": "food"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}

	// Rejection left the balance untouched.
	status, body := postMovement(t, app, "/clientes/1/transacoes", `{"valor": 500, "tipo": "c", "descricao": "pay"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["saldo"].(float64) != 0 {
		t.Fatalf("expected balance 0, got %v", body["saldo"])
	}
}

func TestCreateMovementValidation(t *testing.T) {
	app := setupApp(t)

	cases := []struct {
		name string
		body string
	}{
		{"long description", `{"valor": 10, "tipo": "c", "descricao": "toolongstr12"}`},
		{"empty description", `{"valor": 10, "tipo": "c", "descricao": ""}`},
		{"missing description", `{"valor": 10, "tipo": "c"}`},
		{"fractional amount", `{"valor": 1.2, "tipo": "c", "descricao": "ok"}`},
		{"negative amount", `{"valor": -5, "tipo": "c", "descricao": "ok"}`},
		{"bad kind", `{"valor": 10, "tipo": "x", "descricao": "ok"}`},
		{"malformed json", `{"valor": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := postMovement(t, app, "/clientes/1/transacoes", tc.body)
			if status != fiber.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", status)
			}
		})
	}
}

func TestCreateMovementUnknownWallet(t *testing.T) {
	app := setupApp(t)

	status, _ := postMovement(t, app, "/clientes/99/transacoes", `{"valor": 10, "tipo": "c", "descricao": "ok"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown wallet, got %d", status)
	}

	status, _ = postMovement(t, app, "/clientes/abc/transacoes", `{"valor": 10, "tipo": "c", "descricao": "ok"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric wallet id, got %d", status)
	}
}
