package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
)

// Handler exposes the movement submission endpoint.
type Handler struct {
	engine *Engine
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type movementRequest struct {
	Amount      json.Number `json:"valor"`
	Kind        string      `json:"tipo"`
	Description *string     `json:"descricao"`
}

type movementResponse struct {
	Balance     int64 `json:"saldo"`
	CreditLimit int64 `json:"limite"`
}

// Create validates and applies a movement to the wallet in the path.
func (h *Handler) Create(c *fiber.Ctx) error {
	walletID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}

	var req movementRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, "malformed movement payload")
	}

	movement, err := Validate(Input{Amount: req.Amount, Kind: req.Kind, Description: req.Description})
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.engine.Apply(c.UserContext(), walletID, movement)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		case errors.Is(err, ledger.ErrInsufficientLimit):
			return fiber.NewError(http.StatusUnprocessableEntity, "insufficient credit limit")
		default:
			return fiber.NewError(http.StatusInternalServerError, "ledger store unavailable")
		}
	}

	return c.Status(http.StatusOK).JSON(movementResponse{Balance: res.Balance, CreditLimit: res.CreditLimit})
}
