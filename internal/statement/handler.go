package statement

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
)

// Handler exposes the statement endpoint.
type Handler struct {
	reader *Reader
}

// NewHandler builds a statement HTTP handler.
func NewHandler(reader *Reader) *Handler {
	return &Handler{reader: reader}
}

type balanceResponse struct {
	Total       int64     `json:"total"`
	CreditLimit int64     `json:"limite"`
	GeneratedAt time.Time `json:"data_extrato"`
}

type movementResponse struct {
	Amount      int64     `json:"valor"`
	Kind        string    `json:"tipo"`
	Description string    `json:"descricao"`
	RecordedAt  time.Time `json:"realizada_em"`
}

type statementResponse struct {
	Balance   balanceResponse    `json:"saldo"`
	Movements []movementResponse `json:"ultimas_transacoes"`
}

// Get returns the wallet's current balance, credit limit and latest movements.
func (h *Handler) Get(c *fiber.Ctx) error {
	walletID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}

	st, err := h.reader.Statement(c.UserContext(), walletID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "ledger store unavailable")
	}

	resp := statementResponse{
		Balance: balanceResponse{
			Total:       st.Balance,
			CreditLimit: st.CreditLimit,
			GeneratedAt: st.GeneratedAt,
		},
		Movements: make([]movementResponse, 0, len(st.Movements)),
	}
	for _, m := range st.Movements {
		resp.Movements = append(resp.Movements, movementResponse{
			Amount:      m.Amount,
			Kind:        string(m.Kind),
			Description: m.Description,
			RecordedAt:  m.RecordedAt,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}
