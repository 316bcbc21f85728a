package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saldo-pay/saldo_pay/internal/statement"
	"github.com/saldo-pay/saldo_pay/internal/transaction"
)

// RegisterClientRoutes wires the movement and statement endpoints.
func RegisterClientRoutes(r fiber.Router, tx *transaction.Handler, st *statement.Handler) {
	r.Post("/clientes/:id/transacoes", tx.Create)
	r.Get("/clientes/:id/extrato", st.Get)
}
