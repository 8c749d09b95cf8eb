package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/banking"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// BankingHandler cuentas, transacciones y pagos (protegido).
type BankingHandler struct {
	uc *banking.BankingUseCase
}

// NewBankingHandler construye el handler.
func NewBankingHandler(uc *banking.BankingUseCase) *BankingHandler {
	return &BankingHandler{uc: uc}
}

// CreateAccount godoc
// @Summary      Crear cuenta bancaria
// @Tags         banking
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BankAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  entity.BankAccount
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bank-accounts [post]
func (h *BankingHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.BankAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateAccount(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAccounts GET /api/bank-accounts
func (h *BankingHandler) ListAccounts(c *fiber.Ctx) error {
	out, err := h.uc.ListAccounts(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAccount GET /api/bank-accounts/:id
func (h *BankingHandler) GetAccount(c *fiber.Ctx) error {
	out, err := h.uc.GetAccount(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteAccount DELETE /api/bank-accounts/:id
func (h *BankingHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.uc.DeleteAccount(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Credit godoc
// @Summary      Acreditar saldo
// @Tags         banking
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la cuenta"
// @Param        body  body  dto.CreditRequest  true  "Monto y descripción"
// @Success      201   {object}  entity.Transaction
// @Router       /api/bank-accounts/{id}/credit [post]
func (h *BankingHandler) Credit(c *fiber.Ctx) error {
	var in dto.CreditRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Credit(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transactions GET /api/bank-accounts/:id/transactions
func (h *BankingHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.Transactions(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteTransaction DELETE /api/transactions/:id
func (h *BankingHandler) DeleteTransaction(c *fiber.Ctx) error {
	if err := h.uc.DeleteTransaction(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InitiatePayment godoc
// @Summary      Iniciar pago (debita la cuenta; se completa en segundo plano)
// @Tags         banking
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "Cuenta, beneficiario, monto y factura opcional"
// @Success      202   {object}  entity.Payment
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *BankingHandler) InitiatePayment(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.InitiatePayment(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// ListPayments GET /api/payments
func (h *BankingHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.uc.ListPayments(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPayment GET /api/payments/:id
func (h *BankingHandler) GetPayment(c *fiber.Ctx) error {
	out, err := h.uc.GetPayment(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePayment PUT /api/payments/:id
func (h *BankingHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePayment(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePayment DELETE /api/payments/:id
func (h *BankingHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.uc.DeletePayment(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
