package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/reporting"
)

// ExportHandler descargas xlsx de listados completos.
type ExportHandler struct {
	uc *reporting.ExportUseCase
}

func NewExportHandler(uc *reporting.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Invoices godoc
// @Summary      Exportar todas las facturas (xlsx)
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/exports/invoices [get]
func (h *ExportHandler) Invoices(c *fiber.Ctx) error {
	file, err := h.uc.ExportInvoices(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// Accounts godoc
// @Summary      Exportar cuentas y transacciones (xlsx)
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/exports/accounts [get]
func (h *ExportHandler) Accounts(c *fiber.Ctx) error {
	file, err := h.uc.ExportAccounts(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// Users GET /api/exports/users
func (h *ExportHandler) Users(c *fiber.Ctx) error {
	file, err := h.uc.ExportUsers(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// LeaveRequests GET /api/exports/leave-requests
func (h *ExportHandler) LeaveRequests(c *fiber.Ctx) error {
	file, err := h.uc.ExportLeaveRequests(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}
