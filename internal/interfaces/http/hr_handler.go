package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/hr"
)

// HRHandler ausencias y avisos de recursos humanos (protegido, capacidad hr).
type HRHandler struct {
	uc *hr.HRUseCase
}

func NewHRHandler(uc *hr.HRUseCase) *HRHandler {
	return &HRHandler{uc: uc}
}

// CreateLeave godoc
// @Summary      Registrar solicitud de ausencia
// @Tags         hr
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LeaveRequestInput  true  "Solicitud"
// @Success      201   {object}  entity.LeaveRequest
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/hr/leave-requests [post]
func (h *HRHandler) CreateLeave(c *fiber.Ctx) error {
	var in dto.LeaveRequestInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateLeave(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLeaves godoc
// @Summary      Listar solicitudes de ausencia
// @Tags         hr
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "pending, approved o rejected"
// @Success      200  {array}  entity.LeaveRequest
// @Router       /api/hr/leave-requests [get]
func (h *HRHandler) ListLeaves(c *fiber.Ctx) error {
	out, err := h.uc.ListLeaves(c.Context(), GetActor(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLeave GET /api/hr/leave-requests/:id
func (h *HRHandler) GetLeave(c *fiber.Ctx) error {
	out, err := h.uc.GetLeave(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateLeave PUT /api/hr/leave-requests/:id
func (h *HRHandler) UpdateLeave(c *fiber.Ctx) error {
	var in dto.LeaveRequestInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLeave(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReviewLeave godoc
// @Summary      Aprobar o rechazar una solicitud pendiente
// @Tags         hr
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la solicitud"
// @Param        body  body  dto.LeaveReviewRequest  true  "Decisión"
// @Success      200   {object}  entity.LeaveRequest
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/leave-requests/{id}/review [post]
func (h *HRHandler) ReviewLeave(c *fiber.Ctx) error {
	var in dto.LeaveReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReviewLeave(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLeave DELETE /api/hr/leave-requests/:id
func (h *HRHandler) DeleteLeave(c *fiber.Ctx) error {
	if err := h.uc.DeleteLeave(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAnnouncement godoc
// @Summary      Publicar aviso interno
// @Tags         hr
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnnouncementRequest  true  "Aviso"
// @Success      201   {object}  entity.Announcement
// @Router       /api/hr/announcements [post]
func (h *HRHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var in dto.AnnouncementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateAnnouncement(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAnnouncements GET /api/hr/announcements
func (h *HRHandler) ListAnnouncements(c *fiber.Ctx) error {
	out, err := h.uc.ListAnnouncements(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAnnouncement GET /api/hr/announcements/:id
func (h *HRHandler) GetAnnouncement(c *fiber.Ctx) error {
	out, err := h.uc.GetAnnouncement(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateAnnouncement PUT /api/hr/announcements/:id
func (h *HRHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	var in dto.AnnouncementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateAnnouncement(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteAnnouncement DELETE /api/hr/announcements/:id
func (h *HRHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	if err := h.uc.DeleteAnnouncement(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
