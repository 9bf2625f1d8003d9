package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// SummaryHandler maneja los resúmenes diarios de boletas (protegido).
type SummaryHandler struct {
	uc *billing.SummaryUseCase
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(uc *billing.SummaryUseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// Create godoc
// @Summary      Generar y enviar el resumen diario de boletas (RC)
// @Description  Agrupa las boletas pendientes del día y las envía al servicio de facturación; devuelve el ticket.
// @Tags         summaries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSummaryRequest  true  "Fecha de referencia"
// @Success      201   {object}  dto.Envelope{data=dto.SummaryResponse}
// @Failure      404   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Failure      502   {object}  dto.Envelope
// @Router       /api/v1/summaries [post]
func (h *SummaryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSummaryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.ReferenceDate == "" {
		return respondError(c, fmt.Errorf("%w: reference_date es requerido (YYYY-MM-DD)", domain.ErrInvalidInput))
	}
	out, err := h.uc.Create(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// CheckStatus godoc
// @Summary      Consultar el estado del resumen con su ticket
// @Description  Consulta el ticket en el servicio de facturación y propaga el veredicto a las boletas incluidas.
// @Tags         summaries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del resumen"
// @Success      200  {object}  dto.Envelope{data=dto.SummaryResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/summaries/{id}/status [get]
func (h *SummaryHandler) CheckStatus(c *fiber.Ctx) error {
	out, err := h.uc.CheckStatus(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar resúmenes diarios
// @Tags         summaries
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Solo super_admin: empresa a listar"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.Envelope{data=[]dto.SummaryResponse}
// @Router       /api/v1/summaries [get]
func (h *SummaryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetClaims(c), c.Query("company_id"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}
