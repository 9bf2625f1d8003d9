package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// DocumentHandler maneja emisión, consulta y descargas de comprobantes (protegido).
type DocumentHandler struct {
	emitUC  *billing.EmitDocumentUseCase
	filesUC *billing.FilesUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(emitUC *billing.EmitDocumentUseCase, filesUC *billing.FilesUseCase) *DocumentHandler {
	return &DocumentHandler{emitUC: emitUC, filesUC: filesUC}
}

// Emit godoc
// @Summary      Emitir comprobante (factura, boleta o nota)
// @Description  Reserva el correlativo, persiste y envía al servicio de facturación. Las boletas quedan en borrador para el resumen diario.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmitDocumentRequest  true  "Datos del comprobante"
// @Success      201   {object}  dto.Envelope{data=dto.DocumentResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Failure      502   {object}  dto.Envelope
// @Router       /api/v1/documents [post]
func (h *DocumentHandler) Emit(c *fiber.Ctx) error {
	var in dto.EmitDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.BranchID == "" || in.ClientID == "" || in.Type == "" || in.Serie == "" {
		return respondError(c, fmt.Errorf("%w: branch_id, client_id, type y serie son requeridos", domain.ErrInvalidInput))
	}
	if len(in.Lines) == 0 {
		return respondError(c, fmt.Errorf("%w: el comprobante necesita al menos una línea", domain.ErrInvalidInput))
	}
	out, err := h.emitUC.Emit(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener comprobante por ID (con líneas y estado SUNAT)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.Envelope{data=dto.DocumentResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.emitUC.GetDocument(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar comprobantes con filtros
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Solo super_admin: empresa a listar"
// @Param        type        query  string  false  "01, 03, 07, 08"
// @Param        serie       query  string  false  "Serie (F001...)"
// @Param        status      query  string  false  "DRAFT, ACEPTADO, RECHAZADO, ERROR_ENVIO"
// @Param        client_id   query  string  false  "Cliente"
// @Param        from        query  string  false  "Fecha desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Fecha hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.Envelope{data=[]dto.DocumentResponse}
// @Router       /api/v1/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	in := dto.ListDocumentsRequest{
		PageRequest: page,
		CompanyID:   c.Query("company_id"),
		Type:        c.Query("type"),
		Serie:       c.Query("serie"),
		Status:      c.Query("status"),
		ClientID:    c.Query("client_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}
	out, err := h.emitUC.ListDocuments(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Resend godoc
// @Summary      Reenviar un comprobante en DRAFT o ERROR_ENVIO
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.Envelope{data=dto.DocumentResponse}
// @Failure      409  {object}  dto.Envelope
// @Router       /api/v1/documents/{id}/send [post]
func (h *DocumentHandler) Resend(c *fiber.Ctx) error {
	out, err := h.emitUC.Resend(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DownloadXML godoc
// @Summary      Descargar XML firmado
// @Tags         documents
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200 {file}  binary
// @Failure      404 {object}  dto.Envelope
// @Router       /api/v1/documents/{id}/xml [get]
func (h *DocumentHandler) DownloadXML(c *fiber.Ctx) error {
	data, name, err := h.filesUC.DownloadXML(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, name, "application/xml")
}

// DownloadCDR godoc
// @Summary      Descargar CDR (zip)
// @Tags         documents
// @Security     Bearer
// @Produce      application/zip
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200 {file}  binary
// @Failure      404 {object}  dto.Envelope
// @Router       /api/v1/documents/{id}/cdr [get]
func (h *DocumentHandler) DownloadCDR(c *fiber.Ctx) error {
	data, name, err := h.filesUC.DownloadCDR(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, name, "application/zip")
}

// DownloadPDF godoc
// @Summary      Descargar representación impresa (PDF)
// @Description  Se genera en la primera descarga y se cachea en el almacén de artefactos.
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del comprobante"
// @Success      200 {file}  binary
// @Failure      404 {object}  dto.Envelope
// @Router       /api/v1/documents/{id}/pdf [get]
func (h *DocumentHandler) DownloadPDF(c *fiber.Ctx) error {
	data, name, err := h.filesUC.DownloadPDF(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, name, "application/pdf")
}

func sendFile(c *fiber.Ctx, data []byte, name, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
