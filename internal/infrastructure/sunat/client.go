// Package sunat implementa el cliente del colaborador de facturación
// electrónica: el servicio externo que firma el XML UBL, calcula el IGV y
// habla SOAP con SUNAT. Esta API solo consume su contrato REST y persiste
// los artefactos que devuelve.
package sunat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/pkg/config"
)

var _ billing.DocumentSubmitter = (*Client)(nil)

// Client implementa billing.DocumentSubmitter contra el servicio colaborador.
type Client struct {
	baseURL    string
	apiToken   string
	env        string
	httpClient *http.Client
}

// NewClient construye el cliente con un timeout de red generoso (60 s): el
// colaborador espera la respuesta síncrona de SUNAT antes de contestar.
func NewClient(cfg config.SUNATConfig) *Client {
	return &Client{
		baseURL:    cfg.ServiceURL,
		apiToken:   cfg.APIToken,
		env:        cfg.Env,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ── Contrato JSON del colaborador ─────────────────────────────────────────────

type documentPayload struct {
	Env      string         `json:"env"` // beta | prod
	Company  companyPayload `json:"company"`
	Client   partyPayload   `json:"client"`
	Document struct {
		Type         string          `json:"tipo_doc"`
		Serie        string          `json:"serie"`
		Correlativo  int64           `json:"correlativo"`
		IssueDate    string          `json:"fecha_emision"`
		Currency     string          `json:"moneda"`
		Gravado      decimal.Decimal `json:"mto_oper_gravadas"`
		IGV          decimal.Decimal `json:"mto_igv"`
		Total        decimal.Decimal `json:"mto_imp_venta"`
		NoteTypeCode string          `json:"cod_motivo,omitempty"`
		NoteReason   string          `json:"des_motivo,omitempty"`
		AffectedDoc  string          `json:"num_doc_afectado,omitempty"`
		AffectedType string          `json:"tipo_doc_afectado,omitempty"`
	} `json:"document"`
	Lines []linePayload `json:"lines"`
}

type companyPayload struct {
	RUC         string `json:"ruc"`
	RazonSocial string `json:"razon_social"`
	Ubigeo      string `json:"ubigeo,omitempty"`
	Address     string `json:"direccion,omitempty"`
	SOLUser     string `json:"usuario_sol"`
}

type partyPayload struct {
	DocType   string `json:"tipo_doc"`
	DocNumber string `json:"num_doc"`
	Name      string `json:"rzn_social"`
	Address   string `json:"direccion,omitempty"`
}

type linePayload struct {
	Description string          `json:"descripcion"`
	UnitCode    string          `json:"unidad"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"mto_valor_unitario"`
	IGVRate     decimal.Decimal `json:"porcentaje_igv"`
	Subtotal    decimal.Decimal `json:"mto_valor_venta"`
}

type summaryPayload struct {
	Env           string          `json:"env"`
	Company       companyPayload  `json:"company"`
	ReferenceDate string          `json:"fecha_referencia"`
	Correlativo   string          `json:"correlativo"`
	Total         decimal.Decimal `json:"total"`
	Boletas       []boletaPayload `json:"boletas"`
}

type boletaPayload struct {
	Serie       string          `json:"serie"`
	Correlativo int64           `json:"correlativo"`
	ClientDoc   string          `json:"num_doc_cliente"`
	Total       decimal.Decimal `json:"total"`
}

// submitResponse respuesta común del colaborador. XML y CDR llegan en Base64.
type submitResponse struct {
	Accepted    bool   `json:"accepted"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Hash        string `json:"hash,omitempty"`
	Ticket      string `json:"ticket,omitempty"`
	SignedXML   string `json:"signed_xml,omitempty"`
	CDR         string `json:"cdr,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// SubmitDocument entrega un comprobante al colaborador y espera el CDR.
func (c *Client) SubmitDocument(ctx context.Context, req *billing.SubmitRequest) (*billing.SubmitResult, error) {
	var p documentPayload
	p.Env = c.env
	p.Company = toCompanyPayload(req.Company)
	p.Client = partyPayload{
		DocType:   req.Client.DocType,
		DocNumber: req.Client.DocNumber,
		Name:      req.Client.Name,
		Address:   req.Client.Address,
	}
	p.Document.Type = req.Document.Type
	p.Document.Serie = req.Document.Serie
	p.Document.Correlativo = req.Document.Correlativo
	p.Document.IssueDate = req.Document.IssueDate.Format("2006-01-02")
	p.Document.Currency = req.Document.Currency
	p.Document.Gravado = req.Document.Gravado
	p.Document.IGV = req.Document.IGV
	p.Document.Total = req.Document.Total
	if req.Affected != nil {
		p.Document.NoteTypeCode = req.Document.NoteTypeCode
		p.Document.NoteReason = req.Document.NoteReason
		p.Document.AffectedDoc = req.Affected.Name()
		p.Document.AffectedType = req.Affected.Type
	}
	for _, l := range req.Lines {
		p.Lines = append(p.Lines, linePayload{
			Description: l.Description,
			UnitCode:    l.UnitCode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			IGVRate:     l.IGVRate,
			Subtotal:    l.Subtotal,
		})
	}
	return c.post(ctx, "/api/v1/documents", p)
}

// SubmitSummary entrega un resumen diario de boletas. El colaborador devuelve
// un ticket; el CDR se consulta después con CheckTicket.
func (c *Client) SubmitSummary(ctx context.Context, req *billing.SummarySubmitRequest) (*billing.SubmitResult, error) {
	p := summaryPayload{
		Env:           c.env,
		Company:       toCompanyPayload(req.Company),
		ReferenceDate: req.Summary.ReferenceDate.Format("2006-01-02"),
		Correlativo:   req.Summary.Correlativo,
		Total:         req.Summary.Total,
	}
	for _, b := range req.Boletas {
		p.Boletas = append(p.Boletas, boletaPayload{
			Serie:       b.Serie,
			Correlativo: b.Correlativo,
			ClientDoc:   b.ClientID,
			Total:       b.Total,
		})
	}
	return c.post(ctx, "/api/v1/summaries", p)
}

// CheckTicket consulta el estado de un resumen enviado.
func (c *Client) CheckTicket(ctx context.Context, ticket string) (*billing.SubmitResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/tickets/"+ticket, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(httpReq)
}

func toCompanyPayload(company *entity.Company) companyPayload {
	return companyPayload{
		RUC:         company.RUC,
		RazonSocial: company.RazonSocial,
		Ubigeo:      company.Ubigeo,
		Address:     company.Address,
		SOLUser:     company.SOLUser,
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) (*billing.SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) (*billing.SubmitResult, error) {
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Fallo de transporte: el caller lo marca ERROR_ENVIO y permite reenviar.
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode >= 500 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return nil, fmt.Errorf("%w: colaborador %d: %s", domain.ErrUpstream, resp.StatusCode, e.Message)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return nil, fmt.Errorf("%w: colaborador %d: %s", domain.ErrInvalidInput, resp.StatusCode, e.Message)
	}

	var sr submitResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}

	result := &billing.SubmitResult{
		Accepted:    sr.Accepted,
		Code:        sr.Code,
		Description: sr.Description,
		Hash:        sr.Hash,
		Ticket:      sr.Ticket,
	}
	if sr.SignedXML != "" {
		xml, err := base64.StdEncoding.DecodeString(sr.SignedXML)
		if err != nil {
			return nil, fmt.Errorf("%w: decode signed xml: %v", domain.ErrUpstream, err)
		}
		result.SignedXML = xml
	}
	if sr.CDR != "" {
		cdr, err := base64.StdEncoding.DecodeString(sr.CDR)
		if err != nil {
			return nil, fmt.Errorf("%w: decode cdr: %v", domain.ErrUpstream, err)
		}
		result.CDR = cdr
		// El zip trae el ApplicationResponse con el veredicto oficial; si se
		// puede leer, manda sobre lo reportado en el JSON.
		if verdict, err := ParseCDR(cdr); err == nil {
			result.Code = verdict.Code
			result.Description = verdict.Description
			result.Accepted = verdict.Accepted()
		}
	}
	return result, nil
}
