package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
	"github.com/facturaloperu/facturacion-api/pkg/logger"
)

// EmitDocumentUseCase emite un comprobante: reserva correlativo y persiste en
// una transacción, luego envía de forma síncrona al colaborador de facturación
// y guarda los artefactos (XML firmado y CDR) en el file store.
//
// El resultado del colaborador se le devuelve al caller tal cual (código y
// descripción del CDR); no hay reintentos automáticos.
type EmitDocumentUseCase struct {
	txRunner    BillingTxRunner
	docRepo     repository.DocumentRepository
	companyRepo repository.CompanyRepository
	branchRepo  repository.BranchRepository
	clientRepo  repository.ClientRepository
	submitter   DocumentSubmitter
	files       FileStore
	log         *logger.Logger
	now         Clock
}

// NewEmitDocumentUseCase construye el caso de uso.
func NewEmitDocumentUseCase(
	txRunner BillingTxRunner,
	docRepo repository.DocumentRepository,
	companyRepo repository.CompanyRepository,
	branchRepo repository.BranchRepository,
	clientRepo repository.ClientRepository,
	submitter DocumentSubmitter,
	files FileStore,
	log *logger.Logger,
) *EmitDocumentUseCase {
	return &EmitDocumentUseCase{
		txRunner:    txRunner,
		docRepo:     docRepo,
		companyRepo: companyRepo,
		branchRepo:  branchRepo,
		clientRepo:  clientRepo,
		submitter:   submitter,
		files:       files,
		log:         log,
		now:         time.Now,
	}
}

// Emit valida, persiste en DRAFT y envía el comprobante.
func (uc *EmitDocumentUseCase) Emit(ctx context.Context, claims tenant.Claims, in dto.EmitDocumentRequest) (*dto.DocumentResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsEmit); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveWriteCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}

	if !entity.ValidSerie(in.Type, in.Serie) || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	isNote := in.Type == entity.DocNotaCredito || in.Type == entity.DocNotaDebito
	if isNote && (in.AffectedID == "" || in.NoteTypeCode == "") {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.Status != "active" {
		return nil, domain.ErrConflict
	}

	branch, err := uc.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, branch.CompanyID); err != nil {
		return nil, err
	}
	// Para super_admin el gate de objeto no aplica; la sucursal igual debe ser
	// de la empresa emisora del comprobante.
	if branch.CompanyID != companyID {
		return nil, domain.ErrCrossTenant
	}

	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, client.CompanyID); err != nil {
		return nil, err
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrCrossTenant
	}
	// Las facturas exigen receptor con RUC (catálogo 06 = "6").
	if in.Type == entity.DocFactura && client.DocType != entity.DocTypeRUC {
		return nil, domain.ErrInvalidInput
	}

	var affected *entity.Document
	if isNote {
		affected, err = uc.docRepo.GetByID(ctx, in.AffectedID)
		if err != nil || affected == nil {
			return nil, domain.ErrNotFound
		}
		if err := tenant.AuthorizeRecord(claims, affected.CompanyID); err != nil {
			return nil, err
		}
		if affected.CompanyID != companyID {
			return nil, domain.ErrCrossTenant
		}
		if affected.SunatStatus != entity.SunatStatusAceptado {
			return nil, domain.ErrConflict // solo se anota sobre comprobantes aceptados
		}
	}

	now := uc.now()
	issueDate := now
	if in.IssueDate != "" {
		issueDate, err = time.Parse("2006-01-02", in.IssueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	currency := in.Currency
	if currency == "" {
		currency = "PEN"
	}

	lines, gravado, igv, total, err := buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		BranchID:     branch.ID,
		ClientID:     client.ID,
		Type:         in.Type,
		Serie:        in.Serie,
		IssueDate:    issueDate,
		Currency:     currency,
		Gravado:      gravado,
		IGV:          igv,
		Total:        total,
		AffectedID:   in.AffectedID,
		NoteTypeCode: in.NoteTypeCode,
		NoteReason:   in.NoteReason,
		SunatStatus:  entity.SunatStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range lines {
		l.DocumentID = doc.ID
	}

	// Reserva de correlativo + inserts en una sola transacción.
	err = uc.txRunner.RunBilling(ctx, func(txDocRepo repository.DocumentRepository) error {
		n, err := txDocRepo.NextCorrelativo(ctx, companyID, in.Serie)
		if err != nil {
			return err
		}
		doc.Correlativo = n
		if err := txDocRepo.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range lines {
			if err := txDocRepo.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Las boletas no se envían individualmente: viajan en el resumen diario.
	if doc.Type == entity.DocBoleta {
		return uc.toResponse(doc, client.Name, lines), nil
	}

	if err := uc.submit(ctx, doc, company, client, lines, affected); err != nil {
		return nil, err
	}
	return uc.toResponse(doc, client.Name, lines), nil
}

// Resend reintenta el envío de un comprobante en DRAFT o ERROR_ENVIO.
// Los rechazos de SUNAT no se reenvían: exigen una nota o un nuevo comprobante.
func (uc *EmitDocumentUseCase) Resend(ctx context.Context, claims tenant.Claims, docID string) (*dto.DocumentResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsEmit); err != nil {
		return nil, err
	}
	doc, err := uc.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, doc.CompanyID); err != nil {
		return nil, err
	}
	if doc.SunatStatus != entity.SunatStatusDraft && doc.SunatStatus != entity.SunatStatusErrorEnvio {
		return nil, domain.ErrConflict
	}
	if doc.Type == entity.DocBoleta {
		return nil, domain.ErrConflict // las boletas viajan en el resumen diario
	}

	company, err := uc.companyRepo.GetByID(ctx, doc.CompanyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(ctx, doc.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.docRepo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	var affected *entity.Document
	if doc.AffectedID != "" {
		affected, _ = uc.docRepo.GetByID(ctx, doc.AffectedID)
	}

	if err := uc.submit(ctx, doc, company, client, lines, affected); err != nil {
		return nil, err
	}
	return uc.toResponse(doc, client.Name, lines), nil
}

// submit envía al colaborador, guarda artefactos y persiste el resultado.
func (uc *EmitDocumentUseCase) submit(
	ctx context.Context,
	doc *entity.Document,
	company *entity.Company,
	client *entity.Client,
	lines []*entity.DocumentLine,
	affected *entity.Document,
) error {
	res, err := uc.submitter.SubmitDocument(ctx, &SubmitRequest{
		Document: doc,
		Company:  company,
		Client:   client,
		Lines:    lines,
		Affected: affected,
	})
	if err != nil {
		doc.SunatStatus = entity.SunatStatusErrorEnvio
		doc.SunatDescription = err.Error()
		doc.UpdatedAt = uc.now()
		if upErr := uc.docRepo.UpdateSunat(ctx, doc); upErr != nil {
			uc.log.Error().Err(upErr).Str("document_id", doc.ID).Msg("no se pudo persistir ERROR_ENVIO")
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	name := company.RUC + "-" + doc.Type + "-" + doc.Name()
	if len(res.SignedXML) > 0 {
		path := fmt.Sprintf("companies/%s/xml/%s.xml", company.RUC, name)
		if err := uc.files.Put(ctx, path, res.SignedXML, "application/xml"); err != nil {
			uc.log.Warn().Err(err).Str("path", path).Msg("no se pudo guardar el XML firmado")
		} else {
			doc.XMLPath = path
		}
	}
	if len(res.CDR) > 0 {
		path := fmt.Sprintf("companies/%s/cdr/R-%s.zip", company.RUC, name)
		if err := uc.files.Put(ctx, path, res.CDR, "application/zip"); err != nil {
			uc.log.Warn().Err(err).Str("path", path).Msg("no se pudo guardar el CDR")
		} else {
			doc.CDRPath = path
		}
	}

	if res.Accepted {
		doc.SunatStatus = entity.SunatStatusAceptado
	} else {
		doc.SunatStatus = entity.SunatStatusRechazado
	}
	doc.SunatCode = res.Code
	doc.SunatDescription = res.Description
	doc.Hash = res.Hash
	doc.UpdatedAt = uc.now()
	if err := uc.docRepo.UpdateSunat(ctx, doc); err != nil {
		return err
	}

	uc.log.Info().
		Str("document", doc.Name()).
		Str("status", doc.SunatStatus).
		Str("sunat_code", doc.SunatCode).
		Msg("comprobante enviado")
	return nil
}

// GetDocument obtiene un comprobante por ID con sus líneas (gate de objeto incluido).
func (uc *EmitDocumentUseCase) GetDocument(ctx context.Context, claims tenant.Claims, id string) (*dto.DocumentResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsRead); err != nil {
		return nil, err
	}
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, doc.CompanyID); err != nil {
		return nil, err
	}
	lines, err := uc.docRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(ctx, doc.ClientID); client != nil {
		clientName = client.Name
	}
	return uc.toResponse(doc, clientName, lines), nil
}

// ListDocuments lista comprobantes con el filtro de empresa resuelto por la política tenant.
func (uc *EmitDocumentUseCase) ListDocuments(ctx context.Context, claims tenant.Claims, in dto.ListDocumentsRequest) ([]*dto.DocumentResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsRead); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveReadCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	f := repository.DocumentFilter{
		CompanyID: companyID,
		Type:      in.Type,
		Serie:     in.Serie,
		Status:    in.Status,
		ClientID:  in.ClientID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.From != "" {
		t, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.To = &t
	}
	docs, err := uc.docRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, uc.toResponse(d, "", nil))
	}
	return out, nil
}

// buildLines normaliza las líneas y calcula los totales declarados.
// Tasa > 1 se interpreta como porcentaje (18 -> 0.18), igual que el resto de
// montos decimales del sistema. Tasa 0 = línea exonerada/inafecta.
func buildLines(in []dto.EmitLineRequest) (lines []*entity.DocumentLine, gravado, igv, total decimal.Decimal, err error) {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	for _, item := range in {
		if item.Description == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, decimal.Zero, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		rate := item.IGVRate
		if rate.GreaterThan(one) {
			rate = rate.Div(hundred)
		}
		unitCode := item.UnitCode
		if unitCode == "" {
			unitCode = "NIU"
		}
		subtotal := item.Quantity.Mul(item.UnitPrice)
		line := &entity.DocumentLine{
			ID:          uuid.New().String(),
			Description: item.Description,
			UnitCode:    unitCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			IGVRate:     rate,
			Subtotal:    subtotal,
		}
		lines = append(lines, line)
		if rate.GreaterThan(decimal.Zero) {
			gravado = gravado.Add(subtotal)
		}
		igv = igv.Add(subtotal.Mul(rate))
		total = total.Add(subtotal)
	}
	total = total.Add(igv)
	return lines, gravado, igv, total, nil
}

func (uc *EmitDocumentUseCase) toResponse(doc *entity.Document, clientName string, lines []*entity.DocumentLine) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:          doc.ID,
		CompanyID:   doc.CompanyID,
		BranchID:    doc.BranchID,
		ClientID:    doc.ClientID,
		ClientName:  clientName,
		Type:        doc.Type,
		Serie:       doc.Serie,
		Correlativo: doc.Correlativo,
		Name:        doc.Name(),
		IssueDate:   doc.IssueDate.Format("2006-01-02"),
		Currency:    doc.Currency,
		Gravado:     doc.Gravado,
		IGV:         doc.IGV,
		Total:       doc.Total,
		AffectedID:  doc.AffectedID,
		Sunat: dto.SunatResult{
			Status:      doc.SunatStatus,
			Code:        doc.SunatCode,
			Description: doc.SunatDescription,
			Hash:        doc.Hash,
		},
		CreatedAt: doc.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.LineResponse{
			ID:          l.ID,
			Description: l.Description,
			UnitCode:    l.UnitCode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			IGVRate:     l.IGVRate,
			Subtotal:    l.Subtotal,
		})
	}
	return resp
}
