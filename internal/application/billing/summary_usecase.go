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

// SummaryUseCase maneja el resumen diario de boletas (RC): agrupa las boletas
// de un día, lo envía al colaborador y guarda el ticket. El CDR del resumen se
// consulta después con CheckStatus.
type SummaryUseCase struct {
	summaryRepo repository.SummaryRepository
	docRepo     repository.DocumentRepository
	companyRepo repository.CompanyRepository
	submitter   DocumentSubmitter
	files       FileStore
	log         *logger.Logger
	now         Clock
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(
	summaryRepo repository.SummaryRepository,
	docRepo repository.DocumentRepository,
	companyRepo repository.CompanyRepository,
	submitter DocumentSubmitter,
	files FileStore,
	log *logger.Logger,
) *SummaryUseCase {
	return &SummaryUseCase{
		summaryRepo: summaryRepo,
		docRepo:     docRepo,
		companyRepo: companyRepo,
		submitter:   submitter,
		files:       files,
		log:         log,
		now:         time.Now,
	}
}

// Create genera y envía el resumen diario de las boletas de la fecha indicada.
func (uc *SummaryUseCase) Create(ctx context.Context, claims tenant.Claims, in dto.CreateSummaryRequest) (*dto.SummaryResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilitySummariesManage); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveWriteCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}
	refDate, err := time.Parse("2006-01-02", in.ReferenceDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}

	boletas, err := uc.docRepo.ListBoletasByDate(ctx, companyID, refDate)
	if err != nil {
		return nil, err
	}
	// Solo boletas pendientes de informar.
	pending := boletas[:0]
	for _, b := range boletas {
		if b.SunatStatus == entity.SunatStatusDraft || b.SunatStatus == entity.SunatStatusErrorEnvio {
			pending = append(pending, b)
		}
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no hay boletas pendientes para %s", domain.ErrInvalidInput, in.ReferenceDate)
	}

	seq, err := uc.summaryRepo.CountByDate(ctx, companyID, refDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	total := decimal.Zero
	for _, b := range pending {
		total = total.Add(b.Total)
	}
	summary := &entity.Summary{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ReferenceDate: refDate,
		Correlativo:   fmt.Sprintf("RC-%s-%d", refDate.Format("20060102"), seq+1),
		Status:        entity.SummaryStatusDraft,
		Total:         total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.summaryRepo.Create(ctx, summary); err != nil {
		return nil, err
	}
	docIDs := make([]string, 0, len(pending))
	for _, b := range pending {
		docIDs = append(docIDs, b.ID)
		line := &entity.SummaryLine{ID: uuid.New().String(), SummaryID: summary.ID, DocumentID: b.ID}
		if err := uc.summaryRepo.CreateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	res, err := uc.submitter.SubmitSummary(ctx, &SummarySubmitRequest{
		Summary: summary,
		Company: company,
		Boletas: pending,
	})
	if err != nil {
		summary.SunatDescription = err.Error()
		summary.UpdatedAt = uc.now()
		_ = uc.summaryRepo.Update(ctx, summary)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if len(res.SignedXML) > 0 {
		path := fmt.Sprintf("companies/%s/xml/%s-%s.xml", company.RUC, company.RUC, summary.Correlativo)
		if err := uc.files.Put(ctx, path, res.SignedXML, "application/xml"); err != nil {
			uc.log.Warn().Err(err).Str("path", path).Msg("no se pudo guardar el XML del resumen")
		} else {
			summary.XMLPath = path
		}
	}
	summary.Ticket = res.Ticket
	summary.Status = entity.SummaryStatusEnviado
	summary.UpdatedAt = uc.now()
	if err := uc.summaryRepo.Update(ctx, summary); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("summary", summary.Correlativo).
		Str("ticket", summary.Ticket).
		Int("boletas", len(pending)).
		Msg("resumen diario enviado")

	return uc.toResponse(summary, docIDs), nil
}

// CheckStatus consulta el ticket del resumen y, si ya hay CDR, actualiza el
// estado del resumen y de cada boleta incluida.
func (uc *SummaryUseCase) CheckStatus(ctx context.Context, claims tenant.Claims, summaryID string) (*dto.SummaryResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilitySummariesManage); err != nil {
		return nil, err
	}
	summary, err := uc.summaryRepo.GetByID(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, summary.CompanyID); err != nil {
		return nil, err
	}
	if summary.Ticket == "" {
		return nil, domain.ErrConflict
	}
	if summary.Status == entity.SummaryStatusEnviado {
		res, err := uc.submitter.CheckTicket(ctx, summary.Ticket)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		// Sin CDR todavía: el resumen sigue ENVIADO.
		if len(res.CDR) > 0 || res.Code != "" {
			uc.applyTicketResult(ctx, summary, res)
		}
	}
	lines, err := uc.summaryRepo.GetLines(ctx, summary.ID)
	if err != nil {
		return nil, err
	}
	docIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		docIDs = append(docIDs, l.DocumentID)
	}
	return uc.toResponse(summary, docIDs), nil
}

// applyTicketResult persiste el resultado del CDR del resumen y propaga el
// estado a las boletas incluidas.
func (uc *SummaryUseCase) applyTicketResult(ctx context.Context, summary *entity.Summary, res *SubmitResult) {
	company, _ := uc.companyRepo.GetByID(ctx, summary.CompanyID)
	if len(res.CDR) > 0 && company != nil {
		path := fmt.Sprintf("companies/%s/cdr/R-%s-%s.zip", company.RUC, company.RUC, summary.Correlativo)
		if err := uc.files.Put(ctx, path, res.CDR, "application/zip"); err != nil {
			uc.log.Warn().Err(err).Str("path", path).Msg("no se pudo guardar el CDR del resumen")
		} else {
			summary.CDRPath = path
		}
	}
	if res.Accepted {
		summary.Status = entity.SummaryStatusAceptado
	} else {
		summary.Status = entity.SummaryStatusRechazado
	}
	summary.SunatCode = res.Code
	summary.SunatDescription = res.Description
	summary.UpdatedAt = uc.now()
	if err := uc.summaryRepo.Update(ctx, summary); err != nil {
		uc.log.Error().Err(err).Str("summary", summary.Correlativo).Msg("no se pudo persistir el resultado del resumen")
		return
	}

	lines, err := uc.summaryRepo.GetLines(ctx, summary.ID)
	if err != nil {
		return
	}
	status := entity.SunatStatusAceptado
	if !res.Accepted {
		status = entity.SunatStatusRechazado
	}
	for _, l := range lines {
		doc, err := uc.docRepo.GetByID(ctx, l.DocumentID)
		if err != nil || doc == nil {
			continue
		}
		doc.SunatStatus = status
		doc.SunatCode = res.Code
		doc.SunatDescription = res.Description
		doc.UpdatedAt = uc.now()
		if err := uc.docRepo.UpdateSunat(ctx, doc); err != nil {
			uc.log.Warn().Err(err).Str("document_id", doc.ID).Msg("no se pudo propagar el estado del resumen")
		}
	}
}

// List lista los resúmenes de la empresa del actor.
func (uc *SummaryUseCase) List(ctx context.Context, claims tenant.Claims, requestedCompanyID string, page dto.PageRequest) ([]*dto.SummaryResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsRead); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveReadCompany(claims, requestedCompanyID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	summaries, err := uc.summaryRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, uc.toResponse(s, nil))
	}
	return out, nil
}

func (uc *SummaryUseCase) toResponse(s *entity.Summary, docIDs []string) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		ReferenceDate: s.ReferenceDate.Format("2006-01-02"),
		Correlativo:   s.Correlativo,
		Ticket:        s.Ticket,
		Status:        s.Status,
		Total:         s.Total,
		Sunat: dto.SunatResult{
			Status:      s.Status,
			Code:        s.SunatCode,
			Description: s.SunatDescription,
			Ticket:      s.Ticket,
		},
		Documents: docIDs,
		CreatedAt: s.CreatedAt,
	}
}
