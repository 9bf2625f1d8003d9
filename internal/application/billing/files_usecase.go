package billing

import (
	"context"
	"fmt"

	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

// FilesUseCase descarga los artefactos de un comprobante: XML firmado, CDR y
// la representación impresa en PDF. El PDF se genera en la primera descarga y
// se cachea en el file store.
type FilesUseCase struct {
	docRepo     repository.DocumentRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	files       FileStore
	generator   DocumentPDFGenerator
}

// NewFilesUseCase construye el caso de uso.
func NewFilesUseCase(
	docRepo repository.DocumentRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	files FileStore,
	generator DocumentPDFGenerator,
) *FilesUseCase {
	return &FilesUseCase{
		docRepo:     docRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		files:       files,
		generator:   generator,
	}
}

// loadAuthorized carga el comprobante y aplica el gate de objeto.
func (uc *FilesUseCase) loadAuthorized(ctx context.Context, claims tenant.Claims, docID string) (*entity.Document, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityDocumentsRead); err != nil {
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
	return doc, nil
}

// DownloadXML devuelve el XML firmado del comprobante.
func (uc *FilesUseCase) DownloadXML(ctx context.Context, claims tenant.Claims, docID string) ([]byte, string, error) {
	doc, err := uc.loadAuthorized(ctx, claims, docID)
	if err != nil {
		return nil, "", err
	}
	if doc.XMLPath == "" {
		return nil, "", domain.ErrNotFound
	}
	data, err := uc.files.Get(ctx, doc.XMLPath)
	if err != nil {
		return nil, "", err
	}
	return data, doc.Name() + ".xml", nil
}

// DownloadCDR devuelve el CDR (zip) devuelto por SUNAT.
func (uc *FilesUseCase) DownloadCDR(ctx context.Context, claims tenant.Claims, docID string) ([]byte, string, error) {
	doc, err := uc.loadAuthorized(ctx, claims, docID)
	if err != nil {
		return nil, "", err
	}
	if doc.CDRPath == "" {
		return nil, "", domain.ErrNotFound
	}
	data, err := uc.files.Get(ctx, doc.CDRPath)
	if err != nil {
		return nil, "", err
	}
	return data, "R-" + doc.Name() + ".zip", nil
}

// DownloadPDF devuelve la representación impresa. Un comprobante en DRAFT
// todavía no tiene valor tributario, así que no se imprime.
func (uc *FilesUseCase) DownloadPDF(ctx context.Context, claims tenant.Claims, docID string) ([]byte, string, error) {
	doc, err := uc.loadAuthorized(ctx, claims, docID)
	if err != nil {
		return nil, "", err
	}
	if doc.SunatStatus == entity.SunatStatusDraft && doc.Type != entity.DocBoleta {
		return nil, "", fmt.Errorf("%w: el comprobante está en estado %s", domain.ErrInvalidInput, doc.SunatStatus)
	}
	filename := doc.Name() + ".pdf"

	if doc.PDFPath != "" {
		data, err := uc.files.Get(ctx, doc.PDFPath)
		if err == nil {
			return data, filename, nil
		}
		// Cache perdido: se regenera abajo.
	}

	company, err := uc.companyRepo.GetByID(ctx, doc.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	client, err := uc.clientRepo.GetByID(ctx, doc.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if company == nil || client == nil {
		return nil, "", domain.ErrNotFound
	}
	lines, err := uc.docRepo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, "", err
	}

	data, err := uc.generator.GenerateDocumentPDF(ctx, doc, company, client, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}

	path := fmt.Sprintf("companies/%s/pdf/%s", company.RUC, filename)
	if err := uc.files.Put(ctx, path, data, "application/pdf"); err == nil {
		doc.PDFPath = path
		_ = uc.docRepo.UpdateSunat(ctx, doc)
	}
	return data, filename, nil
}
