package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de resúmenes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSummaryRepo struct {
	summaries map[string]*entity.Summary
	lines     map[string][]*entity.SummaryLine
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{
		summaries: make(map[string]*entity.Summary),
		lines:     make(map[string][]*entity.SummaryLine),
	}
}

func (r *fakeSummaryRepo) Create(_ context.Context, s *entity.Summary) error {
	r.summaries[s.ID] = s
	return nil
}

func (r *fakeSummaryRepo) CreateLine(_ context.Context, l *entity.SummaryLine) error {
	r.lines[l.SummaryID] = append(r.lines[l.SummaryID], l)
	return nil
}

func (r *fakeSummaryRepo) GetByID(_ context.Context, id string) (*entity.Summary, error) {
	return r.summaries[id], nil
}

func (r *fakeSummaryRepo) GetLines(_ context.Context, summaryID string) ([]*entity.SummaryLine, error) {
	return r.lines[summaryID], nil
}

func (r *fakeSummaryRepo) CountByDate(_ context.Context, companyID string, date time.Time) (int64, error) {
	var n int64
	for _, s := range r.summaries {
		if s.CompanyID == companyID && s.ReferenceDate.Format("2006-01-02") == date.Format("2006-01-02") {
			n++
		}
	}
	return n, nil
}

func (r *fakeSummaryRepo) Update(_ context.Context, s *entity.Summary) error {
	r.summaries[s.ID] = s
	return nil
}

func (r *fakeSummaryRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Summary, error) {
	var out []*entity.Summary
	for _, s := range r.summaries {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type summaryFixture struct {
	uc          *SummaryUseCase
	summaryRepo *fakeSummaryRepo
	docRepo     *fakeDocRepo
	submitter   *fakeSubmitter
	files       *fakeFileStore
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	t.Helper()
	summaryRepo := newFakeSummaryRepo()
	docRepo := newFakeDocRepo()
	submitter := &fakeSubmitter{result: &SubmitResult{
		Ticket:    "1234567890123",
		SignedXML: []byte("<SummaryDocuments/>"),
	}}
	files := newFakeFileStore()
	companyRepo := &fakeCompanyRepo{companies: map[string]*entity.Company{
		empresaA: {ID: empresaA, RUC: "20123456789", RazonSocial: "ACME PERU S.A.C.", Status: "active"},
	}}
	uc := NewSummaryUseCase(summaryRepo, docRepo, companyRepo, submitter, files, logger.NewNop())
	return &summaryFixture{uc: uc, summaryRepo: summaryRepo, docRepo: docRepo, submitter: submitter, files: files}
}

// seedBoleta inserta una boleta persistida del día indicado.
func (f *summaryFixture) seedBoleta(id, status string, date time.Time, total int64) {
	f.docRepo.docs[id] = &entity.Document{
		ID:          id,
		CompanyID:   empresaA,
		Type:        entity.DocBoleta,
		Serie:       "B001",
		Correlativo: int64(len(f.docRepo.docs) + 1),
		IssueDate:   date,
		SunatStatus: status,
		Total:       decimal.NewFromInt(total),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create — resumen diario
// ──────────────────────────────────────────────────────────────────────────────

func TestSummaryCreate_AgrupaBoletasPendientes(t *testing.T) {
	f := newSummaryFixture(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedBoleta("b1", entity.SunatStatusDraft, day, 100)
	f.seedBoleta("b2", entity.SunatStatusDraft, day, 50)
	f.seedBoleta("b3", entity.SunatStatusAceptado, day, 30) // ya informada, no entra

	resp, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)

	assert.Equal(t, "RC-20260830-1", resp.Correlativo)
	assert.Equal(t, entity.SummaryStatusEnviado, resp.Status)
	assert.Equal(t, "1234567890123", resp.Ticket, "el ticket queda guardado para consultar el CDR después")
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(150)), "total: %s", resp.Total)
	assert.ElementsMatch(t, []string{"b1", "b2"}, resp.Documents)
}

func TestSummaryCreate_SegundoResumenDelDiaIncrementaElCorrelativo(t *testing.T) {
	f := newSummaryFixture(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedBoleta("b1", entity.SunatStatusDraft, day, 100)

	r1, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)
	require.Equal(t, "RC-20260830-1", r1.Correlativo)

	f.seedBoleta("b2", entity.SunatStatusDraft, day, 40)
	r2, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "RC-20260830-2", r2.Correlativo)
}

func TestSummaryCreate_SinBoletasPendientesEsInvalido(t *testing.T) {
	f := newSummaryFixture(t)

	_, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummaryCreate_EmpresaAjenaEsCrossTenant(t *testing.T) {
	f := newSummaryFixture(t)

	_, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		CompanyID:     empresaB,
		ReferenceDate: "2026-08-30",
	})
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckStatus — consulta del ticket
// ──────────────────────────────────────────────────────────────────────────────

func TestSummaryCheckStatus_CDRAceptadoPropagaALasBoletas(t *testing.T) {
	f := newSummaryFixture(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedBoleta("b1", entity.SunatStatusDraft, day, 100)
	f.seedBoleta("b2", entity.SunatStatusDraft, day, 50)

	created, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)

	// SUNAT procesó el ticket: CDR aceptado.
	f.submitter.result = &SubmitResult{
		Accepted:    true,
		Code:        "0",
		Description: "El Resumen ha sido aceptado",
		CDR:         []byte("zip-cdr"),
	}
	resp, err := f.uc.CheckStatus(context.Background(), emisorClaims(empresaA), created.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SummaryStatusAceptado, resp.Status)
	assert.Equal(t, "0", resp.Sunat.Code)
	assert.Equal(t, entity.SunatStatusAceptado, f.docRepo.docs["b1"].SunatStatus,
		"el estado del resumen se propaga a cada boleta incluida")
	assert.Equal(t, entity.SunatStatusAceptado, f.docRepo.docs["b2"].SunatStatus)
	assert.Contains(t, f.files.files, "companies/20123456789/cdr/R-20123456789-RC-20260830-1.zip")
}

func TestSummaryCheckStatus_SinCDRSigueEnviado(t *testing.T) {
	f := newSummaryFixture(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedBoleta("b1", entity.SunatStatusDraft, day, 100)

	created, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)

	// El ticket aún está en proceso: sin CDR ni código.
	f.submitter.result = &SubmitResult{}
	resp, err := f.uc.CheckStatus(context.Background(), emisorClaims(empresaA), created.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SummaryStatusEnviado, resp.Status)
	assert.Equal(t, entity.SunatStatusDraft, f.docRepo.docs["b1"].SunatStatus)
}

func TestSummaryCheckStatus_ResumenAjenoEsCrossTenant(t *testing.T) {
	f := newSummaryFixture(t)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	f.seedBoleta("b1", entity.SunatStatusDraft, day, 100)

	created, err := f.uc.Create(context.Background(), emisorClaims(empresaA), dto.CreateSummaryRequest{
		ReferenceDate: "2026-08-30",
	})
	require.NoError(t, err)

	_, err = f.uc.CheckStatus(context.Background(), emisorClaims(empresaB), created.ID)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}
