package repository

import (
	"context"
	"time"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// SummaryRepository define el puerto de persistencia para los resúmenes diarios.
type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	CreateLine(ctx context.Context, line *entity.SummaryLine) error
	GetByID(ctx context.Context, id string) (*entity.Summary, error)
	GetLines(ctx context.Context, summaryID string) ([]*entity.SummaryLine, error)
	// CountByDate cuenta resúmenes de la empresa para una fecha (numera el RC del día).
	CountByDate(ctx context.Context, companyID string, date time.Time) (int64, error)
	Update(ctx context.Context, summary *entity.Summary) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Summary, error)
}
