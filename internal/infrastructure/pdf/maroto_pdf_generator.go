// Package pdf implementa la representación impresa del comprobante electrónico
// SUNAT (factura, boleta, notas de crédito y débito).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  Tipo + Serie-Correlativo     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  ADQUIRIENTE: Nombre + DNI/RUC                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | V.Unit | IGV% | Valor venta     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Op. gravadas / IGV / IMPORTE TOTAL                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Hash del XML firmado + QR + Leyenda                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

var decimalHundred = decimal.NewFromInt(100)

var _ appbilling.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 153, Green: 27, Blue: 27}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDocumentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(
	_ context.Context,
	doc *entity.Document,
	company *entity.Company,
	client *entity.Client,
	lines []*entity.DocumentLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTypeTitle(doc.Type)+" "+doc.Name(), true).
		WithAuthor(company.RazonSocial, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(company))
	m.AddRows(adquirienteRow(client))
	if doc.AffectedID != "" {
		m.AddRows(notaRow(doc))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc, company) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func docTypeTitle(docType string) string {
	switch docType {
	case entity.DocFactura:
		return "FACTURA ELECTRÓNICA"
	case entity.DocBoleta:
		return "BOLETA DE VENTA ELECTRÓNICA"
	case entity.DocNotaCredito:
		return "NOTA DE CRÉDITO ELECTRÓNICA"
	case entity.DocNotaDebito:
		return "NOTA DE DÉBITO ELECTRÓNICA"
	}
	return "COMPROBANTE ELECTRÓNICO"
}

// headerRow: razón social + RUC (izq) y tipo + serie-correlativo (der).
func headerRow(doc *entity.Document, company *entity.Company) core.Row {
	fecha := doc.IssueDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+company.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docTypeTitle(doc.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Name(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha de emisión: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del emisor.
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// adquirienteRow: datos del receptor.
func adquirienteRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ADQUIRIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s: %s   |   Dirección: %s",
				docIDLabel(client.DocType),
				client.DocNumber,
				nonEmpty(client.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// notaRow: motivo y comprobante afectado (solo notas de crédito/débito).
func notaRow(doc *entity.Document) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Documento que modifica: %s   |   Motivo (%s): %s",
				doc.AffectedID, doc.NoteTypeCode, nonEmpty(doc.NoteReason, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func docIDLabel(docType string) string {
	switch docType {
	case entity.DocTypeDNI:
		return "DNI"
	case entity.DocTypeRUC:
		return "RUC"
	case entity.DocTypeCE:
		return "C.E."
	case entity.DocTypePAS:
		return "Pasaporte"
	}
	return "Doc."
}

// tableHeaderRow: cabecera de la tabla de detalle.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("V. Unit.", 2, align.Right),
		h("IGV%", 1, align.Center),
		h("Valor venta", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea.
func tableDetailRows(lines []*entity.DocumentLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		igvPct := l.IGVRate.Mul(decimalHundred).StringFixed(0)
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"S/ "+l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				igvPct+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				"S/ "+l.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(doc *entity.Document) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	moneda := doc.Currency
	if moneda == "" {
		moneda = "PEN"
	}
	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Op. gravadas:"),
			label("IGV:"),
			grandLabel("IMPORTE TOTAL ("+moneda+"):"),
		),
		col.New(3).Add(
			value("S/ "+doc.Gravado.StringFixed(2)),
			value("S/ "+doc.IGV.StringFixed(2)),
			grandValue("S/ "+doc.Total.StringFixed(2)),
		),
		col.New(2),
	)
}

// footerRows: hash del XML firmado + QR + leyenda.
func footerRows(doc *entity.Document, company *entity.Company) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA SUNAT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if doc.Hash != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Resumen (hash) del XML firmado: "+doc.Hash, props.Text{
				Size: 7, Top: 1, Color: colorGray,
			}),
		)))
	}

	rows = append(rows, row.New(3))

	// Contenido estándar del QR: RUC|tipo|serie|correlativo|IGV|total|fecha|tipoDocCliente|numDocCliente
	qr := strings.Join([]string{
		company.RUC, doc.Type, doc.Serie, fmt.Sprintf("%d", doc.Correlativo),
		doc.IGV.StringFixed(2), doc.Total.StringFixed(2),
		doc.IssueDate.Format("2006-01-02"),
	}, "|")
	rows = append(rows, row.New(40).Add(
		col.New(4).Add(code.NewQr(qr, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Representación impresa del comprobante electrónico.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Consulte el documento en el portal de SUNAT.", props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
