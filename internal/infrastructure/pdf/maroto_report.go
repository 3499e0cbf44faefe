// Package pdf implementa el reporte descargable del listado de facturas de viaje.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tiquete | Reserva | Agente | Fecha | Monto           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros + suma de montos                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/facturas-viajes-api/internal/application/ports"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/entity"
)

var _ ports.InvoiceReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.InvoiceReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateListingPDF genera el PDF del listado y devuelve sus bytes.
// Las facturas llegan ya filtradas/ordenadas por el motor de listado.
func (g *MarotoReportGenerator) GenerateListingPDF(
	_ context.Context,
	invoices []entity.Invoice,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de facturas de viaje", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, inv := range invoices {
		m.AddRows(detailRow(inv))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoices))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow() core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Facturas de viaje", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Top: 3, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(8).Add(
		header("Tiquete", 3),
		header("Reserva", 3),
		header("Agente", 2),
		header("Fecha", 2),
		header("Monto", 2),
	)
}

func detailRow(inv entity.Invoice) core.Row {
	cell := func(value string, size int, al align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Top: 1, Align: al}))
	}
	return row.New(6).Add(
		cell(inv.TicketNumber, 3, align.Left),
		cell(inv.BookingReference, 3, align.Left),
		cell(inv.AgentID, 2, align.Left),
		cell(inv.DisplayDate(), 2, align.Left),
		cell(inv.DisplayAmount(), 2, align.Right),
	)
}

func totalsRow(invoices []entity.Invoice) core.Row {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Amount)
	}
	return row.New(10).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("%d registros", len(invoices)), props.Text{
				Size: 9, Top: 2, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("TOTAL: "+total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 2, Align: align.Right, Color: colorPrimary,
			}),
		),
	)
}
