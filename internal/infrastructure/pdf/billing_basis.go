// Package pdf genera el bilag de facturación: las líneas aprobadas
// (TilFakturering) pendientes de enviar al sistema de facturación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación + nº de líneas         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Firma | Adresse | Zone | Periode | Areal | Beløb     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: suma de líneas con precio + líneas sin precio        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
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

	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 40, Blue: 40}
)

var _ invoicing.BillingBasisRenderer = (*BillingBasisGenerator)(nil)

// BillingBasisGenerator implementa invoicing.BillingBasisRenderer con Maroto v2.
type BillingBasisGenerator struct {
	Title string
}

// NewBillingBasisGenerator construye el generador.
func NewBillingBasisGenerator() *BillingBasisGenerator {
	return &BillingBasisGenerator{Title: "Udeservering - faktureringsgrundlag"}
}

// GenerateBillingBasisPDF genera el PDF y devuelve sus bytes.
func (g *BillingBasisGenerator) GenerateBillingBasisPDF(_ context.Context, lines []*entity.InvoiceLine, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.Title, generatedAt, len(lines)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(lines))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title string, at time.Time, n int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Aarhus Kommune", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Dannet: "+at.Format("02-01-2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New(fmt.Sprintf("Linjer: %d", n), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Firma", 3, align.Left),
		h("Adresse", 3, align.Left),
		h("Zone", 1, align.Center),
		h("Periode", 2, align.Left),
		h("Areal m²", 1, align.Right),
		h("Beløb", 2, align.Right),
	)
}

func tableRows(lines []*entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		amount, color := "ikke beregnet", colorWarn
		if l.Price != nil {
			amount, color = formatKroner(*l.Price), nil
		}
		cell := props.Text{Size: 8, Top: 1, Left: 1}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(l.CompanyName, cell)),
			col.New(3).Add(text.New(l.Address, cell)),
			col.New(1).Add(text.New(l.Zone, props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(2).Add(text.New(fmt.Sprintf("%s %d", l.BillingMonth, l.BillingYear), cell)),
			col.New(1).Add(text.New(l.Area.StringFixed(2), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New(amount, props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1, Color: color})),
		))
	}
	return result
}

func totalsRow(lines []*entity.InvoiceLine) core.Row {
	total, missing := Total(lines)
	note := ""
	if missing > 0 {
		note = fmt.Sprintf("%d linje(r) uden beløb", missing)
	}
	return row.New(14).Add(
		col.New(6).Add(text.New(note, props.Text{Size: 8, Top: 2, Color: colorWarn})),
		col.New(3).Add(text.New("I alt:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary})),
		col.New(3).Add(text.New(formatKroner(total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Right: 1, Color: colorPrimary})),
	)
}

// Total suma de las líneas con precio y número de líneas sin precio.
func Total(lines []*entity.InvoiceLine) (decimal.Decimal, int) {
	total := decimal.Zero
	missing := 0
	for _, l := range lines {
		if l.Price == nil {
			missing++
			continue
		}
		total = total.Add(*l.Price)
	}
	return total, missing
}

// formatKroner formato danés: "1.234,50 kr."
func formatKroner(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "," + frac + " kr."
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles: "1000000" → "1.000.000".
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
