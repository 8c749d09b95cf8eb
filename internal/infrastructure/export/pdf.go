// Package export implementa los generadores de archivos de la factura y de los listados.
//
// Layout de la página A4 del PDF:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Logo + Empresa       │  FACTURA + N° + fechas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: campos visibles de la empresa                      │
//	│  CLIENTE: nombre + campos visibles                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | Precio | (Costo) | Importe     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + notas                                            │
//	└─────────────────────────────────────────────────────────────┘
package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/backoffice-api/internal/application/reporting"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PDFRenderer implementa reporting.DocumentRenderer con Maroto v2 (pagina solo).
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

// Render genera el PDF. Las fechas de creación y modificación se fijan a la última modificación
// de la factura para que la misma factura produzca los mismos bytes.
func (g *PDFRenderer) Render(_ context.Context, doc *reporting.Document) ([]byte, error) {
	title := doc.Title
	if doc.Number != "" {
		title += " " + doc.Number
	}
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithCreationDate(doc.CreatedAt)
	if doc.Company.Name != "" {
		builder = builder.WithAuthor(doc.Company.Name, true)
	}
	m := maroto.New(builder.Build())

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r, ok := partyRow("EMISOR", doc.Company); ok {
		m.AddRows(r)
	}
	if r, ok := partyRow("CLIENTE", doc.Client); ok {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(doc.ShowBuyingPrice))
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc.Totals)...)

	if doc.Notes != "" {
		m.AddRows(row.New(4))
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(doc.Notes, props.Text{Size: 8, Top: 6}),
		)))
	}
	if doc.Footnote != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(doc.Footnote, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pinModDate(out.GetBytes(), doc.CreatedAt), nil
}

var modDatePattern = regexp.MustCompile(`/ModDate \(D:\d{14}\)`)

// pinModDate reemplaza la ModDate del diccionario Info, que maroto toma del reloj.
// El reemplazo tiene el mismo largo: la tabla xref sigue válida.
func pinModDate(pdf []byte, at time.Time) []byte {
	if at.IsZero() {
		return pdf
	}
	stamp := []byte("/ModDate (D:" + at.Format("20060102150405") + ")")
	return modDatePattern.ReplaceAllLiteral(pdf, stamp)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo y nombre de la empresa (izq), título, número y fechas (der).
func headerRow(doc *reporting.Document) core.Row {
	cols := make([]core.Col, 0, 3)
	nameCol := col.New(7)
	if logo, ext, ok := decodeLogo(doc.Company.Logo); ok {
		cols = append(cols, col.New(2).Add(image.NewFromBytes(logo, ext, props.Rect{Percent: 90, Center: true})))
		nameCol = col.New(5)
	}
	if doc.Company.Name != "" {
		nameCol.Add(text.New(doc.Company.Name, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}))
	}
	cols = append(cols, nameCol)

	right := col.New(5).Add(
		text.New(doc.Title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
	)
	top := 7.0
	if doc.Number != "" {
		right.Add(text.New(doc.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: top,
		}))
		top += 7
	}
	for _, f := range doc.Header {
		right.Add(text.New(f.Label+": "+f.Value, props.Text{
			Size: 8, Align: align.Right, Top: top, Color: colorGray,
		}))
		top += 4
	}
	height := 18.0
	if top+4 > height {
		height = top + 4
	}
	return row.New(height).Add(append(cols, right)...)
}

// partyRow: bloque de emisor o cliente; se omite si no quedó ningún campo visible.
func partyRow(title string, p reporting.Party) (core.Row, bool) {
	if p.Name == "" && len(p.Fields) == 0 {
		return nil, false
	}
	c := col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))
	top := 6.0
	if p.Name != "" {
		c.Add(text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: top}))
		top += 6
	}
	if len(p.Fields) > 0 {
		parts := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			parts = append(parts, f.Label+": "+f.Value)
		}
		c.Add(text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 6
	}
	return row.New(top + 2).Add(c), true
}

type column struct {
	label string
	size  int
	align align.Type
}

func tableColumns(withCost bool) []column {
	if withCost {
		return []column{
			{"Descripción", 5, align.Left}, {"Cant.", 1, align.Center},
			{"Precio", 2, align.Right}, {"Costo", 2, align.Right}, {"Importe", 2, align.Right},
		}
	}
	return []column{
		{"Descripción", 6, align.Left}, {"Cant.", 1, align.Center},
		{"Precio", 2, align.Right}, {"Importe", 3, align.Right},
	}
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow(withCost bool) core.Row {
	cols := make([]core.Col, 0, 5)
	for _, c := range tableColumns(withCost) {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// tableDetailRows: una fila por línea.
func tableDetailRows(doc *reporting.Document) []core.Row {
	specs := tableColumns(doc.ShowBuyingPrice)
	result := make([]core.Row, 0, len(doc.Items))
	for _, l := range doc.Items {
		values := []string{l.Description, l.Quantity, l.Rate, l.Amount}
		if doc.ShowBuyingPrice {
			values = []string{l.Description, l.Quantity, l.Rate, l.BuyingPrice, l.Amount}
		}
		cols := make([]core.Col, 0, len(values))
		for i, v := range values {
			cols = append(cols, col.New(specs[i].size).Add(text.New(v, props.Text{
				Size: 8, Align: specs[i].align, Top: 1, Left: 1, Right: 1,
			})))
		}
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

// totalsRows: una fila por total, alineadas a la derecha; el total en color primario.
func totalsRows(totals []reporting.Field) []core.Row {
	rows := make([]core.Row, 0, len(totals))
	for _, f := range totals {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if f.Label == "Total" {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		labelProps := p
		labelProps.Style = fontstyle.Bold
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(f.Label+":", labelProps)),
			col.New(3).Add(text.New(f.Value, p)),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// decodeLogo extrae la imagen de un data URI base64 (png o jpeg).
func decodeLogo(uri string) ([]byte, extension.Type, bool) {
	meta, data, found := strings.Cut(uri, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}
	var ext extension.Type
	switch strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64") {
	case "image/png":
		ext = extension.Png
	case "image/jpeg", "image/jpg":
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(raw) == 0 {
		return nil, "", false
	}
	return raw, ext, true
}
