package export_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/backoffice-api/internal/application/reporting"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/export"
)

// png 1x1 transparente
const logoURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func sampleDoc() *reporting.Document {
	return &reporting.Document{
		Title:    "FACTURA",
		Number:   "INV-001",
		Currency: "USD",
		Header:   []reporting.Field{{Label: "Fecha de emisión", Value: "2026-10-01"}},
		Company: reporting.Party{
			Name:   "Mi Empresa",
			Logo:   logoURI,
			Fields: []reporting.Field{{Label: "Email", Value: "hola@empresa.com"}},
		},
		Client: reporting.Party{Name: "Acme & Hijos"},
		Items: []reporting.Line{
			{Description: "Consultoría", Quantity: "2", Rate: "USD 50.00", Amount: "USD 100.00"},
		},
		Totals: []reporting.Field{
			{Label: "Subtotal", Value: "USD 100.00"},
			{Label: "Total", Value: "USD 100.00"},
		},
		CreatedAt: time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestWordRenderer_EsDeterministaYEscapa(t *testing.T) {
	r := export.NewWordRenderer()
	a, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	b, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b), "misma factura y máscara, mismos bytes")
	out := string(a)
	assert.Contains(t, out, "urn:schemas-microsoft-com:office:word")
	assert.Contains(t, out, "INV-001")
	assert.Contains(t, out, "Acme &amp; Hijos")
}

func TestWordRenderer_DigestDetectaEdiciones(t *testing.T) {
	out, err := export.NewWordRenderer().Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.Contains(t, string(out), `name="content-digest"`)

	ok, err := export.VerifyWordDigest(out)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := bytes.Replace(out, []byte("Acme &amp; Hijos"), []byte("Acme &amp; Otros"), 1)
	require.NotEqual(t, out, tampered)
	ok, err = export.VerifyWordDigest(tampered)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWordRenderer_NoDibujaCamposOmitidos(t *testing.T) {
	doc := sampleDoc()
	doc.Company.Fields = nil
	doc.Number = ""
	doc.Client = reporting.Party{}

	out, err := export.NewWordRenderer().Render(context.Background(), doc)
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "INV-001")
	assert.NotContains(t, s, "hola@empresa.com")
	assert.NotContains(t, s, "Cliente")
	assert.NotContains(t, s, "Email:", "sin etiquetas vacías")
}

func TestPDFRenderer_GeneraPDF(t *testing.T) {
	out, err := export.NewPDFRenderer().Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFRenderer_FechasFijasMismosBytes(t *testing.T) {
	r := export.NewPDFRenderer()
	a, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.Contains(t, string(a), "/CreationDate (D:20261002080000)")
	assert.Contains(t, string(a), "/ModDate (D:20261002080000)")

	// el reloj avanza al menos un segundo entre ambos renders
	time.Sleep(1100 * time.Millisecond)
	b, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "misma factura, mismos bytes")
}

func TestPDFRenderer_MuchasLineasPagina(t *testing.T) {
	doc := sampleDoc()
	doc.Company.Logo = "data:image/gif;base64,AAAA"
	for i := 0; i < 120; i++ {
		doc.Items = append(doc.Items, reporting.Line{Description: "línea", Quantity: "1", Rate: "USD 1.00", Amount: "USD 1.00"})
	}
	out, err := export.NewPDFRenderer().Render(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestWorkbookWriter_HojasYTexto(t *testing.T) {
	sheets := []reporting.Sheet{
		{Name: "Summary", Header: []string{"Indicador", "Valor"}, Rows: [][]string{{"Saldo total", "1500.50"}}},
		{Name: "Accounts", Header: []string{"Nombre", "Saldo"}, Rows: [][]string{{"Principal", "1500.50"}}},
		{Name: "Transactions", Header: []string{"Fecha"}},
	}
	data, err := export.NewWorkbookWriter().Write(context.Background(), sheets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Accounts", "Transactions"}, f.GetSheetList())
	v, err := f.GetCellValue("Accounts", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1500.50", v)
	typ, err := f.GetCellType("Accounts", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, typ, "los montos se guardan como texto")
}

func TestWorkbookWriter_SinHojas(t *testing.T) {
	_, err := export.NewWorkbookWriter().Write(context.Background(), nil)
	assert.Error(t, err)
}
