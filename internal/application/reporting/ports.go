package reporting

import "context"

// Formatos de exportación de una factura.
const (
	FormatPDF  = "pdf"
	FormatDoc  = "doc"
	FormatXLSX = "xlsx"
)

// Content types de los archivos generados.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDoc  = "application/msword"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DocumentRenderer genera la representación de una factura ya proyectada (PDF o Word).
type DocumentRenderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// Sheet hoja tabular de un libro; todas las celdas viajan como texto.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WorkbookWriter escribe un libro de cálculo con las hojas en el orden recibido.
type WorkbookWriter interface {
	Write(ctx context.Context, sheets []Sheet) ([]byte, error)
}
