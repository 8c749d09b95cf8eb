package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/backoffice-api/internal/application/reporting"
)

// defaultSheet hoja que excelize crea con cada libro nuevo.
const defaultSheet = "Sheet1"

// WorkbookWriter implementa reporting.WorkbookWriter con excelize.
// Todas las celdas se escriben como texto: los montos llegan ya formateados a 2 decimales.
type WorkbookWriter struct{}

func NewWorkbookWriter() *WorkbookWriter { return &WorkbookWriter{} }

func (w *WorkbookWriter) Write(_ context.Context, sheets []reporting.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: libro sin hojas")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return nil, fmt.Errorf("xlsx: renombrar hoja %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("xlsx: crear hoja %s: %w", s.Name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s reporting.Sheet, headerStyle int) error {
	rowNum := 1
	if len(s.Header) > 0 {
		header := s.Header
		if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
			return fmt.Errorf("xlsx: cabecera %s: %w", s.Name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(s.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("xlsx: estilo cabecera %s: %w", s.Name, err)
		}
		rowNum++
	}
	for _, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		values := r
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", rowNum, s.Name, err)
		}
		rowNum++
	}
	width := len(s.Header)
	for _, r := range s.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width > 0 {
		lastCol, err := excelize.ColumnNumberToName(width)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.Name, "A", lastCol, 18); err != nil {
			return fmt.Errorf("xlsx: ancho de columnas %s: %w", s.Name, err)
		}
	}
	return nil
}
