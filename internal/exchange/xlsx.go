package exchange

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mosys-app/mosys/internal/model"
)

const movementSheet = "Movimientos"

// ExportXLSX writes the movements as a styled spreadsheet with a totals row.
func ExportXLSX(w io.Writer, movements []model.Movement) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", movementSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"6366F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 8}, {"B", 10}, {"C", 12}, {"D", 18},
		{"E", 30}, {"F", 30}, {"G", 16}, {"H", 18},
	}
	for _, cw := range widths {
		if err := f.SetColWidth(movementSheet, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	headers := []string{"ID", "Tipo", "Monto", "Categoría", "Concepto", "Descripción", "Método de Pago", "Fecha"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(movementSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(movementSheet, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	var totalIncome, totalExpense float64
	for i, m := range movements {
		row := i + 2
		f.SetCellValue(movementSheet, fmt.Sprintf("A%d", row), m.ID)
		f.SetCellValue(movementSheet, fmt.Sprintf("B%d", row), string(m.Kind))
		f.SetCellValue(movementSheet, fmt.Sprintf("C%d", row), m.Amount)
		f.SetCellValue(movementSheet, fmt.Sprintf("D%d", row), m.Category)
		f.SetCellValue(movementSheet, fmt.Sprintf("E%d", row), m.Concept)
		f.SetCellValue(movementSheet, fmt.Sprintf("F%d", row), m.Description)
		f.SetCellValue(movementSheet, fmt.Sprintf("G%d", row), m.PaymentMethod)
		f.SetCellValue(movementSheet, fmt.Sprintf("H%d", row), m.Date.Format(csvDateLayout))

		if m.Kind == model.KindIncome {
			totalIncome += m.Amount
		} else {
			totalExpense += m.Amount
		}
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E5E7EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "top", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create summary style: %w", err)
	}

	summaryRow := len(movements) + 2
	f.SetCellValue(movementSheet, fmt.Sprintf("A%d", summaryRow), "Totales")
	f.SetCellValue(movementSheet, fmt.Sprintf("C%d", summaryRow), totalIncome-totalExpense)
	f.SetCellValue(movementSheet, fmt.Sprintf("D%d", summaryRow),
		fmt.Sprintf("Ingresos: %.2f / Gastos: %.2f", totalIncome, totalExpense))
	f.SetCellValue(movementSheet, fmt.Sprintf("F%d", summaryRow),
		fmt.Sprintf("%d movimientos", len(movements)))
	if err := f.SetCellStyle(movementSheet,
		fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
