// Package export renders saved prediction history as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"finance-predictor/internal/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "History"
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"Date", "Month", "Income", "Age", "Dependents", "Occupation", "City Tier",
	"Total Expenses", "Balance", "Predicted Expense", "Financial Score",
}

// WriteHistory writes records as an XLSX workbook to w.
func WriteHistory(w io.Writer, records []models.ExpenseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return errors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "drop default sheet")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	for i, r := range records {
		row := []interface{}{
			r.Date, r.Month, r.Income, r.Age, r.Dependents, r.Occupation, r.CityTier,
			r.TotalExpenses, r.Balance, r.PredictedExpense, r.PredictedFinancialScore,
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 12); err != nil {
		return errors.Wrap(err, "set column width")
	}
	if err := f.SetColWidth(sheetName, "H", "K", 16); err != nil {
		return errors.Wrap(err, "set column width")
	}

	return errors.Wrap(f.Write(w), "write workbook")
}
