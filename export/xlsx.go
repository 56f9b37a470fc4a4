package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-generalize/golf-score-memo/model"
	"github.com/xuri/excelize/v2"
	"golang.org/x/xerrors"
)

// SheetName is the worksheet the XLSX export writes to
const SheetName = "スコア"

// WriteXLSX writes the same projection as WriteCSV as an Excel workbook
func WriteXLSX(w io.Writer, rounds []*model.Round) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return xerrors.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	rows := append([][]interface{}{header}, Rows(rounds)...)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return xerrors.Errorf("failed to get cell name: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &rows[i]); err != nil {
			return xerrors.Errorf("failed to set row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return xerrors.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, style); err != nil {
		return xerrors.Errorf("failed to set header style: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return xerrors.Errorf("failed to write xlsx: %w", err)
	}

	return nil
}

// XLSXFileName returns the download name for a workbook export made at t
func XLSXFileName(t time.Time) string {
	return fmt.Sprintf("golf_scores_%s.xlsx", model.FormatDate(t))
}
