package extract

import (
	"context"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/fwojciec/doctext"
)

// Strategy identifiers for the spreadsheet chain.
const (
	StrategySpreadsheetXLSX = "spreadsheet-xlsx"
	StrategySpreadsheetXLS  = "spreadsheet-xls"
)

// Ensure Spreadsheet implements doctext.Extractor at compile time.
var _ doctext.Extractor = (*Spreadsheet)(nil)

// Spreadsheet extracts cell values from Excel workbooks: the OOXML reader
// first (formulas resolved to their cached values), the legacy BIFF reader
// as the fallback for files that are actually old-format .xls despite their
// name. Cells are tab-joined, rows newline-terminated, empty cells rendered
// as empty strings, all sheets concatenated.
type Spreadsheet struct{}

// NewSpreadsheet creates a Spreadsheet extractor.
func NewSpreadsheet() *Spreadsheet {
	return &Spreadsheet{}
}

// Extract runs the reader chain.
func (e *Spreadsheet) Extract(ctx context.Context, path string) (*doctext.ExtractionResult, error) {
	return runChain(ctx, path, []strategy{
		{name: StrategySpreadsheetXLSX, fn: readXLSX},
		{name: StrategySpreadsheetXLS, fn: readXLS},
	})
}

func readXLSX(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func readXLS(ctx context.Context, path string) (string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				b.WriteByte('\n')
				continue
			}
			for c := 0; c <= row.LastCol(); c++ {
				if c > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(row.Col(c))
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
