package extract

import (
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// extractSpreadsheetText dumps the primary sheet as pipe-delimited text,
// header row included, one sheet row per line. xlsx goes through excelize;
// legacy BIFF xls needs its own reader because excelize only opens OOXML
// archives.
func extractSpreadsheetText(path, ext string) (string, error) {
	var (
		rows [][]string
		err  error
	)
	if ext == "xls" {
		rows, err = readLegacyWorkbook(path)
	} else {
		rows, err = readWorkbook(path)
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Extracted Excel Data:\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "|"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readLegacyWorkbook(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cells []string
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
