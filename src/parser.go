package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Record is one vocabulary card.
type Record struct {
	ID       int    `json:"id"`
	Kanji    string `json:"kanji"`
	Phonetic string `json:"phonetic"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example"`
}

// parseDelimited parses comma-separated text. The first line is a header.
// Quoted fields are not understood: every comma splits.
func parseDelimited(content []byte) []Record {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 {
		return nil
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, strings.Split(line, ","))
	}
	return rowsToRecords(rows)
}

// parseSpreadsheet reads the first sheet of an .xlsx workbook.
func parseSpreadsheet(content []byte) ([]Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return dropHeader(rows), nil
}

// parseLegacySpreadsheet reads the first sheet of a BIFF (.xls) workbook.
func parseLegacySpreadsheet(content []byte) (records []Record, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("decode workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return dropHeader(rows), nil
}

func dropHeader(rows [][]string) []Record {
	if len(rows) < 2 {
		return nil
	}
	return rowsToRecords(rows[1:])
}

// rowsToRecords maps columns 0-3 onto a Record. The id is the row's position
// before filtering, so discarded rows leave gaps.
func rowsToRecords(rows [][]string) []Record {
	var records []Record
	for i, row := range rows {
		rec := Record{
			ID:       i,
			Kanji:    cell(row, 0),
			Phonetic: cell(row, 1),
			Meaning:  cell(row, 2),
			Example:  cell(row, 3),
		}
		if rec.Kanji == "" || rec.Meaning == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
