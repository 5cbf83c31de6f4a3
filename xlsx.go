package gochart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetData is the chart input read from one worksheet.
type SheetData struct {
	Sheet   string
	Legends []string // header cells above the sample columns
	Series  []DataSeries
}

// LoadSeriesXLSX reads series from a worksheet of the .xlsx file at path. An
// empty sheet name selects the first sheet.
//
// The first row is a header: its cells from column B onward name the layers.
// Every following row with a name in column A is one series, and columns B
// onward hold its samples. Empty cells are missing samples.
func LoadSeriesXLSX(path, sheet string) (*SheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	data := &SheetData{Sheet: sheet}
	if len(rows) == 0 {
		return data, nil
	}
	if len(rows[0]) > 1 {
		for _, cell := range rows[0][1:] {
			data.Legends = append(data.Legends, strings.TrimSpace(cell))
		}
	}

	for rowIdx, row := range rows[1:] {
		rowNum := rowIdx + 2 // 1-based, after the header
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		s := DataSeries{Name: strings.TrimSpace(row[0])}
		for colIdx, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				s.Values = append(s.Values, Missing())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				cellName, _ := excelize.CoordinatesToCellName(colIdx+2, rowNum)
				return nil, newValidationError(sheet+"!"+cellName,
					fmt.Sprintf("%q is not a number", cell), ErrNonNumericValue)
			}
			s.Values = append(s.Values, Value(v))
		}
		data.Series = append(data.Series, s)
	}
	return data, nil
}
