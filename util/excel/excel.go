// Package excel converts tabular rows to and from xlsx workbooks.
package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the textual date format written to and preferred in sheets.
const DateLayout = "2006-01-02"

// ErrNoHeader is returned when a workbook has no header row.
var ErrNoHeader = errors.New("spreadsheet has no header row")

// Record is one data row of an imported sheet, keyed by header cell.
type Record struct {
	// Line is the 1-based row number in the sheet.
	Line  int
	Cells map[string]string
}

// Get returns the trimmed cell under the given header.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r.Cells[normalize(column)])
}

// Empty reports whether every cell of the row is blank.
func (r Record) Empty() bool {
	for _, v := range r.Cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Export writes a single-sheet workbook with a header row followed by rows.
func Export(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// Import reads the first sheet of a workbook. The first row is the header;
// blank rows are skipped. Cells are read unformatted, so date cells come
// back as serial numbers whatever their display style.
func Import(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalize(h)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := Record{Line: i + 2, Cells: make(map[string]string, len(header))}
		for j, name := range header {
			if name == "" || j >= len(row) {
				continue
			}
			rec.Cells[name] = row[j]
		}
		if rec.Empty() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseDate accepts DateLayout, day-first dotted dates and Excel serial
// numbers. Slash-separated text is rejected since day and month order
// cannot be told apart.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func normalize(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
