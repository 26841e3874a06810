package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 50

// sheet is one worksheet: a header row followed by data rows.
type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func (s *sheet) add(values ...any) {
	s.rows = append(s.rows, values)
}

var headerStyle = &excelize.Style{
	Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
	Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	Alignment: &excelize.Alignment{
		Horizontal: "center",
		Vertical:   "center",
		WrapText:   true,
	},
	Border: []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	},
}

// writeWorkbook saves sheets to path in order. Each sheet gets a styled,
// frozen header row and column widths fitted to the content.
func writeWorkbook(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	style, err := f.NewStyle(headerStyle)
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s, style); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, s sheet, style int) error {
	header := make([]any, len(s.header))
	widths := make([]int, len(s.header))
	for i, h := range s.header {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}

	for r, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
		for c, v := range row {
			if c >= len(widths) {
				break
			}
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	if len(s.header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(s.header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, "A1", last, style); err != nil {
			return err
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, float64(min(w+2, maxColumnWidth))); err != nil {
			return err
		}
	}

	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
