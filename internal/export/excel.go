// Package export writes a rendered dashboard to an Excel workbook, one
// sheet per section, so analysts can take the numbers offline.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"shoplens/app"
	"shoplens/domain/chart"
	"shoplens/internal/errors"
)

// Workbook writes the sections' tabular data as xlsx to w. Each section
// becomes one sheet named after its title; each chart within a section
// contributes its title row, a header row, and its formatted rows. Empty
// sections produce a sheet holding only their placeholder message.
func Workbook(w io.Writer, sections []app.Section) error {
	if len(sections) == 0 {
		return errors.DataUnavailable("dashboard export")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, section := range sections {
		sheet := sheetName(section.Title, i)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.Wrapf(err, "sheet %s", sheet)
			}
		}
		if err := writeSection(f, sheet, section); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeSection(f *excelize.File, sheet string, section app.Section) error {
	line := 1
	set := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(sheet, cell, value)
	}

	if section.Empty {
		set(1, line, section.Message)
		return nil
	}

	for _, kpi := range section.KPIs {
		set(1, line, kpi.Label)
		set(2, line, kpi.Value)
		if kpi.Delta != "" {
			set(3, line, kpi.Delta)
		}
		line++
	}
	if len(section.KPIs) > 0 {
		line++
	}

	for _, ch := range section.Charts {
		if ch.Spec.Title != "" {
			set(1, line, ch.Spec.Title)
			line++
		}
		columns := tableColumns(ch.Spec)
		for col, column := range columns {
			set(col+1, line, column.Title)
		}
		line++
		for _, row := range ch.Rows {
			for col, column := range columns {
				if column.Kind == chart.FieldRaw {
					set(col+1, line, row.String(column.Field))
					continue
				}
				if v, ok := row.Float(column.Field); ok {
					set(col+1, line, chart.FormatValue(column.Kind, v))
				}
			}
			line++
		}
		line++
	}
	return nil
}

// tableColumns derives an export column list from a spec: explicit table
// columns when present, otherwise the x/series bindings.
func tableColumns(spec chart.Spec) []chart.Column {
	if len(spec.Columns) > 0 {
		return spec.Columns
	}
	columns := make([]chart.Column, 0, len(spec.Series)+2)
	if spec.XField != "" {
		columns = append(columns, chart.Column{Field: spec.XField, Title: spec.XField, Kind: chart.FieldRaw})
	} else if spec.SeriesField != "" {
		columns = append(columns, chart.Column{Field: spec.SeriesField, Title: spec.SeriesField, Kind: chart.FieldRaw})
	}
	for _, s := range spec.Series {
		columns = append(columns, chart.Column{Field: s.Field, Title: s.Name, Kind: s.Kind})
	}
	return columns
}

// sheetName makes a title safe for Excel's 31-char sheet limit and keeps
// names unique by position.
func sheetName(title string, index int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, title)
	if name == "" {
		name = fmt.Sprintf("Section %d", index+1)
	}
	// Truncate on runes; a byte slice could split a multibyte title.
	if runes := []rune(name); len(runes) > 28 {
		name = string(runes[:28])
	}
	return fmt.Sprintf("%d %s", index+1, name)
}
