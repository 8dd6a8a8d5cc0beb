// Package report writes pipeline output tables to a workbook for charting.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"jobdemand-go/internal/hierarchy"
	"jobdemand-go/internal/pipeline"
	"jobdemand-go/internal/types"
)

const (
	SheetTop      = "Top Demand"
	SheetHeatmap  = "Heatmap"
	SheetTreemap  = "Treemap"
	SheetLevels   = "Position Demand"
	SheetTitles   = "Title Demand"
	SheetQuality  = "Quality"
	nullLabel     = "(unspecified)"
	measureHeader = "Total Applications"
)

// WriteWorkbook saves one sheet per derived view of res to path.
func WriteWorkbook(path string, res pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTop); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, s := range []string{SheetHeatmap, SheetTreemap, SheetLevels, SheetTitles, SheetQuality} {
		if _, err := f.NewSheet(s); err != nil {
			return fmt.Errorf("new sheet %s: %w", s, err)
		}
	}

	writers := []func(*excelize.File, pipeline.Result) error{
		writeTop, writeHeatmap, writeTreemap, writeLevels, writeTitles, writeQuality,
	}
	for _, w := range writers {
		if err := w(f, res); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func aggregateRows(rows []types.AggregateRow, header []any) [][]any {
	out := [][]any{header}
	for _, r := range rows {
		line := make([]any, 0, len(r.Key)+1)
		for _, k := range r.Key {
			line = append(line, k.Label(nullLabel))
		}
		out = append(out, append(line, r.Measure))
	}
	return out
}

func writeTop(f *excelize.File, res pipeline.Result) error {
	return writeRows(f, SheetTop, aggregateRows(res.Top, []any{"Category", "Position Level", "Title", measureHeader}))
}

func writeLevels(f *excelize.File, res pipeline.Result) error {
	return writeRows(f, SheetLevels, aggregateRows(res.PositionDemand, []any{"Position Level", measureHeader}))
}

func writeTitles(f *excelize.File, res pipeline.Result) error {
	return writeRows(f, SheetTitles, aggregateRows(res.TitleDemand, []any{"Title", measureHeader}))
}

func writeHeatmap(f *excelize.File, res pipeline.Result) error {
	t := res.Heatmap
	header := []any{string(t.RowDimension) + " \\ " + string(t.ColDimension)}
	for _, c := range t.ColKeys {
		header = append(header, c.Label(nullLabel))
	}
	rows := [][]any{header}
	for i, rk := range t.RowKeys {
		line := []any{rk.Label(nullLabel)}
		for _, v := range t.Cells[i] {
			line = append(line, v)
		}
		rows = append(rows, line)
	}
	return writeRows(f, SheetHeatmap, rows)
}

func writeTreemap(f *excelize.File, res pipeline.Result) error {
	rows := [][]any{{"ID", "Parent", "Label", "Value"}}
	for _, e := range hierarchy.Flatten(res.Tree) {
		rows = append(rows, []any{e.ID, e.Parent, e.Label, e.Value})
	}
	return writeRows(f, SheetTreemap, rows)
}

func writeQuality(f *excelize.File, res pipeline.Result) error {
	q := res.Quality
	return writeRows(f, SheetQuality, [][]any{
		{"Signal", "Count"},
		{"Records", res.Records},
		{"Uncategorized records", res.Uncategorized},
		{"Malformed category data", q.MalformedCategoryData},
		{"Unresolved category id", q.UnresolvedCategoryID},
		{"Non-numeric application count", q.NonNumericMeasure},
	})
}
