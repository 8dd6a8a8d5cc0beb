package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"jobdemand-go/internal/types"
)

// Column names used by the job posting export.
const (
	ColTitle         = "title"
	ColPositionLevel = "positionLevels"
	ColApplications  = "metadata_totalNumberJobApplication"
	ColCategories    = "categories"
)

type columns struct {
	title, level, apps, cats int
}

// Load reads records from a .csv or .xlsx file. Blank cells are absent values;
// the categories cell is kept as raw text for the extractor. A nil log
// discards output.
func Load(path string, log *logrus.Entry) ([]types.Record, error) {
	log = component(log, "dataset.loader").WithField("path", path)
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	case ".csv", ".txt", "":
		rows, err = readCSVFile(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
	if err != nil {
		log.WithError(err).Error("read failed")
		return nil, err
	}
	records, err := FromRows(rows)
	if err != nil {
		return nil, err
	}
	log.WithField("records", len(records)).Info("dataset loaded")
	return records, nil
}

func component(log *logrus.Entry, name string) *logrus.Entry {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return log.WithField("component", name)
}

// FromRows converts a header row plus data rows into records.
func FromRows(rows [][]string) ([]types.Record, error) {
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}
	cols, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}
	out := make([]types.Record, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := types.Record{
			Title:            types.OptionalKey(cell(r, cols.title)),
			PositionLevel:    types.OptionalKey(cell(r, cols.level)),
			ApplicationCount: types.ParseCount(cell(r, cols.apps)),
		}
		if raw := cell(r, cols.cats); strings.TrimSpace(raw) != "" {
			rec.RawCategories = raw
		}
		out = append(out, rec)
	}
	return out, nil
}

// detectColumns prefers exact header names and falls back to substring
// heuristics.
func detectColumns(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColTitle:
			c.title = i
		case ColPositionLevel:
			c.level = i
		case ColApplications:
			c.apps = i
		case ColCategories:
			c.cats = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case c.title == -1 && l == "job title":
			c.title = i
		case c.level == -1 && (strings.Contains(l, "position") || strings.Contains(l, "level")):
			c.level = i
		case c.apps == -1 && strings.Contains(l, "application"):
			c.apps = i
		case c.cats == -1 && strings.Contains(l, "categor"):
			c.cats = i
		}
	}
	var missing []string
	if c.title == -1 {
		missing = append(missing, ColTitle)
	}
	if c.level == -1 {
		missing = append(missing, ColPositionLevel)
	}
	if c.apps == -1 {
		missing = append(missing, ColApplications)
	}
	if c.cats == -1 {
		missing = append(missing, ColCategories)
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func cell(r []string, idx int) string {
	if idx >= 0 && idx < len(r) {
		return r[idx]
	}
	return ""
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}
