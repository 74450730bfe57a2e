package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"caseledger/internal/ledger"
)

// dateLayouts covers the formats date cells render to, depending on the cell
// style of the source workbook.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006",
	"2-Jan-06",
}

// ReadWorkbook opens a case-list workbook and reads the sheet described by
// the layout into raw records.
func ReadWorkbook(path string, layout Layout) ([]ledger.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, layout)
}

// Read extracts one raw record per data row. Location columns missing from
// the sheet are tolerated (supplier files carry different column subsets);
// unparseable date cells are skipped with a warning, mirroring how blank
// cells are treated.
func Read(f *excelize.File, layout Layout) ([]ledger.RawRecord, error) {
	rows, err := f.GetRows(layout.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", layout.Sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", layout.Sheet)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	caseCol, ok := header[layout.CaseColumn]
	if !ok {
		return nil, fmt.Errorf("sheet %q has no %q column", layout.Sheet, layout.CaseColumn)
	}

	type boundColumn struct {
		Column
		idx  int
		rank int
	}
	var bound []boundColumn
	for rank, col := range layout.Locations {
		idx, ok := header[col.Name]
		if !ok {
			log.Debug().Str("column", col.Name).Str("sheet", layout.Sheet).Msg("Location column absent from sheet")
			continue
		}
		bound = append(bound, boundColumn{Column: col, idx: idx, rank: rank})
	}
	if len(bound) == 0 {
		return nil, fmt.Errorf("sheet %q has none of the configured location columns", layout.Sheet)
	}

	records := make([]ledger.RawRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		caseID := cellAt(row, caseCol)
		if caseID == "" {
			caseID = fmt.Sprintf("Row_%d", n+2)
		}

		rec := ledger.RawRecord{
			CaseID:      caseID,
			Supplier:    layout.Supplier,
			Category:    lookupCell(row, header, layout.CategoryColumn),
			StorageType: lookupCell(row, header, layout.StorageTypeColumn),
			Status:      lookupCell(row, header, layout.StatusColumn),
		}

		for _, col := range bound {
			raw := cellAt(row, col.idx)
			if raw == "" {
				continue
			}
			date, err := parseDate(raw)
			if err != nil {
				log.Warn().Str("case", caseID).Str("column", col.Name).Str("value", raw).
					Msg("Skipping unparseable date cell")
				continue
			}
			rec.Arrivals = append(rec.Arrivals, ledger.RawArrival{
				Location: col.Name,
				Kind:     col.Kind,
				Rank:     col.rank,
				Date:     date,
			})
		}
		records = append(records, rec)
	}

	log.Info().Str("sheet", layout.Sheet).Str("supplier", layout.Supplier).
		Int("records", len(records)).Msg("Case list ingested")
	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func lookupCell(row []string, header map[string]int, name string) string {
	if name == "" {
		return ""
	}
	idx, ok := header[name]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
