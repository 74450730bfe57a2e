package report

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"caseledger/internal/ledger"
)

const (
	sheetMonthly        = "Monthly_Status"
	sheetWarehouses     = "Warehouse_Summary"
	sheetClassification = "Classification_Summary"
	sheetSites          = "Site_Cumulative_In"
	sheetSiteGroups     = "Site_Group_Summary"
	sheetDeadStock      = "DeadStock_Analysis"
	sheetExclusions     = "Excluded_Cases"
)

// Build renders the monthly ledger, the dead-stock list and the exclusion
// audit into a multi-sheet workbook. The caller owns the returned file and
// must Close it.
func Build(rep *ledger.Report, dead []ledger.DeadStockRecord, excluded []ledger.Exclusion, reg *ledger.Registry) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D7E4BC"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeMonthlySheet(f, headerStyle, rep); err != nil {
		return nil, err
	}
	if err := writeWarehouseSummary(f, headerStyle, rep, reg); err != nil {
		return nil, err
	}
	if err := writeClassificationSummary(f, headerStyle, rep); err != nil {
		return nil, err
	}
	if err := writeSiteSheet(f, headerStyle, rep); err != nil {
		return nil, err
	}
	if err := writeSiteGroupSheet(f, headerStyle, rep); err != nil {
		return nil, err
	}
	if err := writeDeadStockSheet(f, headerStyle, dead); err != nil {
		return nil, err
	}
	if len(excluded) > 0 {
		if err := writeExclusionSheet(f, headerStyle, excluded); err != nil {
			return nil, err
		}
	}

	// The default sheet becomes the monthly view.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(sheetMonthly)
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Write builds the workbook and saves it to path.
func Write(path string, rep *ledger.Report, dead []ledger.DeadStockRecord, excluded []ledger.Exclusion, reg *ledger.Registry) error {
	f, err := Build(rep, dead, excluded, reg)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("Report workbook written")
	return nil
}

// OpenInViewer hands the workbook to the OS default application.
func OpenInViewer(path string) error {
	return browser.OpenFile(path)
}

func newSheet(f *excelize.File, name string, style int, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(name, "A1", end, style)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// writeMonthlySheet lays each month out as one row with In/Out/Stock triplets
// per warehouse and In/Cumulative pairs per site, the wide shape the
// operational reports always used.
func writeMonthlySheet(f *excelize.File, style int, rep *ledger.Report) error {
	warehouses := rep.WarehouseNames()
	sites := rep.SiteNames()

	header := []interface{}{"Month"}
	for _, w := range warehouses {
		header = append(header, w+" In", w+" Out", w+" Stock")
	}
	for _, s := range sites {
		header = append(header, s+" In", s+" Cumulative In")
	}
	if err := newSheet(f, sheetMonthly, style, header); err != nil {
		return err
	}

	for i, m := range rep.Months {
		row := []interface{}{m.String()}
		for _, w := range warehouses {
			snap, _ := rep.Snapshot(w, m)
			row = append(row, snap.Inbound, snap.Outbound, snap.EndingStock)
		}
		for _, s := range sites {
			sm, _ := rep.Site(s, m)
			row = append(row, sm.Inbound, sm.CumulativeInbound)
		}
		if err := writeRow(f, sheetMonthly, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeWarehouseSummary(f *excelize.File, style int, rep *ledger.Report, reg *ledger.Registry) error {
	header := []interface{}{"Warehouse", "Classification", "Total In", "Total Out", "Current Stock"}
	if err := newSheet(f, sheetWarehouses, style, header); err != nil {
		return err
	}

	rowNum := 2
	for _, w := range rep.WarehouseNames() {
		var totalIn, totalOut, stock int
		for _, m := range rep.Months {
			snap, _ := rep.Snapshot(w, m)
			totalIn += snap.Inbound
			totalOut += snap.Outbound
			stock = snap.EndingStock
		}
		class, err := reg.Classify(w)
		if err != nil {
			return err
		}
		row := []interface{}{w, class.String(), totalIn, totalOut, stock}
		if err := writeRow(f, sheetWarehouses, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

func writeClassificationSummary(f *excelize.File, style int, rep *ledger.Report) error {
	header := []interface{}{"Classification", "Month", "In", "Out", "Stock"}
	if err := newSheet(f, sheetClassification, style, header); err != nil {
		return err
	}
	for i, c := range rep.Classifications {
		row := []interface{}{c.Classification.String(), c.Month.String(), c.Inbound, c.Outbound, c.EndingStock}
		if err := writeRow(f, sheetClassification, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSiteSheet(f *excelize.File, style int, rep *ledger.Report) error {
	header := []interface{}{"Site", "Month", "In", "Cumulative In"}
	if err := newSheet(f, sheetSites, style, header); err != nil {
		return err
	}
	for i, s := range rep.Sites {
		row := []interface{}{s.Site, s.Month.String(), s.Inbound, s.CumulativeInbound}
		if err := writeRow(f, sheetSites, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeSiteGroupSheet rolls the site arrivals up to their delivery group
// (Offshore, Onshore), mirroring the per-site cumulative view.
func writeSiteGroupSheet(f *excelize.File, style int, rep *ledger.Report) error {
	header := []interface{}{"Group", "Month", "In", "Cumulative In"}
	if err := newSheet(f, sheetSiteGroups, style, header); err != nil {
		return err
	}
	for i, g := range rep.SiteGroups {
		row := []interface{}{g.Group, g.Month.String(), g.Inbound, g.CumulativeInbound}
		if err := writeRow(f, sheetSiteGroups, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDeadStockSheet(f *excelize.File, style int, dead []ledger.DeadStockRecord) error {
	header := []interface{}{"Case No.", "Warehouse", "Last Arrival", "Days Passed", "Threshold Crossed"}
	if err := newSheet(f, sheetDeadStock, style, header); err != nil {
		return err
	}
	rowNum := 2
	for _, r := range dead {
		if !r.Flagged() {
			continue
		}
		row := []interface{}{r.CaseID, r.Warehouse, r.LastEvent.Format("2006-01-02"), r.AgeDays, r.Threshold}
		if err := writeRow(f, sheetDeadStock, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

func writeExclusionSheet(f *excelize.File, style int, excluded []ledger.Exclusion) error {
	header := []interface{}{"Case No.", "Reason", "Detail"}
	if err := newSheet(f, sheetExclusions, style, header); err != nil {
		return err
	}
	for i, e := range excluded {
		row := []interface{}{e.CaseID, e.Reason, e.Detail}
		if err := writeRow(f, sheetExclusions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
