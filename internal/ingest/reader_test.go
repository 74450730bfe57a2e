package ingest

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"caseledger/internal/ledger"
)

func caseListFile(t *testing.T, header []interface{}, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "CASE LIST"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if err := f.SetSheetRow("CASE LIST", "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("CASE LIST", cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRead_WideRowBecomesRankedArrivals(t *testing.T) {
	f := caseListFile(t,
		[]interface{}{"Case No.", "Material Category", "DSV Outdoor", "DSV Indoor", "DAS"},
		[][]interface{}{
			{"HE-0001", "Transformer", "2025-01-10", "", "2025-03-02"},
			{"HE-0002", "Cable", "", "2025-02-01", ""},
		},
	)

	records, err := Read(f, DefaultLayout("HITACHI"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.CaseID != "HE-0001" || first.Supplier != "HITACHI" || first.Category != "Transformer" {
		t.Errorf("record attributes = %+v", first)
	}
	if len(first.Arrivals) != 2 {
		t.Fatalf("HE-0001 has %d arrivals, want 2", len(first.Arrivals))
	}

	// Ranks come from the layout's declared column order, not the sheet.
	outdoor := first.Arrivals[0]
	if outdoor.Location != "DSV Outdoor" || outdoor.Rank != 0 || outdoor.Kind != ledger.KindWarehouse {
		t.Errorf("arrival 0 = %+v, want DSV Outdoor rank 0", outdoor)
	}
	das := first.Arrivals[1]
	if das.Location != "DAS" || das.Rank != 6 || das.Kind != ledger.KindSite {
		t.Errorf("arrival 1 = %+v, want DAS rank 6", das)
	}
	if !das.Date.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DAS date = %v", das.Date)
	}

	if len(records[1].Arrivals) != 1 || records[1].Arrivals[0].Location != "DSV Indoor" {
		t.Errorf("HE-0002 arrivals = %+v", records[1].Arrivals)
	}
}

func TestRead_MissingLocationColumnsTolerated(t *testing.T) {
	// Supplier files carry different warehouse column subsets.
	f := caseListFile(t,
		[]interface{}{"Case No.", "MOSB"},
		[][]interface{}{{"SIM-0001", "2025-04-01"}},
	)

	records, err := Read(f, DefaultLayout("SIEMENS"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 1 || len(records[0].Arrivals) != 1 {
		t.Fatalf("records = %+v", records)
	}
	if records[0].Arrivals[0].Location != "MOSB" || records[0].Arrivals[0].Rank != 3 {
		t.Errorf("arrival = %+v, want MOSB rank 3", records[0].Arrivals[0])
	}
}

func TestRead_SupplierSpecificWarehouseColumns(t *testing.T) {
	// The lot-numbered Hitachi file routes cases through DHL WH and
	// AAA Storage; every dated cell must become an arrival.
	f := caseListFile(t,
		[]interface{}{"Case No.", "DSV Indoor", "DHL WH", "AAA Storage", "DAS"},
		[][]interface{}{{"HE-0214", "2025-01-05", "2025-02-10", "2025-03-15", "2025-05-01"}},
	)

	records, err := Read(f, DefaultLayout("HITACHI_LOT"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 1 || len(records[0].Arrivals) != 4 {
		t.Fatalf("records = %+v, want 1 record with 4 arrivals", records)
	}

	want := []struct {
		location string
		rank     int
		kind     ledger.LocationKind
	}{
		{"DSV Indoor", 0, ledger.KindWarehouse},
		{"DHL WH", 1, ledger.KindWarehouse},
		{"AAA Storage", 3, ledger.KindWarehouse},
		{"DAS", 4, ledger.KindSite},
	}
	for i, w := range want {
		got := records[0].Arrivals[i]
		if got.Location != w.location || got.Rank != w.rank || got.Kind != w.kind {
			t.Errorf("arrival %d = %+v, want %s rank %d", i, got, w.location, w.rank)
		}
	}
}

func TestRead_UnknownSupplierCoversAllWarehouses(t *testing.T) {
	f := caseListFile(t,
		[]interface{}{"Case No.", "DHL WH", "AAA Storage", "DAS"},
		[][]interface{}{{"X-0001", "2025-01-05", "2025-02-10", "2025-04-01"}},
	)

	records, err := Read(f, DefaultLayout("UNKNOWN"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 1 || len(records[0].Arrivals) != 3 {
		t.Fatalf("records = %+v, want 1 record with 3 arrivals", records)
	}
	for i, loc := range []string{"DHL WH", "AAA Storage", "DAS"} {
		if records[0].Arrivals[i].Location != loc {
			t.Errorf("arrival %d = %+v, want %s", i, records[0].Arrivals[i], loc)
		}
	}
}

func TestRead_BadCellsSkippedAndBlankIDsNamed(t *testing.T) {
	f := caseListFile(t,
		[]interface{}{"Case No.", "DSV Outdoor"},
		[][]interface{}{
			{"", "2025-01-10"},
			{"HE-0009", "not a date"},
		},
	)

	records, err := Read(f, DefaultLayout("HITACHI"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if records[0].CaseID != "Row_2" {
		t.Errorf("blank id became %q, want Row_2", records[0].CaseID)
	}
	if len(records[1].Arrivals) != 0 {
		t.Errorf("unparseable date produced arrivals: %+v", records[1].Arrivals)
	}
}

func TestRead_MissingCaseColumnFails(t *testing.T) {
	f := caseListFile(t,
		[]interface{}{"Item", "DSV Outdoor"},
		[][]interface{}{{"X", "2025-01-10"}},
	)

	if _, err := Read(f, DefaultLayout("HITACHI")); err == nil {
		t.Fatal("expected error for sheet without Case No. column")
	}
}

func TestRead_NoLocationColumnsFails(t *testing.T) {
	f := caseListFile(t,
		[]interface{}{"Case No.", "Remarks"},
		[][]interface{}{{"HE-0001", "n/a"}},
	)

	if _, err := Read(f, DefaultLayout("HITACHI")); err == nil {
		t.Fatal("expected error for sheet without any location column")
	}
}
