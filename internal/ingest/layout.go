package ingest

import "caseledger/internal/ledger"

// Column binds one location column of the case list to its kind. The order
// in which columns are declared in a Layout is significant: it is the
// tie-break rank for same-day transfers.
type Column struct {
	Name string
	Kind ledger.LocationKind
}

// Layout describes how one supplier's case-list worksheet is shaped: which
// column carries the case id, which attribute columns exist, and the ordered
// set of location columns.
type Layout struct {
	Sheet    string
	Supplier string

	CaseColumn        string
	CategoryColumn    string
	StorageTypeColumn string
	StatusColumn      string

	Locations []Column
}

// supplierWarehouses lists the warehouse columns each known supplier file
// carries, in worksheet order. The order fixes the same-day tie-break rank.
var supplierWarehouses = map[string][]string{
	"HITACHI":       {"DSV Outdoor", "DSV Indoor", "DSV Al Markaz", "Hauler Indoor", "DSV MZP", "MOSB"},
	"HITACHI_LOCAL": {"DSV Outdoor", "DSV Al Markaz", "DSV MZP", "MOSB"},
	"HITACHI_LOT":   {"DSV Indoor", "DHL WH", "DSV Al Markaz", "AAA Storage"},
	"SIEMENS":       {"DSV Outdoor", "DSV Indoor", "DSV Al Markaz", "MOSB", "AAA Storage"},
}

// allWarehouses is the union of every supplier's warehouse columns, used when
// the supplier tag is unknown. The reader tolerates columns a given sheet
// does not carry.
var allWarehouses = []string{
	"DSV Outdoor", "DSV Indoor", "DSV Al Markaz", "Hauler Indoor",
	"DSV MZP", "MOSB", "DHL WH", "AAA Storage",
}

var siteColumns = []string{"DAS", "MIR", "SHU", "AGI"}

// DefaultLayout returns the case-list shape for the given supplier tag: that
// supplier's warehouse columns followed by the four delivery sites, keyed by
// "Case No.". Unknown suppliers get every warehouse column.
func DefaultLayout(supplier string) Layout {
	warehouses, ok := supplierWarehouses[supplier]
	if !ok {
		warehouses = allWarehouses
	}

	locations := make([]Column, 0, len(warehouses)+len(siteColumns))
	for _, name := range warehouses {
		locations = append(locations, Column{Name: name, Kind: ledger.KindWarehouse})
	}
	for _, name := range siteColumns {
		locations = append(locations, Column{Name: name, Kind: ledger.KindSite})
	}

	return Layout{
		Sheet:             "CASE LIST",
		Supplier:          supplier,
		CaseColumn:        "Case No.",
		CategoryColumn:    "Material Category",
		StorageTypeColumn: "Storage Type",
		StatusColumn:      "Status",
		Locations:         locations,
	}
}
