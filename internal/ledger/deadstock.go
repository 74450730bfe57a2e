package ledger

import (
	"sort"
	"time"
)

// DeadStockRecord flags one case resting in a warehouse at the reference
// date. Threshold is the highest configured threshold the age has reached, or
// zero when the case is below every threshold.
type DeadStockRecord struct {
	CaseID    string    `json:"caseId"`
	Warehouse string    `json:"warehouse"`
	LastEvent time.Time `json:"lastEvent"`
	AgeDays   int       `json:"ageDays"`
	Threshold int       `json:"threshold"`
}

// Flagged reports whether the record crossed any threshold.
func (r DeadStockRecord) Flagged() bool {
	return r.Threshold > 0
}

// Detector finds long-stay warehouse residents. Thresholds are inclusive
// lower bucket bounds: an age of exactly 90 days crosses a 90-day threshold.
type Detector struct {
	Thresholds []int
	Urgent     int
}

// DefaultThresholds is the long-stay bucket scheme used by the operational
// reports.
var DefaultThresholds = []int{90, 180, 365}

// NewDetector builds a detector with ascending thresholds. With no arguments
// it uses DefaultThresholds and flags ages of a year or more as urgent.
func NewDetector(thresholds ...int) *Detector {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	sorted := make([]int, len(thresholds))
	copy(sorted, thresholds)
	sort.Ints(sorted)
	return &Detector{Thresholds: sorted, Urgent: 365}
}

// Detect evaluates every case's position as of ref and returns a record per
// case resting in a warehouse at that date. The reference date is an explicit
// input so any historical date can be replayed: events after ref are ignored,
// and a case delivered to a site by ref is never flagged. Results sort by age
// descending, case id ascending on ties.
func (d *Detector) Detect(cases []Case, ref time.Time) []DeadStockRecord {
	ref = truncateToDay(ref)
	var records []DeadStockRecord

	for _, c := range cases {
		loc, ok := c.LocationAt(ref)
		if !ok || loc.Kind != KindWarehouse {
			continue
		}
		age := int(ref.Sub(loc.Date).Hours() / 24)
		records = append(records, DeadStockRecord{
			CaseID:    c.ID,
			Warehouse: loc.Location,
			LastEvent: loc.Date,
			AgeDays:   age,
			Threshold: d.bucket(age),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].AgeDays != records[j].AgeDays {
			return records[i].AgeDays > records[j].AgeDays
		}
		return records[i].CaseID < records[j].CaseID
	})
	return records
}

// bucket returns the highest threshold at or below age, or zero.
func (d *Detector) bucket(age int) int {
	crossed := 0
	for _, t := range d.Thresholds {
		if age >= t {
			crossed = t
		}
	}
	return crossed
}

// FlaggedOnly strips records that sit below every threshold.
func FlaggedOnly(records []DeadStockRecord) []DeadStockRecord {
	var flagged []DeadStockRecord
	for _, r := range records {
		if r.Flagged() {
			flagged = append(flagged, r)
		}
	}
	return flagged
}

// UrgentOnly returns the records at or beyond the urgent threshold, already
// in severity order.
func (d *Detector) UrgentOnly(records []DeadStockRecord) []DeadStockRecord {
	var urgent []DeadStockRecord
	for _, r := range records {
		if r.AgeDays >= d.Urgent {
			urgent = append(urgent, r)
		}
	}
	return urgent
}

// WarehouseAgeStats summarizes the flagged records per warehouse.
type WarehouseAgeStats struct {
	Warehouse string  `json:"warehouse"`
	Count     int     `json:"count"`
	MeanAge   float64 `json:"meanAgeDays"`
	MaxAge    int     `json:"maxAgeDays"`
}

// StatsByWarehouse aggregates flagged record counts and ages per warehouse,
// sorted by count descending then warehouse name.
func StatsByWarehouse(records []DeadStockRecord) []WarehouseAgeStats {
	byName := make(map[string]*WarehouseAgeStats)
	totals := make(map[string]int)
	for _, r := range records {
		if !r.Flagged() {
			continue
		}
		s, ok := byName[r.Warehouse]
		if !ok {
			s = &WarehouseAgeStats{Warehouse: r.Warehouse}
			byName[r.Warehouse] = s
		}
		s.Count++
		totals[r.Warehouse] += r.AgeDays
		if r.AgeDays > s.MaxAge {
			s.MaxAge = r.AgeDays
		}
	}

	stats := make([]WarehouseAgeStats, 0, len(byName))
	for name, s := range byName {
		s.MeanAge = float64(totals[name]) / float64(s.Count)
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Warehouse < stats[j].Warehouse
	})
	return stats
}
