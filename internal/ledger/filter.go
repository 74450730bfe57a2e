package ledger

// Predicate selects a sub-population of cases by attribute. Zero-value fields
// are ignored; set fields combine as a conjunction. Filtering never changes
// aggregation rules, only the input population.
type Predicate struct {
	Warehouse   string // case passed through this warehouse at any point
	Site        string // case was delivered to this site
	Supplier    string
	Category    string
	StorageType string
	Status      string
}

// Matches reports whether the case satisfies every set condition.
func (p Predicate) Matches(c Case) bool {
	if p.Warehouse != "" && !c.VisitedWarehouse(p.Warehouse) {
		return false
	}
	if p.Site != "" {
		site, ok := c.DeliveredTo()
		if !ok || site != p.Site {
			return false
		}
	}
	if p.Supplier != "" && c.Supplier != p.Supplier {
		return false
	}
	if p.Category != "" && c.Category != p.Category {
		return false
	}
	if p.StorageType != "" && c.StorageType != p.StorageType {
		return false
	}
	if p.Status != "" && c.Status != p.Status {
		return false
	}
	return true
}

// IsZero reports whether the predicate has no conditions at all.
func (p Predicate) IsZero() bool {
	return p == Predicate{}
}

// Filter returns the cases matching the predicate. The result is a fresh
// slice; the input population is never reordered or mutated.
func Filter(cases []Case, p Predicate) []Case {
	if p.IsZero() {
		out := make([]Case, len(cases))
		copy(out, cases)
		return out
	}
	var out []Case
	for _, c := range cases {
		if p.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
