package ledger

import (
	"reflect"
	"testing"
)

func attributedFixture(t *testing.T) []Case {
	t.Helper()
	return []Case{
		{ID: "F1", Supplier: "HITACHI", Category: "Transformer", StorageType: "Indoor", Status: "Pending",
			Events: []LocationEvent{
				whEvent(t, "DSV Indoor", "2025-01-10", 1),
			}},
		{ID: "F2", Supplier: "HITACHI", Category: "Cable", StorageType: "Outdoor", Status: "Delivered",
			Events: []LocationEvent{
				whEvent(t, "DSV Outdoor", "2025-01-12", 0),
				siteEvent(t, "DAS", "2025-02-20", 6),
			}},
		{ID: "F3", Supplier: "SIEMENS", Category: "Cable", StorageType: "Outdoor", Status: "Pending",
			Events: []LocationEvent{
				whEvent(t, "DSV Outdoor", "2025-02-01", 0),
				whEvent(t, "MOSB", "2025-03-15", 5),
			}},
	}
}

func TestPredicate_Matches(t *testing.T) {
	cases := attributedFixture(t)

	tests := []struct {
		name string
		pred Predicate
		want []string
	}{
		{"empty predicate keeps all", Predicate{}, []string{"F1", "F2", "F3"}},
		{"by visited warehouse", Predicate{Warehouse: "DSV Outdoor"}, []string{"F2", "F3"}},
		{"visited includes intermediate hops", Predicate{Warehouse: "MOSB"}, []string{"F3"}},
		{"by delivery site", Predicate{Site: "DAS"}, []string{"F2"}},
		{"by supplier", Predicate{Supplier: "SIEMENS"}, []string{"F3"}},
		{"by category", Predicate{Category: "Cable"}, []string{"F2", "F3"}},
		{"by storage type", Predicate{StorageType: "Indoor"}, []string{"F1"}},
		{"by status", Predicate{Status: "Pending"}, []string{"F1", "F3"}},
		{"conjunction", Predicate{Category: "Cable", Status: "Pending"}, []string{"F3"}},
		{"no match", Predicate{Warehouse: "DSV Outdoor", Site: "MIR"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range Filter(cases, tt.pred) {
				got = append(got, c.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Aggregating the filtered subset must agree with aggregating the full set
// restricted to matching cases; filtering changes the population, never the
// rules.
func TestFilter_AggregationLaw(t *testing.T) {
	cases := attributedFixture(t)
	pred := Predicate{Category: "Cable"}

	direct := aggregate(t, Filter(cases, pred))

	var manual []Case
	for _, c := range cases {
		if pred.Matches(c) {
			manual = append(manual, c)
		}
	}
	restricted := aggregate(t, manual)

	if !reflect.DeepEqual(direct.Warehouses, restricted.Warehouses) {
		t.Error("warehouse tables disagree between filter paths")
	}
	if !reflect.DeepEqual(direct.Sites, restricted.Sites) {
		t.Error("site tables disagree between filter paths")
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	cases := attributedFixture(t)
	snapshot := make([]Case, len(cases))
	copy(snapshot, cases)

	_ = Filter(cases, Predicate{Supplier: "HITACHI"})

	if !reflect.DeepEqual(cases, snapshot) {
		t.Error("Filter mutated the input population")
	}
}
