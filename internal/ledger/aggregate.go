package ledger

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// MonthlySnapshot is the derived (warehouse, month) row: arrivals, departures
// and the stock remaining at the month boundary. Recomputed on demand, never
// mutated incrementally.
type MonthlySnapshot struct {
	Warehouse   string `json:"warehouse"`
	Month       Month  `json:"month"`
	Inbound     int    `json:"inbound"`
	Outbound    int    `json:"outbound"`
	EndingStock int    `json:"endingStock"`
}

// SiteMonthly is the derived (site, month) row. CumulativeInbound is the
// running sum of Inbound since the first month with data.
type SiteMonthly struct {
	Site              string `json:"site"`
	Month             Month  `json:"month"`
	Inbound           int    `json:"inbound"`
	CumulativeInbound int    `json:"cumulativeInbound"`
}

// SiteGroupMonthly rolls site rows up to their delivery group.
type SiteGroupMonthly struct {
	Group             string `json:"group"`
	Month             Month  `json:"month"`
	Inbound           int    `json:"inbound"`
	CumulativeInbound int    `json:"cumulativeInbound"`
}

// ClassificationMonthly rolls warehouse rows up to their classification.
type ClassificationMonthly struct {
	Classification Classification `json:"classification"`
	Month          Month          `json:"month"`
	Inbound        int            `json:"inbound"`
	Outbound       int            `json:"outbound"`
	EndingStock    int            `json:"endingStock"`
}

// Report is the full monthly ledger for one case population. Rows are stably
// sorted by (location, month) for reproducible rendering.
type Report struct {
	Months          []Month                 `json:"months"`
	Warehouses      []MonthlySnapshot       `json:"warehouses"`
	Sites           []SiteMonthly           `json:"sites"`
	SiteGroups      []SiteGroupMonthly      `json:"siteGroups"`
	Classifications []ClassificationMonthly `json:"classifications"`

	snapIdx map[locMonth]int
	siteIdx map[locMonth]int
}

type locMonth struct {
	loc string
	m   Month
}

// Snapshot looks up the (warehouse, month) row.
func (r *Report) Snapshot(warehouse string, m Month) (MonthlySnapshot, bool) {
	i, ok := r.snapIdx[locMonth{warehouse, m}]
	if !ok {
		return MonthlySnapshot{}, false
	}
	return r.Warehouses[i], true
}

// Site looks up the (site, month) row.
func (r *Report) Site(site string, m Month) (SiteMonthly, bool) {
	i, ok := r.siteIdx[locMonth{site, m}]
	if !ok {
		return SiteMonthly{}, false
	}
	return r.Sites[i], true
}

// WarehouseNames returns the warehouses appearing in the report, sorted.
func (r *Report) WarehouseNames() []string {
	return rowLocations(len(r.Warehouses), func(i int) string { return r.Warehouses[i].Warehouse })
}

// SiteNames returns the sites appearing in the report, sorted.
func (r *Report) SiteNames() []string {
	return rowLocations(len(r.Sites), func(i int) string { return r.Sites[i].Site })
}

func rowLocations(n int, at func(int) string) []string {
	seen := make(map[string]bool)
	var names []string
	for i := 0; i < n; i++ {
		if name := at(i); !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Aggregator walks case timelines and produces the monthly ledger. The scan
// is a parallel map over independent cases followed by a deterministic reduce.
type Aggregator struct {
	registry *Registry
	workers  int
}

// NewAggregator returns an aggregator bound to a location registry.
func NewAggregator(reg *Registry) *Aggregator {
	return &Aggregator{registry: reg, workers: runtime.GOMAXPROCS(0)}
}

// tally accumulates one worker's share of event contributions.
type tally struct {
	in     map[locMonth]int // warehouse arrivals, month of arrival
	out    map[locMonth]int // departures, attributed to the month of the NEXT event
	siteIn map[locMonth]int
	first  Month
	last   Month
	seen   bool
}

func newTally() *tally {
	return &tally{
		in:     make(map[locMonth]int),
		out:    make(map[locMonth]int),
		siteIn: make(map[locMonth]int),
	}
}

func (t *tally) observe(m Month) {
	if !t.seen {
		t.first, t.last, t.seen = m, m, true
		return
	}
	if m.Before(t.first) {
		t.first = m
	}
	if t.last.Before(m) {
		t.last = m
	}
}

// contribute maps one case timeline onto the tally. Every event is an inbound
// for its location; every event immediately followed by a later event also
// produces an outbound for the earlier location, counted in the month of the
// departing move. This adjacency rule is what keeps a multi-warehouse transfer
// from being lost or double-counted.
func (a *Aggregator) contribute(c Case, t *tally) error {
	for i, e := range c.Events {
		m := e.Month()
		t.observe(m)

		switch e.Kind {
		case KindWarehouse:
			if _, err := a.registry.Classify(e.Location); err != nil {
				return err
			}
			t.in[locMonth{e.Location, m}]++
			if i+1 < len(c.Events) {
				t.out[locMonth{e.Location, c.Events[i+1].Month()}]++
			}
		case KindSite:
			if _, err := a.registry.SiteGroup(e.Location); err != nil {
				return err
			}
			t.siteIn[locMonth{e.Location, m}]++
		}
	}
	return nil
}

// Aggregate produces the monthly ledger for the given cases. An unknown
// location aborts the run: it indicates a reference-data mismatch that would
// silently misclassify every rollup.
func (a *Aggregator) Aggregate(ctx context.Context, cases []Case) (*Report, error) {
	workers := a.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(cases) {
		workers = len(cases)
	}

	tallies := make([]*tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		t := newTally()
		tallies[w] = t
		lo := w * len(cases) / workers
		hi := (w + 1) * len(cases) / workers
		chunk := cases[lo:hi]
		g.Go(func() error {
			for _, c := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := a.contribute(c, t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newTally()
	for _, t := range tallies {
		if t == nil || !t.seen {
			continue
		}
		merged.observe(t.first)
		merged.observe(t.last)
		mergeCounts(merged.in, t.in)
		mergeCounts(merged.out, t.out)
		mergeCounts(merged.siteIn, t.siteIn)
	}

	return a.reduce(merged), nil
}

func mergeCounts(dst, src map[locMonth]int) {
	for k, v := range src {
		dst[k] += v
	}
}

// reduce turns the merged tallies into sorted, balance-consistent tables.
func (a *Aggregator) reduce(t *tally) *Report {
	rep := &Report{
		snapIdx: make(map[locMonth]int),
		siteIdx: make(map[locMonth]int),
	}
	if !t.seen {
		return rep
	}
	rep.Months = MonthRange(t.first, t.last)

	warehouses := locationsOf(t.in, t.out)
	classTotals := make(map[locMonth]*ClassificationMonthly)
	for _, w := range warehouses {
		stock := 0
		// Classify cannot miss here: contribute already validated every location.
		class, _ := a.registry.Classify(w)
		for _, m := range rep.Months {
			in := t.in[locMonth{w, m}]
			out := t.out[locMonth{w, m}]
			stock += in - out
			rep.snapIdx[locMonth{w, m}] = len(rep.Warehouses)
			rep.Warehouses = append(rep.Warehouses, MonthlySnapshot{
				Warehouse: w, Month: m, Inbound: in, Outbound: out, EndingStock: stock,
			})

			key := locMonth{class.String(), m}
			ct, ok := classTotals[key]
			if !ok {
				ct = &ClassificationMonthly{Classification: class, Month: m}
				classTotals[key] = ct
			}
			ct.Inbound += in
			ct.Outbound += out
			ct.EndingStock += stock
		}
	}

	groupIn := make(map[locMonth]int)
	for _, s := range locationsOf(t.siteIn, nil) {
		// SiteGroup cannot miss here either.
		group, _ := a.registry.SiteGroup(s)
		cum := 0
		for _, m := range rep.Months {
			in := t.siteIn[locMonth{s, m}]
			cum += in
			groupIn[locMonth{group, m}] += in
			rep.siteIdx[locMonth{s, m}] = len(rep.Sites)
			rep.Sites = append(rep.Sites, SiteMonthly{
				Site: s, Month: m, Inbound: in, CumulativeInbound: cum,
			})
		}
	}

	for _, g := range locationsOf(groupIn) {
		cum := 0
		for _, m := range rep.Months {
			in := groupIn[locMonth{g, m}]
			cum += in
			rep.SiteGroups = append(rep.SiteGroups, SiteGroupMonthly{
				Group: g, Month: m, Inbound: in, CumulativeInbound: cum,
			})
		}
	}

	for _, ct := range classTotals {
		rep.Classifications = append(rep.Classifications, *ct)
	}
	sort.Slice(rep.Classifications, func(i, j int) bool {
		ci, cj := rep.Classifications[i], rep.Classifications[j]
		if ci.Classification != cj.Classification {
			return ci.Classification < cj.Classification
		}
		return ci.Month.Before(cj.Month)
	})

	return rep
}

func locationsOf(counts ...map[locMonth]int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range counts {
		for k := range m {
			if !seen[k.loc] {
				seen[k.loc] = true
				names = append(names, k.loc)
			}
		}
	}
	sort.Strings(names)
	return names
}

// VerifyBalances cross-checks the running-balance stock figures against an
// independent end-of-month snapshot of every case's location. The two forms
// are defined to agree; a mismatch means the ledger itself is wrong.
func VerifyBalances(cases []Case, rep *Report) error {
	for _, m := range rep.Months {
		eom := m.End()
		resident := make(map[string]int)
		for _, c := range cases {
			if loc, ok := c.LocationAt(eom); ok && loc.Kind == KindWarehouse {
				resident[loc.Location]++
			}
		}
		for _, w := range rep.WarehouseNames() {
			snap, _ := rep.Snapshot(w, m)
			if snap.EndingStock != resident[w] {
				return fmt.Errorf("stock mismatch at %s %s: running balance %d, end-of-month snapshot %d",
					w, m, snap.EndingStock, resident[w])
			}
		}
	}
	return nil
}
