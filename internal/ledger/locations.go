package ledger

import "sort"

// Classification groups warehouses by storage environment.
type Classification int

const (
	Indoor Classification = iota
	Outdoor
	Dangerous
)

func (c Classification) String() string {
	switch c {
	case Indoor:
		return "Indoor"
	case Outdoor:
		return "Outdoor"
	case Dangerous:
		return "Dangerous"
	}
	return "Unknown"
}

// Registry is the static location reference data: warehouse classifications
// and site groups. It is read-only for the duration of a run and safe to share
// across workers. Lookups never default silently; a miss is an
// UnknownLocationError.
type Registry struct {
	warehouses map[string]Classification
	sites      map[string]string
}

// NewRegistry builds a registry from explicit reference tables.
func NewRegistry(warehouses map[string]Classification, sites map[string]string) *Registry {
	w := make(map[string]Classification, len(warehouses))
	for k, v := range warehouses {
		w[k] = v
	}
	s := make(map[string]string, len(sites))
	for k, v := range sites {
		s[k] = v
	}
	return &Registry{warehouses: w, sites: s}
}

// DefaultRegistry returns the HVDC project reference set: every warehouse
// column that appears across the supplier files, and the four delivery sites.
func DefaultRegistry() *Registry {
	return NewRegistry(
		map[string]Classification{
			"DSV Outdoor":   Outdoor,
			"DSV Indoor":    Indoor,
			"DSV Al Markaz": Indoor,
			"Hauler Indoor": Indoor,
			"DSV MZP":       Outdoor,
			"MOSB":          Outdoor,
			"DHL WH":        Indoor,
			"AAA Storage":   Dangerous,
		},
		map[string]string{
			"DAS": "Offshore",
			"AGI": "Offshore",
			"MIR": "Onshore",
			"SHU": "Onshore",
		},
	)
}

// Classify returns the classification of a warehouse id.
func (r *Registry) Classify(warehouse string) (Classification, error) {
	c, ok := r.warehouses[warehouse]
	if !ok {
		return 0, &UnknownLocationError{Location: warehouse, Kind: KindWarehouse}
	}
	return c, nil
}

// SiteGroup returns the group a site id belongs to.
func (r *Registry) SiteGroup(site string) (string, error) {
	g, ok := r.sites[site]
	if !ok {
		return "", &UnknownLocationError{Location: site, Kind: KindSite}
	}
	return g, nil
}

// Warehouses returns the known warehouse ids in sorted order.
func (r *Registry) Warehouses() []string {
	names := make([]string, 0, len(r.warehouses))
	for n := range r.warehouses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sites returns the known site ids in sorted order.
func (r *Registry) Sites() []string {
	names := make([]string, 0, len(r.sites))
	for n := range r.sites {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
