package ledger

import (
	"time"
)

// LocationKind distinguishes warehouse storage stops from final site deliveries.
type LocationKind int

const (
	KindWarehouse LocationKind = iota
	KindSite
)

func (k LocationKind) String() string {
	switch k {
	case KindWarehouse:
		return "warehouse"
	case KindSite:
		return "site"
	}
	return "unknown"
}

// LocationEvent is a timestamped arrival of a case at a warehouse or site.
// Rank is the declared column order of the location and breaks same-day ties.
type LocationEvent struct {
	Location string       `json:"location"`
	Kind     LocationKind `json:"kind"`
	Date     time.Time    `json:"date"` // calendar-day granularity
	Rank     int          `json:"rank"`
}

// Month returns the calendar month the event falls in.
func (e LocationEvent) Month() Month {
	return MonthOf(e.Date)
}

// Case is one tracked inventory unit with its chronological movement path.
// Events is ordered by (date, rank) and frozen after construction; callers
// must not modify it.
type Case struct {
	ID          string          `json:"id"`
	Supplier    string          `json:"supplier,omitempty"`
	Category    string          `json:"category,omitempty"`
	StorageType string          `json:"storageType,omitempty"`
	Status      string          `json:"status,omitempty"`
	Events      []LocationEvent `json:"events"`
}

// Last returns the terminal event of the movement path.
func (c Case) Last() (LocationEvent, bool) {
	if len(c.Events) == 0 {
		return LocationEvent{}, false
	}
	return c.Events[len(c.Events)-1], true
}

// LocationAt returns where the case sat at the given reference date: the
// latest event on or before ref. ok is false when the case had not been
// received anywhere yet.
func (c Case) LocationAt(ref time.Time) (LocationEvent, bool) {
	var current LocationEvent
	found := false
	for _, e := range c.Events {
		if e.Date.After(ref) {
			break
		}
		current = e
		found = true
	}
	return current, found
}

// VisitedWarehouse reports whether the case was staged through the named
// warehouse at any point in its history.
func (c Case) VisitedWarehouse(name string) bool {
	for _, e := range c.Events {
		if e.Kind == KindWarehouse && e.Location == name {
			return true
		}
	}
	return false
}

// DeliveredTo returns the site the case was delivered to, if its terminal
// location is a site.
func (c Case) DeliveredTo() (string, bool) {
	last, ok := c.Last()
	if !ok || last.Kind != KindSite {
		return "", false
	}
	return last.Location, true
}
