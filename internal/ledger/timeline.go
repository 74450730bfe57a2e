package ledger

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// RawArrival is one non-null (location, date) pair from the wide input row.
// Rank is the position of the location column in the configured column order.
type RawArrival struct {
	Location string
	Kind     LocationKind
	Rank     int
	Date     time.Time
}

// RawRecord is one row of the ingested case list before timeline
// reconstruction.
type RawRecord struct {
	CaseID      string
	Supplier    string
	Category    string
	StorageType string
	Status      string
	Arrivals    []RawArrival
}

// Exclusion reasons. Every excluded case is reported individually so a human
// can audit what was dropped.
const (
	ReasonEmptyTimeline   = "empty_timeline"
	ReasonMalformedEvents = "malformed_events"
)

// Exclusion records a case dropped during timeline construction.
type Exclusion struct {
	CaseID string `json:"caseId"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// BuildCase normalizes one raw record into a Case with a chronologically
// ordered event path. Events sort by timestamp ascending with the configured
// column order as tie-break, so same-day transfers resolve deterministically.
// A record with no arrivals yields a Case with an empty path; a record with an
// unresolvable ordering returns a MalformedEventError.
func BuildCase(rec RawRecord) (Case, error) {
	c := Case{
		ID:          rec.CaseID,
		Supplier:    rec.Supplier,
		Category:    rec.Category,
		StorageType: rec.StorageType,
		Status:      rec.Status,
	}

	events := make([]LocationEvent, 0, len(rec.Arrivals))
	for _, a := range rec.Arrivals {
		events = append(events, LocationEvent{
			Location: a.Location,
			Kind:     a.Kind,
			Date:     truncateToDay(a.Date),
			Rank:     a.Rank,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Rank < events[j].Rank
	})

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if cur.Date.Equal(prev.Date) && cur.Rank == prev.Rank {
			return Case{}, &MalformedEventError{
				CaseID:    rec.CaseID,
				Date:      cur.Date,
				Locations: [2]string{prev.Location, cur.Location},
			}
		}
	}

	c.Events = events
	return c, nil
}

// BuildTimelines constructs the full case population from the ingested rows.
// Per-case malformed data is isolated: the offending case is excluded and the
// batch continues. Cases with zero events are likewise excluded. Both kinds of
// exclusion are returned for auditing and logged.
func BuildTimelines(records []RawRecord) ([]Case, []Exclusion) {
	cases := make([]Case, 0, len(records))
	var excluded []Exclusion

	for _, rec := range records {
		c, err := BuildCase(rec)
		if err != nil {
			log.Error().Str("case", rec.CaseID).Err(err).Msg("Excluding case with malformed events")
			excluded = append(excluded, Exclusion{CaseID: rec.CaseID, Reason: ReasonMalformedEvents, Detail: err.Error()})
			continue
		}
		if len(c.Events) == 0 {
			log.Warn().Str("case", rec.CaseID).Msg("Excluding case with empty timeline")
			excluded = append(excluded, Exclusion{CaseID: rec.CaseID, Reason: ReasonEmptyTimeline})
			continue
		}
		cases = append(cases, c)
	}

	if len(excluded) > 0 {
		log.Warn().Int("excluded", len(excluded)).Int("kept", len(cases)).Msg("Timeline construction dropped cases")
	}
	return cases, excluded
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
