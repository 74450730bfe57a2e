package ledger

import (
	"fmt"
	"time"
)

// MalformedEventError marks a case whose arrival facts cannot be ordered
// deterministically: two events share both timestamp and column rank, so the
// configured tie-break cannot resolve them. The case is excluded and the batch
// continues.
type MalformedEventError struct {
	CaseID    string
	Date      time.Time
	Locations [2]string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("case %s: events at %s and %s share timestamp %s and column rank, tie-break unresolvable",
		e.CaseID, e.Locations[0], e.Locations[1], e.Date.Format("2006-01-02"))
}

// UnknownLocationError marks a location id that is absent from the classifier
// reference data. It is fatal for a run: silently defaulting a classification
// would corrupt every rollup downstream.
type UnknownLocationError struct {
	Location string
	Kind     LocationKind
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown %s %q: not in classifier reference data", e.Kind, e.Location)
}
