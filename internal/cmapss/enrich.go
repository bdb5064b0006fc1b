package cmapss

import (
	"fmt"
	"sort"
	"strings"
)

// MissingLabelError reports test-set units that have run records but no
// label row. RUL cannot be derived for such units, so the batch fails
// rather than defaulting the offset.
type MissingLabelError struct {
	Units []int64
}

func (e *MissingLabelError) Error() string {
	parts := make([]string, len(e.Units))
	for i, unit := range e.Units {
		parts[i] = fmt.Sprintf("%d", unit)
	}
	return fmt.Sprintf("no remaining_cycles label for unit(s) %s", strings.Join(parts, ", "))
}

// Enrich derives a RUL column for every run record.
//
// With labels nil (train semantics) the last observed cycle of each unit is
// its failure point: RUL = max_cycles - time_in_cycles. With labels present
// (test semantics) failure occurs remaining_cycles after the log ends:
// RUL = max_cycles + remaining_cycles - time_in_cycles.
//
// max_cycles is the record count per unit. Row order and row count are
// preserved; the output schema is the input schema plus RUL. A label with
// no matching run records is inert.
func Enrich(runs []Run, labels map[int64]int64) ([]EnrichedRun, error) {
	maxCycles := make(map[int64]int64)
	for _, run := range runs {
		maxCycles[run.UnitNumber]++
	}

	if labels != nil {
		missing := make(map[int64]struct{})
		for unit := range maxCycles {
			if _, ok := labels[unit]; !ok {
				missing[unit] = struct{}{}
			}
		}
		if len(missing) > 0 {
			units := make([]int64, 0, len(missing))
			for unit := range missing {
				units = append(units, unit)
			}
			sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
			return nil, &MissingLabelError{Units: units}
		}
	}

	enriched := make([]EnrichedRun, 0, len(runs))
	for _, run := range runs {
		rul := maxCycles[run.UnitNumber] - run.TimeInCycles
		if labels != nil {
			rul += labels[run.UnitNumber]
		}
		enriched = append(enriched, EnrichedRun{Run: run, RUL: rul})
	}
	return enriched, nil
}
