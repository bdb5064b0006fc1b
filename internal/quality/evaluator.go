// Package quality gates enriched splits before publication: a check-based
// report over the derived RUL column plus per-column summary statistics.
package quality

import (
	"fmt"
	"time"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
)

const reportSchemaV1 = "rulprep.quality.report.v1"

const (
	checkRowCountMatches = "row_count_matches"
	checkRULNonNegative  = "rul_non_negative"
	checkTerminalRULZero = "terminal_rul_zero"
	checkRULDecrement    = "rul_unit_decrement"
	checkTestIdentity    = "test_rul_identity"
)

// Report is the evaluation outcome for one split.
type Report struct {
	Schema      string        `json:"schema"`
	Split       string        `json:"split"`
	Status      string        `json:"status"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
	Summary     Summary       `json:"summary"`
	Checks      []CheckResult `json:"checks"`
	ColumnStats []ColumnStat  `json:"column_stats,omitempty"`
}

type Summary struct {
	ChecksTotal int      `json:"checks_total"`
	ChecksPass  int      `json:"checks_pass"`
	ChecksFail  int      `json:"checks_fail"`
	Failing     []string `json:"failing_check_ids,omitempty"`
}

type CheckResult struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Observed map[string]any `json:"observed,omitempty"`
	Expected map[string]any `json:"expected,omitempty"`
}

// Inputs carries one enriched split plus what it was derived from.
type Inputs struct {
	Split     string
	InputRows int
	Labels    map[int64]int64
	Rows      []cmapss.EnrichedRun
}

// Evaluate runs every applicable check over the split. Decrement and
// terminal-zero checks apply to train semantics only (labels nil); the RUL
// identity check applies to test semantics only.
func Evaluate(now time.Time, in Inputs) Report {
	report := Report{
		Schema:      reportSchemaV1,
		Split:       in.Split,
		EvaluatedAt: now.UTC(),
	}

	checks := []CheckResult{
		checkRowCount(in),
		checkNonNegative(in.Rows),
	}
	if in.Labels == nil {
		checks = append(checks, checkTerminalZero(in.Rows), checkDecrement(in.Rows))
	} else {
		checks = append(checks, checkIdentity(in.Rows, in.Labels))
	}

	var failing []string
	passCount := 0
	for _, check := range checks {
		if check.Status == "pass" {
			passCount++
			continue
		}
		failing = append(failing, check.ID)
	}

	report.Checks = checks
	report.Summary = Summary{
		ChecksTotal: len(checks),
		ChecksPass:  passCount,
		ChecksFail:  len(checks) - passCount,
		Failing:     failing,
	}
	if len(failing) > 0 {
		report.Status = "fail"
	} else {
		report.Status = "pass"
	}
	report.ColumnStats = columnStats(in.Rows)
	return report
}

func checkRowCount(in Inputs) CheckResult {
	result := CheckResult{
		ID:       checkRowCountMatches,
		Observed: map[string]any{"output_rows": len(in.Rows)},
		Expected: map[string]any{"input_rows": in.InputRows},
	}
	if len(in.Rows) != in.InputRows {
		result.Status = "fail"
		result.Message = "enrichment changed the row count"
		return result
	}
	result.Status = "pass"
	return result
}

func checkNonNegative(rows []cmapss.EnrichedRun) CheckResult {
	result := CheckResult{ID: checkRULNonNegative}
	for i, row := range rows {
		if row.RUL < 0 {
			result.Status = "fail"
			result.Message = fmt.Sprintf("row %d unit %d has RUL %d", i, row.UnitNumber, row.RUL)
			result.Observed = map[string]any{"row": i, "rul": row.RUL}
			return result
		}
	}
	result.Status = "pass"
	return result
}

func checkTerminalZero(rows []cmapss.EnrichedRun) CheckResult {
	result := CheckResult{ID: checkTerminalRULZero}
	type terminal struct {
		cycle int64
		rul   int64
	}
	last := make(map[int64]terminal)
	for _, row := range rows {
		if prev, ok := last[row.UnitNumber]; !ok || row.TimeInCycles > prev.cycle {
			last[row.UnitNumber] = terminal{cycle: row.TimeInCycles, rul: row.RUL}
		}
	}
	for unit, t := range last {
		if t.rul != 0 {
			result.Status = "fail"
			result.Message = fmt.Sprintf("unit %d ends at RUL %d", unit, t.rul)
			result.Observed = map[string]any{"unit": unit, "terminal_rul": t.rul}
			return result
		}
	}
	result.Status = "pass"
	return result
}

func checkDecrement(rows []cmapss.EnrichedRun) CheckResult {
	result := CheckResult{ID: checkRULDecrement}
	type point struct {
		cycle int64
		rul   int64
	}
	prev := make(map[int64]point)
	for i, row := range rows {
		if p, ok := prev[row.UnitNumber]; ok && row.TimeInCycles == p.cycle+1 {
			if row.RUL != p.rul-1 {
				result.Status = "fail"
				result.Message = fmt.Sprintf("row %d unit %d: RUL %d after %d", i, row.UnitNumber, row.RUL, p.rul)
				result.Observed = map[string]any{"unit": row.UnitNumber, "cycle": row.TimeInCycles}
				return result
			}
		}
		prev[row.UnitNumber] = point{cycle: row.TimeInCycles, rul: row.RUL}
	}
	result.Status = "pass"
	return result
}

func checkIdentity(rows []cmapss.EnrichedRun, labels map[int64]int64) CheckResult {
	result := CheckResult{ID: checkTestIdentity}
	maxCycles := make(map[int64]int64)
	for _, row := range rows {
		maxCycles[row.UnitNumber]++
	}
	for i, row := range rows {
		remaining, ok := labels[row.UnitNumber]
		if !ok {
			result.Status = "fail"
			result.Message = fmt.Sprintf("row %d unit %d has no label", i, row.UnitNumber)
			result.Observed = map[string]any{"unit": row.UnitNumber}
			return result
		}
		want := maxCycles[row.UnitNumber] + remaining - row.TimeInCycles
		if row.RUL != want {
			result.Status = "fail"
			result.Message = fmt.Sprintf("row %d unit %d: RUL %d, identity gives %d", i, row.UnitNumber, row.RUL, want)
			result.Observed = map[string]any{"unit": row.UnitNumber, "rul": row.RUL, "want": want}
			return result
		}
	}
	result.Status = "pass"
	return result
}
