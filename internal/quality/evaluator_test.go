package quality

import (
	"testing"
	"time"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
)

func trainRows(unit int64, cycles int64) []cmapss.EnrichedRun {
	rows := make([]cmapss.EnrichedRun, 0, cycles)
	for c := int64(1); c <= cycles; c++ {
		rows = append(rows, cmapss.EnrichedRun{
			Run: cmapss.Run{UnitNumber: unit, TimeInCycles: c},
			RUL: cycles - c,
		})
	}
	return rows
}

func TestEvaluate_TrainPass(t *testing.T) {
	rows := append(trainRows(1, 5), trainRows(2, 3)...)
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "train",
		InputRows: len(rows),
		Rows:      rows,
	})
	if report.Status != "pass" {
		t.Fatalf("status=%q, want pass (failing=%v)", report.Status, report.Summary.Failing)
	}
	if report.Summary.ChecksTotal != 4 {
		t.Fatalf("checks=%d, want 4", report.Summary.ChecksTotal)
	}
	if len(report.ColumnStats) != cmapss.NumColumns+1 {
		t.Fatalf("column stats=%d, want %d", len(report.ColumnStats), cmapss.NumColumns+1)
	}
}

func TestEvaluate_TrainTerminalNotZero(t *testing.T) {
	rows := trainRows(1, 4)
	rows[len(rows)-1].RUL = 2
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "train",
		InputRows: len(rows),
		Rows:      rows,
	})
	if report.Status != "fail" {
		t.Fatalf("status=%q, want fail", report.Status)
	}
	found := false
	for _, id := range report.Summary.Failing {
		if id == checkTerminalRULZero {
			found = true
		}
	}
	if !found {
		t.Fatalf("failing=%v, want %s", report.Summary.Failing, checkTerminalRULZero)
	}
}

func TestEvaluate_TrainBrokenDecrement(t *testing.T) {
	rows := trainRows(1, 5)
	rows[2].RUL = 9
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "train",
		InputRows: len(rows),
		Rows:      rows,
	})
	if report.Status != "fail" {
		t.Fatalf("status=%q, want fail", report.Status)
	}
}

func TestEvaluate_RowCountMismatch(t *testing.T) {
	rows := trainRows(1, 3)
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "train",
		InputRows: 5,
		Rows:      rows,
	})
	if report.Status != "fail" {
		t.Fatalf("status=%q, want fail", report.Status)
	}
	if report.Summary.Failing[0] != checkRowCountMatches {
		t.Fatalf("failing=%v, want %s first", report.Summary.Failing, checkRowCountMatches)
	}
}

func TestEvaluate_NegativeRUL(t *testing.T) {
	rows := trainRows(1, 3)
	rows[0].RUL = -1
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "train",
		InputRows: len(rows),
		Rows:      rows,
	})
	if report.Status != "fail" {
		t.Fatalf("status=%q, want fail", report.Status)
	}
}

func TestEvaluate_TestIdentity(t *testing.T) {
	labels := map[int64]int64{1: 10}
	rows := make([]cmapss.EnrichedRun, 0, 5)
	for c := int64(1); c <= 5; c++ {
		rows = append(rows, cmapss.EnrichedRun{
			Run: cmapss.Run{UnitNumber: 1, TimeInCycles: c},
			RUL: 5 + 10 - c,
		})
	}
	report := Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "test",
		InputRows: len(rows),
		Labels:    labels,
		Rows:      rows,
	})
	if report.Status != "pass" {
		t.Fatalf("status=%q, want pass (failing=%v)", report.Status, report.Summary.Failing)
	}
	if report.Summary.ChecksTotal != 3 {
		t.Fatalf("checks=%d, want 3", report.Summary.ChecksTotal)
	}

	rows[4].RUL = 99
	report = Evaluate(time.Unix(1700000000, 0), Inputs{
		Split:     "test",
		InputRows: len(rows),
		Labels:    labels,
		Rows:      rows,
	})
	if report.Status != "fail" {
		t.Fatalf("status=%q, want fail", report.Status)
	}
}

func TestColumnStats_RULRange(t *testing.T) {
	stats := columnStats(trainRows(1, 5))
	var rul *ColumnStat
	for i := range stats {
		if stats[i].Column == "RUL" {
			rul = &stats[i]
		}
	}
	if rul == nil {
		t.Fatalf("no RUL column stat")
	}
	if rul.Min != 0 || rul.Max != 4 || rul.Mean != 2 {
		t.Fatalf("RUL stats = %+v, want min 0 max 4 mean 2", *rul)
	}
}
