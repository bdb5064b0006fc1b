package parquetout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	rows := []cmapss.EnrichedRun{
		{Run: cmapss.Run{UnitNumber: 1, TimeInCycles: 1, T2: 518.67, OpSetting1: -0.0007}, RUL: 2},
		{Run: cmapss.Run{UnitNumber: 1, TimeInCycles: 2, T2: 518.68}, RUL: 1},
		{Run: cmapss.Run{UnitNumber: 1, TimeInCycles: 3, W32: 23.42}, RUL: 0},
	}

	path := filepath.Join(t.TempDir(), "train.parquet")
	result, err := WriteFile(path, rows)
	if err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}
	if result.Rows != 3 {
		t.Fatalf("rows=%d, want 3", result.Rows)
	}
	if result.SizeBytes <= 0 {
		t.Fatalf("size=%d, want > 0", result.SizeBytes)
	}
	if len(result.ContentSHA256) != 64 {
		t.Fatalf("sha256=%q, want 64 hex chars", result.ContentSHA256)
	}

	got, err := parquet.ReadFile[cmapss.EnrichedRun](path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got[i], rows[i])
		}
	}
}

func TestWriteFile_FlatColumnOrder(t *testing.T) {
	rows := []cmapss.EnrichedRun{
		{Run: cmapss.Run{UnitNumber: 1, TimeInCycles: 1}, RUL: 0},
	}
	path := filepath.Join(t.TempDir(), "cols.parquet")
	if _, err := WriteFile(path, rows); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatalf("OpenFile() err=%v", err)
	}

	want := cmapss.Columns()
	columns := pf.Schema().Columns()
	if len(columns) != len(want) {
		t.Fatalf("columns=%d, want %d", len(columns), len(want))
	}
	for i, column := range columns {
		if len(column) != 1 {
			t.Fatalf("column %d is nested: %v", i, column)
		}
		if column[0] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, column[0], want[i])
		}
	}
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	result, err := WriteFile(path, nil)
	if err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}
	if result.Rows != 0 {
		t.Fatalf("rows=%d, want 0", result.Rows)
	}

	got, err := parquet.ReadFile[cmapss.EnrichedRun](path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("read %d rows, want 0", len(got))
	}
}
