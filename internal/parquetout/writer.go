// Package parquetout persists enriched run tables as Parquet files,
// preserving column order, names, and numeric types.
package parquetout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/aman628/predictive-maintainance/internal/cmapss"
)

// ContentType is the media type recorded for published objects.
const ContentType = "application/vnd.apache.parquet"

// Result describes one written file. Size and content hash feed dataset
// version registration.
type Result struct {
	Path          string
	Rows          int
	SizeBytes     int64
	ContentSHA256 string
}

// Write serializes rows to w in parquet layout.
func Write(w io.Writer, rows []cmapss.EnrichedRun) error {
	pw := parquet.NewGenericWriter[cmapss.EnrichedRun](w)
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// WriteFile writes rows to path and returns size and content fingerprint of
// the produced file.
func WriteFile(path string, rows []cmapss.EnrichedRun) (Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("create %s: %w", path, err)
	}

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(f, hasher)}
	if err := Write(counter, rows); err != nil {
		_ = f.Close()
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("close %s: %w", path, err)
	}

	return Result{
		Path:          path,
		Rows:          len(rows),
		SizeBytes:     counter.n,
		ContentSHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
