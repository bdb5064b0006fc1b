package cmapss

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SchemaError reports a raw input row that does not match the fixed schema.
// The read fails as a whole; no row-skipping recovery is attempted.
type SchemaError struct {
	Line   int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ReadRuns parses whitespace-delimited, headerless run records. Every
// non-blank line must carry exactly NumColumns numeric fields; the first two
// are integers (unit_number, time_in_cycles) and the rest floats. Blank
// lines are tolerated only as padding (trailing newline etc).
func ReadRuns(r io.Reader) ([]Run, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var runs []Run
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		run, err := parseRun(line, text)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}

// ReadRunsFile reads run records from a file on disk.
func ReadRunsFile(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open runs: %w", err)
	}
	defer f.Close()

	runs, err := ReadRuns(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return runs, nil
}

func parseRun(line int, text string) (Run, error) {
	fields := strings.Fields(text)
	if len(fields) != NumColumns {
		return Run{}, &SchemaError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", NumColumns, len(fields)),
		}
	}

	var run Run
	unit, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Run{}, &SchemaError{Line: line, Reason: fmt.Sprintf("unit_number %q is not an integer", fields[0])}
	}
	if unit < 1 {
		return Run{}, &SchemaError{Line: line, Reason: fmt.Sprintf("unit_number %d must be >= 1", unit)}
	}
	cycles, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Run{}, &SchemaError{Line: line, Reason: fmt.Sprintf("time_in_cycles %q is not an integer", fields[1])}
	}
	if cycles < 1 {
		return Run{}, &SchemaError{Line: line, Reason: fmt.Sprintf("time_in_cycles %d must be >= 1", cycles)}
	}
	run.UnitNumber = unit
	run.TimeInCycles = cycles

	for i, field := range run.numericFields() {
		value, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return Run{}, &SchemaError{Line: line, Reason: fmt.Sprintf("field %d %q is not numeric", 2+i+1, fields[2+i])}
		}
		*field = value
	}
	return run, nil
}
