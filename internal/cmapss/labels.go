package cmapss

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadLabels parses a remaining-cycles label file: one non-negative integer
// per line, one line per unit. The file carries no unit numbers; the unit
// for each row is its 1-based line position. That positional contract means
// label rows must be contiguous and ordered from unit 1, so interior blank
// lines and multi-field lines are schema errors rather than being skipped —
// skipping one would silently shift every later unit's label. Blank lines
// are allowed only at the end of the file.
func ReadLabels(r io.Reader) (map[int64]int64, error) {
	scanner := bufio.NewScanner(r)

	labels := make(map[int64]int64)
	line := 0
	blankAt := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			if blankAt == 0 {
				blankAt = line
			}
			continue
		}
		if blankAt != 0 {
			return nil, &SchemaError{Line: blankAt, Reason: "blank line inside label file breaks positional unit numbering"}
		}
		fields := strings.Fields(text)
		if len(fields) != 1 {
			return nil, &SchemaError{Line: line, Reason: fmt.Sprintf("expected 1 field, got %d", len(fields))}
		}
		remaining, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, &SchemaError{Line: line, Reason: fmt.Sprintf("remaining_cycles %q is not an integer", fields[0])}
		}
		if remaining < 0 {
			return nil, &SchemaError{Line: line, Reason: fmt.Sprintf("remaining_cycles %d must be >= 0", remaining)}
		}
		labels[int64(len(labels)+1)] = remaining
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan labels: %w", err)
	}
	return labels, nil
}

// ReadLabelsFile reads a label file from disk.
func ReadLabelsFile(path string) (map[int64]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	labels, err := ReadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}
