package bloaty

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotEnoughLines = errors.New("the bloaty output contains not enough lines")
	ErrUnexpectedRow  = errors.New("the bloaty output contains unexpected lines")
	ErrNotANumber     = errors.New("could not convert the bloaty output parts to numbers")
)

const (
	singleTargetFields = 3
	diffFields         = 7
)

// SizeSummary is the overall size, or size change when bloaty compared two
// targets, summed over every row of a CSV report.
type SizeSummary struct {
	FileAbsolute   int64
	FilePercentage float64
	VmAbsolute     int64
	VmPercentage   float64
}

// FilePercentageString renders the percentage with two decimals.
func (s SizeSummary) FilePercentageString() string {
	return strconv.FormatFloat(s.FilePercentage, 'f', 2, 64)
}

func (s SizeSummary) VmPercentageString() string {
	return strconv.FormatFloat(s.VmPercentage, 'f', 2, 64)
}

type totals struct {
	origVm, origFile       int64
	currentVm, currentFile int64
}

// Aggregate sums a `bloaty --csv` report. The header is skipped; rows with
// 3 fields (label, vmsize, filesize) add to the current sizes, rows with 7
// fields add columns 3 to 6 to the original vm, original file, current vm
// and current file sizes.
func Aggregate(csvText string) (SizeSummary, error) {
	lines, err := splitLines(csvText)
	if err != nil {
		return SizeSummary{}, fmt.Errorf("failed to split bloaty output: %w", err)
	}
	if len(lines) < 2 {
		return SizeSummary{}, fmt.Errorf("%w: got %d", ErrNotEnoughLines, len(lines))
	}

	var t totals
	for i, line := range lines[1:] {
		if err := t.add(line); err != nil {
			return SizeSummary{}, fmt.Errorf("row %d %q: %w", i+1, line, err)
		}
	}

	return t.summary(), nil
}

func (t *totals) add(line string) error {
	fields := strings.Split(line, ",")

	switch len(fields) {
	case singleTargetFields:
		vals, err := parseInts(fields[1:3])
		if err != nil {
			return err
		}
		t.currentVm += vals[0]
		t.currentFile += vals[1]
	case diffFields:
		vals, err := parseInts(fields[3:7])
		if err != nil {
			return err
		}
		t.origVm += vals[0]
		t.origFile += vals[1]
		t.currentVm += vals[2]
		t.currentFile += vals[3]
	default:
		return fmt.Errorf("%w: %d fields", ErrUnexpectedRow, len(fields))
	}
	return nil
}

func (t *totals) summary() SizeSummary {
	var s SizeSummary
	s.FileAbsolute, s.FilePercentage = delta(t.origFile, t.currentFile)
	s.VmAbsolute, s.VmPercentage = delta(t.origVm, t.currentVm)
	return s
}

// delta returns the change against orig, or the plain current size when
// there is no baseline.
func delta(orig, current int64) (int64, float64) {
	if orig == 0 {
		return current, 0
	}
	abs := current - orig
	return abs, float64(abs) / float64(orig) * 100
}

func parseInts(fields []string) ([]int64, error) {
	vals := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotANumber, f)
		}
		vals[i] = v
	}
	return vals, nil
}

func splitLines(text string) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(strings.NewReader(text))
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}
