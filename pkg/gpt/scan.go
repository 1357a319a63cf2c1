package gpt

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrTooFewColumns   = errors.New("too few columns")
)

// MalformedRowError is returned for a partition row that cannot be parsed.
// Line is the row exactly as the tool printed it.
type MalformedRowError struct {
	Line string
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed partition row %q: %v", e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// Scan parses every partition row of a partition table listing.
//
// Rows are the lines that start with a decimal digit once leading whitespace
// is dropped; everything else is treated as header text. Columns 0, 1 and 2
// of a row are the partition number, start sector and end sector. Scan does
// not fail on a listing without rows.
func Scan(output string) ([]PartitionRecord, error) {
	var records []PartitionRecord
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
			continue
		}
		record, err := parseRow(trimmed)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Err: err}
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseRow(row string) (PartitionRecord, error) {
	cols := strings.Fields(row)
	if len(cols) < 3 {
		return PartitionRecord{}, fmt.Errorf("%w: got %d, want at least 3", ErrTooFewColumns, len(cols))
	}
	index, err := strconv.ParseUint(cols[0], 10, 32)
	if err != nil {
		return PartitionRecord{}, fmt.Errorf("partition number: %w %q", ErrMalformedNumber, cols[0])
	}
	start, err := ParseSector(cols[1])
	if err != nil {
		return PartitionRecord{}, fmt.Errorf("start sector: %w", err)
	}
	end, err := ParseSector(cols[2])
	if err != nil {
		return PartitionRecord{}, fmt.Errorf("end sector: %w", err)
	}
	if end < start {
		return PartitionRecord{}, fmt.Errorf("end sector %d is before start sector %d", end, start)
	}
	return PartitionRecord{
		Index:       uint32(index),
		StartSector: start,
		EndSector:   end,
	}, nil
}

// ParseSector parses a decimal sector number or sector count.
func ParseSector(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrMalformedNumber, s)
	}
	return n, nil
}

// ParseSectorSize parses a sector size. Tools print "512/4096" when the
// logical and physical sector sizes differ; the logical size is returned.
func ParseSectorSize(s string) (uint64, error) {
	logical, _, _ := strings.Cut(s, "/")
	size, err := strconv.ParseUint(logical, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sector size: %w %q", ErrMalformedNumber, s)
	}
	if size == 0 {
		return 0, ErrInvalidSectorSize
	}
	return size, nil
}
