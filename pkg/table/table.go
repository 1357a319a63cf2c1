// Package table reads single values out of the human-readable tables that
// partitioning tools print.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrRowNotFound      = errors.New("row not found")
	ErrColumnOutOfRange = errors.New("column out of range")
)

// Locate finds the first line of text labelled with label and returns its
// whitespace-separated column at index column (0-based) verbatim.
//
// A line is labelled with label if, ignoring leading whitespace, it starts
// with label and label is not immediately followed by a letter or digit.
// "First sector" matches "First sector: 2048 (at 1024.0 KiB)" and "3"
// matches "   3   2048   4095" but not "  30   2048   4095".
func Locate(text, label string, column int) (string, error) {
	if column < 0 {
		return "", fmt.Errorf("%w: negative column %d", ErrColumnOutOfRange, column)
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if !hasLabel(line, label) {
			continue
		}
		fields := strings.Fields(line)
		if column >= len(fields) {
			return "", fmt.Errorf("%w: row %q has %d columns, want column %d", ErrColumnOutOfRange, label, len(fields), column)
		}
		return fields[column], nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: %q", ErrRowNotFound, label)
}

func hasLabel(line, label string) bool {
	if label == "" {
		return false
	}
	rest, ok := strings.CutPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), label)
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
