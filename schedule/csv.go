// Package schedule loads qualification match schedules, either from an
// uploaded CSV or from The Blue Alliance.
package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reef-scout/scouting"
)

// ErrInvalidSchedule is returned for a schedule that cannot be imported.
// Nothing from such a schedule is stored.
var ErrInvalidSchedule = errors.New("invalid schedule")

// csvColumns is the column order of a schedule CSV after its header row.
var csvColumns = []string{"number", "blue1", "blue2", "blue3", "red1", "red2", "red3"}

// ParseCSV reads a schedule CSV. The first row is a header and is skipped;
// every other row must hold seven integers in csvColumns order.
func ParseCSV(r io.Reader) ([]scouting.Match, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidSchedule)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	var matches []scouting.Match
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		line, _ := cr.FieldPos(0)

		if len(row) != len(csvColumns) {
			return nil, fmt.Errorf("%w: line %d: want %d columns, got %d", ErrInvalidSchedule, line, len(csvColumns), len(row))
		}
		vals := make([]int, len(row))
		for i, cell := range row {
			n, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s %q is not a number", ErrInvalidSchedule, line, csvColumns[i], cell)
			}
			vals[i] = n
		}
		if vals[0] <= 0 {
			return nil, fmt.Errorf("%w: line %d: match number must be positive", ErrInvalidSchedule, line)
		}

		matches = append(matches, scouting.Match{
			Number: vals[0],
			Blue1:  vals[1], Blue2: vals[2], Blue3: vals[3],
			Red1: vals[4], Red2: vals[5], Red3: vals[6],
		})
	}
	return matches, nil
}
