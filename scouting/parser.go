package scouting

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single submission line. Notes are the only long
// values and stay well under this.
const maxLineSize = 1 << 20

// Parse reads a KEY: value submission and returns a best-effort record.
// Lines without a colon and unrecognized keys are skipped, and malformed
// values fall back to their defaults. The only error is a failure to read r.
// Callers should run Validate before storing the result.
func Parse(r io.Reader) (Record, error) {
	values := make(map[string]string)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key, ok := canonicalKey(line[:idx])
		if !ok {
			continue
		}
		values[key] = strings.TrimSpace(line[idx+1:])
	}
	if err := sc.Err(); err != nil {
		return Record{}, fmt.Errorf("read submission: %w", err)
	}

	return build(values), nil
}

// ParseString is Parse over an in-memory submission.
func ParseString(s string) (Record, error) {
	return Parse(strings.NewReader(s))
}

func build(values map[string]string) Record {
	var rec Record
	for _, rl := range rules {
		raw, present := values[rl.key]
		rl.set(&rec, coerce(rl.kind, raw, present))
	}
	return rec
}
