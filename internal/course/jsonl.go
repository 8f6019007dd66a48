package course

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL writes one course per line in JSON, the staging format handed
// to the store importer.
func WriteJSONL(w io.Writer, courses []Course) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range courses {
		if err := enc.Encode(&courses[i]); err != nil {
			return fmt.Errorf("encode course %q: %w", courses[i].YouTubeID, err)
		}
	}
	return nil
}

// ReadJSONL streams courses from newline-delimited JSON, invoking fn for
// every line. Malformed lines are reported through fn with a nil course so
// callers can count them as skipped; the scan never aborts on bad input.
func ReadJSONL(r io.Reader, fn func(c *Course, err error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c Course
		if err := json.Unmarshal(line, &c); err != nil {
			fn(nil, fmt.Errorf("decode course line: %w", err))
			continue
		}
		fn(&c, nil)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read jsonl: %w", err)
	}
	return nil
}
