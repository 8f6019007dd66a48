package classify

import (
	"regexp"
	"strconv"
)

var durationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 duration token ("PT1H2M3S") to whole
// minutes. Leftover seconds round up to one extra minute, so a 45-second
// video reports 1 minute and a 10:01 video reports 11. Malformed input
// yields 0.
func ParseDuration(value string) int {
	m := durationRE.FindStringSubmatch(value)
	if m == nil {
		return 0
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	total := hours*60 + minutes
	if seconds > 0 {
		total++
	}
	return total
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
