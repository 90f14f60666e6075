package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dlowe-net/repeat/internal/clock"
)

// ParseInterval parses a duration of the form "<float>[dhms]". The
// magnitude is scaled by the unit (seconds when omitted) and split into
// whole seconds plus a nanosecond remainder.
func ParseInterval(s string) (clock.Stamp, error) {
	num := s
	scale := 1.0
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'd':
			num, scale = s[:len(s)-1], 86400
		case 'h':
			num, scale = s[:len(s)-1], 3600
		case 'm':
			num, scale = s[:len(s)-1], 60
		case 's':
			num = s[:len(s)-1]
		}
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		// Distinguish a bad unit suffix from a malformed magnitude.
		if num == s && len(s) > 1 {
			if _, magErr := strconv.ParseFloat(s[:len(s)-1], 64); magErr == nil {
				return clock.Stamp{}, fmt.Errorf("bad unit %q for interval - must be one of d, h, m, or s", string(s[len(s)-1]))
			}
		}
		return clock.Stamp{}, fmt.Errorf("invalid interval %q", s)
	}

	if f < 0 {
		return clock.Stamp{}, fmt.Errorf("interval must not be negative")
	}

	f *= scale
	sec := math.Trunc(f)
	return clock.Stamp{Sec: int64(sec), Nsec: int64((f - sec) * 1e9)}, nil
}
