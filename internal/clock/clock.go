package clock

import "time"

const nsPerSec = 1_000_000_000

// Stamp is a point on the process-local monotonic clock, or a span
// between two such points, held as separate second and nanosecond
// components so deadline arithmetic never loses sub-second precision.
type Stamp struct {
	Sec  int64
	Nsec int64
}

// base anchors Now to the monotonic reading the runtime captured at
// process start. All stamps are offsets from it.
var base = time.Now()

// Now returns the current monotonic clock reading.
func Now() Stamp {
	return FromDuration(time.Since(base))
}

// FromDuration converts d into a Stamp.
func FromDuration(d time.Duration) Stamp {
	return Stamp{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
}

// Add returns s+o with the nanosecond component normalized into
// [0, 1e9), carrying overflow into the seconds component and borrowing
// from it when the sum of the nanosecond components is negative. The
// invariant holds for any inputs; deadlines advanced by repeated Add
// never accumulate drift.
func (s Stamp) Add(o Stamp) Stamp {
	nsec := s.Nsec%nsPerSec + o.Nsec%nsPerSec
	sec := s.Sec + o.Sec + s.Nsec/nsPerSec + o.Nsec/nsPerSec + nsec/nsPerSec
	nsec %= nsPerSec
	if nsec < 0 {
		nsec += nsPerSec
		sec--
	}
	return Stamp{Sec: sec, Nsec: nsec}
}

// Sub returns the duration from o to s.
func (s Stamp) Sub(o Stamp) time.Duration {
	return time.Duration(s.Sec-o.Sec)*time.Second + time.Duration(s.Nsec-o.Nsec)
}

// Duration converts s into a time.Duration.
func (s Stamp) Duration() time.Duration {
	return time.Duration(s.Sec)*time.Second + time.Duration(s.Nsec)
}

// IsZero reports whether both components are zero.
func (s Stamp) IsZero() bool {
	return s.Sec == 0 && s.Nsec == 0
}

// SleepUntil blocks until the monotonic clock reaches deadline. A sleep
// that wakes early is retried for the remaining duration until the
// deadline has actually passed; a deadline already in the past returns
// immediately.
func SleepUntil(deadline Stamp) {
	for {
		remaining := deadline.Sub(Now())
		if remaining <= 0 {
			return
		}
		time.Sleep(remaining)
	}
}
