package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCarriesNanosecondOverflow(t *testing.T) {
	a := Stamp{Sec: 1, Nsec: 600_000_000}
	b := Stamp{Sec: 2, Nsec: 700_000_000}

	sum := a.Add(b)

	assert.Equal(t, Stamp{Sec: 4, Nsec: 300_000_000}, sum)
}

func TestAddNormalizesOversizedComponents(t *testing.T) {
	a := Stamp{Nsec: 1_500_000_000}
	b := Stamp{Nsec: 1_600_000_000}

	sum := a.Add(b)

	assert.Equal(t, Stamp{Sec: 3, Nsec: 100_000_000}, sum)
}

func TestAddNormalizesNegativeNanoseconds(t *testing.T) {
	a := Stamp{Sec: 2, Nsec: 100_000_000}
	b := FromDuration(-500 * time.Millisecond)

	sum := a.Add(b)

	assert.Equal(t, Stamp{Sec: 1, Nsec: 600_000_000}, sum)
	assert.Equal(t, 1600*time.Millisecond, sum.Duration())
}

func TestRepeatedAddDoesNotDrift(t *testing.T) {
	// Ten additions of 0.3s must land exactly on 3s: the nanosecond
	// remainder has to stay in [0, 1e9) at every step with the carry
	// going into the seconds component.
	step := Stamp{Nsec: 300_000_000}
	var sum Stamp
	for i := 0; i < 10; i++ {
		sum = sum.Add(step)
		require.GreaterOrEqual(t, sum.Nsec, int64(0))
		require.Less(t, sum.Nsec, int64(1_000_000_000))
	}
	assert.Equal(t, Stamp{Sec: 3, Nsec: 0}, sum)
}

func TestDeadlinesAreExactMultiplesOfInterval(t *testing.T) {
	origin := Stamp{Sec: 100, Nsec: 999_999_999}
	interval := Stamp{Sec: 0, Nsec: 400_000_000}

	deadline := origin
	for k := 1; k <= 25; k++ {
		deadline = deadline.Add(interval)
		want := origin.Duration() + time.Duration(k)*interval.Duration()
		assert.Equal(t, want, deadline.Duration(), "deadline %d", k)
	}
}

func TestFromDurationSplitsComponents(t *testing.T) {
	s := FromDuration(1500 * time.Millisecond)
	assert.Equal(t, Stamp{Sec: 1, Nsec: 500_000_000}, s)
}

func TestSubAndDurationRoundTrip(t *testing.T) {
	a := Stamp{Sec: 2, Nsec: 250_000_000}
	b := Stamp{Sec: 1, Nsec: 750_000_000}
	assert.Equal(t, 500*time.Millisecond, a.Sub(b))
	assert.Equal(t, 2250*time.Millisecond, a.Duration())
}

func TestNowIsMonotonic(t *testing.T) {
	a := Now()
	b := Now()
	assert.GreaterOrEqual(t, b.Sub(a), time.Duration(0))
}

func TestSleepUntilPastDeadlineReturnsImmediately(t *testing.T) {
	start := time.Now()
	SleepUntil(Now().Add(Stamp{Sec: -1}))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestSleepUntilWaitsOutTheDeadline(t *testing.T) {
	deadline := Now().Add(FromDuration(30 * time.Millisecond))
	SleepUntil(deadline)
	assert.GreaterOrEqual(t, Now().Sub(deadline), time.Duration(0))
}
