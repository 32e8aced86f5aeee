// Package clock provides the machine-wide monotonic reference used to anchor
// a recording session. Offsets are computed against a persisted anchor value,
// so the reading must stay comparable across independent process invocations;
// Go's in-process monotonic time.Time reading cannot be persisted, hence the
// raw CLOCK_MONOTONIC counter.
package clock

// NowNS returns the current monotonic clock reading in nanoseconds.
func NowNS() int64 {
	return monotonicNowNS()
}

// ElapsedMS returns whole milliseconds elapsed since anchorNS, rounded to the
// nearest millisecond and clamped at zero.
func ElapsedMS(anchorNS int64) int64 {
	elapsed := NowNS() - anchorNS
	if elapsed <= 0 {
		return 0
	}
	return (elapsed + 500_000) / 1_000_000
}
