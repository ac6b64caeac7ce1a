package canary

import "time"

// ExpectedIntervals returns how many alignment periods of stepSeconds fit in
// [start, end), counting a trailing partial period as a whole one. The elapsed
// time is truncated to whole seconds first. A non-positive step yields 0.
func ExpectedIntervals(start, end time.Time, stepSeconds int64) int64 {
	if stepSeconds <= 0 {
		return 0
	}
	elapsedSeconds := (end.UnixMilli() - start.UnixMilli()) / 1000
	n := elapsedSeconds / stepSeconds
	if elapsedSeconds%stepSeconds > 0 {
		n++
	}
	return n
}
