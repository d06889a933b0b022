package domain

import "time"

// TimestampPrecision is the resolution at which entity timestamps are stored
// and rendered. It matches ISO-8601 strings with millisecond fractions.
const TimestampPrecision = time.Millisecond

// Timestamp normalizes t to UTC at TimestampPrecision so that values survive a
// round trip through any supported database unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// touch returns the timestamp an updated entity should carry. It never moves
// backwards relative to the previous update, even if the clock does.
func touch(previous, now time.Time) time.Time {
	now = Timestamp(now)
	if now.Before(previous) {
		return previous
	}
	return now
}
