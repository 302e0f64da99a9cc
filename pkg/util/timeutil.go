package util

import "time"

// NowUTC is the clock used for record timestamps.
func NowUTC() time.Time {
	return time.Now().UTC()
}
