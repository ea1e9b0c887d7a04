package utils

import "time"

func TimeToTimestamp(t time.Time) int64 {
	return t.Unix()
}

// SecondsUntil returns the whole seconds from now until the epoch timestamp exp.
// Negative when exp is in the past.
func SecondsUntil(exp int64, now time.Time) int64 {
	return exp - TimeToTimestamp(now)
}
