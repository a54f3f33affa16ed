package commands

import "time"

// SetNow overrides the clock used for default dates.
func SetNow(f func() time.Time) (restore func()) {
	prev := now
	now = f
	return func() { now = prev }
}
