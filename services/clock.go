package services

import "time"

// Clock abstracts wall-clock time so dedup windows and schedule math are
// testable without real waits.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
