package leadcapture

import "time"

// Timer is the subset of *time.Timer sessions rely on.
type Timer interface {
	Stop() bool
}

// Clock lets tests drive the transition delay and session expiry.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }
