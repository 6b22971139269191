package audio

import "time"

// Timer is a cancellable pending action.
type Timer interface {
	// Stop prevents the action from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Scheduler runs functions after a delay on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// wallScheduler schedules on the wall clock.
type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
