package analysis

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Callbacks must run on the goroutine that owns
// the store.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Dispatcher runs f on the goroutine that owns the store. The app passes
// fyne.Do.
type Dispatcher func(f func())

// Direct runs f on the calling goroutine.
func Direct(f func()) { f() }

// SystemClock is a Clock backed by time.AfterFunc whose callbacks are posted
// through Dispatch.
type SystemClock struct {
	Dispatch Dispatcher
}

func (c SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	dispatch := c.Dispatch
	if dispatch == nil {
		dispatch = Direct
	}
	return time.AfterFunc(d, func() { dispatch(f) })
}
