package bringup

import "time"

// Ticker paces connect retries.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TimeProvider is the clock a Board retries and times its scan with.
type TimeProvider interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// wallClock is the TimeProvider used unless WithTimeProvider replaces it.
type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) NewTicker(d time.Duration) Ticker {
	return wallTicker{time.NewTicker(d)}
}

type wallTicker struct {
	*time.Ticker
}

func (t wallTicker) C() <-chan time.Time {
	return t.Ticker.C
}
