package engine

import "time"

// Clock supplies the created_at time of recorded jobs.
//
// History ordering uses the store's seq column, not this clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
