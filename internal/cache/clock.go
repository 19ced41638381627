package cache

import "time"

// clock abstracts time.Now so TTL expiry can be driven
// deterministically in tests.
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
