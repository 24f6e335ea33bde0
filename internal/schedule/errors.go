package schedule

import "errors"

var (
	// ErrBadConfig marks a malformed or self-contradictory operating-hours
	// configuration. Never silently repaired.
	ErrBadConfig = errors.New("invalid operating hours")

	// ErrBadInterval marks a malformed occupied interval or service duration.
	ErrBadInterval = errors.New("invalid interval")
)
