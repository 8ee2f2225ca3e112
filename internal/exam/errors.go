package exam

import "errors"

var (
	// ErrInvalidRequest signals a start/submit request missing a required field.
	ErrInvalidRequest = errors.New("missing required field")
	// ErrNoActiveSession signals a submission with no stored session for the user,
	// e.g. a double submit or a submit after a server restart.
	ErrNoActiveSession = errors.New("NoActiveSession")
	// ErrUnknownLevel signals a level id outside the fixed level table.
	ErrUnknownLevel = errors.New("unknown level")
)
