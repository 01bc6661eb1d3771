package sessions

import "errors"

var (
	// ErrNotReady means the session lacks the resume text or profile
	// data that generation needs.
	ErrNotReady = errors.New("session is not ready for generation")

	// ErrGenerationBusy means a generation request is already running
	// for the session.
	ErrGenerationBusy = errors.New("generation already in progress")
)
