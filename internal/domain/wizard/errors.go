package wizard

import "errors"

// Failure categories of the workflow core. Shopper-facing handlers map
// all of them to a recoverable message; they are distinguished only
// for logging and diagnostics.
var (
	// ErrValidation marks submitted data that does not satisfy a
	// step's requirements.
	ErrValidation = errors.New("step data invalid")

	// ErrSequence marks an out-of-sequence or replayed transition.
	ErrSequence = errors.New("step out of sequence")

	// ErrStoreUnavailable marks a session store read/write failure.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrPageNotConfigured marks a step with no published page mapped
	// to it. The engine never redirects to an absent target.
	ErrPageNotConfigured = errors.New("step page not configured")

	// ErrCorruptSession marks a stored blob that fails shape
	// validation. The session is discarded and the shopper restarts.
	ErrCorruptSession = errors.New("session data corrupt")
)
