package composer

import "errors"

var (
	// ErrIncompleteDraft is returned by Submit when recipients or subject are blank.
	ErrIncompleteDraft = errors.New("composer: recipients and subject are required")

	// ErrRejected wraps a non-2xx answer from the dispatcher.
	ErrRejected = errors.New("composer: email rejected")

	// ErrUnreachable wraps transport, decoding and cancellation failures.
	ErrUnreachable = errors.New("composer: dispatcher unreachable")
)
