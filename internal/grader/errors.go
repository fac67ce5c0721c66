package grader

import "errors"

// Grading failures are not distinguished by callers beyond message text,
// except ErrCredentialMissing which callers use to flag the whole session.
var (
	// ErrCredentialMissing is returned before any network call when no API
	// key is configured.
	ErrCredentialMissing = errors.New("OpenAI API key not configured, set OPENAI_API_KEY")

	// ErrTransport covers network and connection failures.
	ErrTransport = errors.New("grading service unreachable")

	// ErrRemote covers structured error envelopes and non-200 statuses
	// returned by the service.
	ErrRemote = errors.New("grading service error")

	// ErrMalformedResponse covers response bodies that do not decode to the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed grading response")
)
