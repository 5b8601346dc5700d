// Package tacticserr defines the closed error taxonomy shared by every
// pipeline stage and the job fabric, per spec §7.
package tacticserr

import "fmt"

// Kind is a closed set of error categories. Every error the engine returns
// to a caller or records on a job is tagged with exactly one Kind.
type Kind string

const (
	// BadInput marks schema-invalid payloads, insufficient keypoints,
	// duplicate (track_id, frame_id) pairs. Non-retryable.
	BadInput Kind = "BadInput"
	// NotFound marks a missing artifact or job. Non-retryable for GET;
	// recoverable for stage inputs by recomputing upstream.
	NotFound Kind = "NotFound"
	// UpstreamUnavailable marks artifact-store, broker, or DB I/O failures.
	// Retried with exponential backoff up to the job's max retries.
	UpstreamUnavailable Kind = "UpstreamUnavailable"
	// ModelNotTrained marks classifier inference attempted before training.
	ModelNotTrained Kind = "ModelNotTrained"
	// Timeout marks a job whose deadline was exceeded. Terminal.
	Timeout Kind = "Timeout"
	// Cancelled marks an explicit cancellation. Terminal.
	Cancelled Kind = "Cancelled"
	// Internal marks a broken invariant (negative duration, non-monotonic
	// frames post-sort). Terminal; must be logged with a correlation id.
	Internal Kind = "Internal"
)

// Retryable reports whether errors of this kind may be retried by a worker.
func (k Kind) Retryable() bool {
	return k == UpstreamUnavailable
}

// Terminal reports whether errors of this kind end a job permanently once
// surfaced (as opposed to being recoverable by recomputing an upstream
// dependency, which is true only for some NotFound cases).
func (k Kind) Terminal() bool {
	switch k {
	case Timeout, Cancelled, Internal, BadInput, ModelNotTrained:
		return true
	default:
		return false
	}
}

// Error is a tagged error value carrying a Kind, a message, and an optional
// correlation id for cross-system tracing. Stack traces are never attached;
// those stay server-side in logs keyed by CorrelationID.
type Error struct {
	Kind          Kind
	Message       string
	CorrelationID string
	Cause         error
}

func (e *Error) Error() string {
	if e.CorrelationID != "" {
		return fmt.Sprintf("%s: %s [cid=%s]", e.Kind, e.Message, e.CorrelationID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error of the given kind with no correlation id or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a Kind, preserving it as Cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithCorrelation returns a copy of e carrying the given correlation id.
func (e *Error) WithCorrelation(cid string) *Error {
	cp := *e
	cp.CorrelationID = cid
	return &cp
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, otherwise
// returns Internal — any error escaping this taxonomy is itself a bug.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var te *Error
	if ok := asError(err, &te); ok {
		return te.Kind
	}
	return Internal
}

func asError(err error, target **Error) bool {
	for err != nil {
		if te, ok := err.(*Error); ok {
			*target = te
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
