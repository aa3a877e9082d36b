package types

import (
	"errors"
	"fmt"
)

// Kind names one of the error categories in the core's error taxonomy.
// Kinds are not Go error types by themselves; they classify an *Error so
// callers can branch on "what went wrong" without parsing messages.
type Kind string

const (
	// KindConfigError marks a missing or unreadable file, or a malformed
	// token/lexicon/homophones line. Fatal at init.
	KindConfigError Kind = "config_error"

	// KindModelLoadFailed marks an acoustic model that cannot be parsed,
	// has the wrong arity, or does not expose the three-input structure
	// §4.C requires. Fatal at init.
	KindModelLoadFailed Kind = "model_load_failed"

	// KindModelShapeMismatch marks an input or output tensor whose rank
	// or size differs from the contract. Fatal at init or on first infer.
	KindModelShapeMismatch Kind = "model_shape_mismatch"

	// KindInferenceFailed marks a runtime error inside the acoustic
	// model. Per-window: the window is skipped, chunk_idx still
	// advances, no logits are appended.
	KindInferenceFailed Kind = "inference_failed"

	// KindDecoderUninitialized marks a decode call issued before
	// initialize; callers get an empty hypothesis list, never a panic.
	KindDecoderUninitialized Kind = "decoder_uninitialized"

	// KindInvalidArguments marks null pointers or length mismatches
	// across a package boundary — a caller error.
	KindInvalidArguments Kind = "invalid_arguments"
)

// Error wraps an underlying cause with a Kind from the taxonomy above.
// InvalidFrame is deliberately absent here: spec.md §7 says it is
// surfaced only as push_frame returning false, never as an error value.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same Kind, letting
// callers write errors.Is(err, types.KindKey(types.KindConfigError)).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// NewError builds an *Error of the given kind wrapping cause (which may
// be nil).
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, err: cause}
}

// KindKey builds a sentinel *Error carrying only a Kind, suitable for use
// as the target of errors.Is to test "is this a ConfigError", regardless
// of message or cause.
func KindKey(kind Kind) error {
	return &Error{Kind: kind, msg: "kind marker"}
}

// WrapConfigError is a convenience constructor for the common case of
// turning a lower-level error (file I/O, json.Unmarshal, ...) into a
// KindConfigError.
func WrapConfigError(msg string, cause error) error {
	return NewError(KindConfigError, msg, cause)
}
