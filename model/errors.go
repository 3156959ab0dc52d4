package model

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions. Callers
// should branch on Kind rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindMalformedEntity marks input that cannot be parsed or canonicalized.
	// Per-entity, non-retryable.
	KindMalformedEntity Kind = "MalformedEntity"

	// KindUnsupportedHashFunction marks a configuration naming a hash
	// function outside the closed set. Per-entity, non-retryable.
	KindUnsupportedHashFunction Kind = "UnsupportedHashFunction"

	// KindUnsupportedOutputFormat marks an unknown output format name.
	// Per-entity, non-retryable.
	KindUnsupportedOutputFormat Kind = "UnsupportedOutputFormat"

	// KindInvalidSeed marks a root secret that cannot seed a master key.
	// Session-level: it aborts a batch before any entity is processed.
	KindInvalidSeed Kind = "InvalidSeed"

	// KindDerivationDepthExceeded marks a tree walk past the defensive
	// depth bound. Not expected in normal use.
	KindDerivationDepthExceeded Kind = "DerivationDepthExceeded"

	// KindKeyExpansion marks malformed key material reaching the keypair
	// generator. Defensive; unreachable given upstream invariants.
	KindKeyExpansion Kind = "KeyExpansionError"
)

// Stage names the pipeline step a failure came from, so an error is
// actionable without re-running with added instrumentation.
type Stage string

const (
	StageParse        Stage = "parse"
	StageCanonicalize Stage = "canonicalize"
	StageHash         Stage = "hash"
	StageTreeDerive   Stage = "tree-derive"
	StageKeyExpand    Stage = "key-expand"
	StageEncode       Stage = "encode"
	StageSession      Stage = "session"
)

// Error is the engine's structured error type.
//
// EntityID is the canonical entity identifier (a CID) when it is known at
// the point of failure; it is empty when the entity could not be
// canonicalized in the first place.
type Error struct {
	Kind     Kind
	Stage    Stage
	EntityID string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Stage) + ": " + e.Message
	if e.EntityID != "" {
		msg += " (entity " + e.EntityID + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error with no underlying cause.
func NewError(kind Kind, stage Stage, msg string) error {
	return &Error{Kind: kind, Stage: stage, Message: msg}
}

// WrapError returns a structured error wrapping cause.
func WrapError(kind Kind, stage Stage, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, stage, msg)
	}
	return &Error{Kind: kind, Stage: stage, Message: msg, Cause: cause}
}

// WithEntity attaches an entity identifier to err if it is (or wraps) an
// *Error and has no identifier yet. It returns err unchanged otherwise.
func WithEntity(err error, entityID string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.EntityID == "" {
		e.EntityID = entityID
	}
	return err
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind for a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
