package roast

import (
	"errors"
	"fmt"
)

// MaliciousKind enumerates the reasons a signer can be marked
// malicious and banished from future sessions.
type MaliciousKind int

const (
	// UnsolicitedReply is reported when a signer that has already
	// submitted its next commitment, and is not awaiting a
	// SigningPackage, replies again before being placed in a session.
	UnsolicitedReply MaliciousKind = iota + 1
	// InvalidSignatureShare is reported when a signer's signature
	// share is missing, or present but fails FROST verification.
	InvalidSignatureShare
)

// String renders the malicious behavior kind for error messages.
func (k MaliciousKind) String() string {
	switch k {
	case UnsolicitedReply:
		return "unsolicited reply"
	case InvalidSignatureShare:
		return "invalid signature share"
	default:
		return "unknown malicious behavior"
	}
}

// Error is the error type returned by Coordinator.Receive and
// Signer.Receive. It wraps exactly one of: an underlying FROST
// primitive failure, a MaliciousKind describing why a signer was
// banished, or the coordinator giving up because too many signers
// have been banished to ever reach threshold again.
type Error struct {
	frostErr error
	kind     MaliciousKind
	tooMany  bool
}

func (e *Error) Error() string {
	switch {
	case e.tooMany:
		return "too many malicious signers"
	case e.kind != 0:
		return fmt.Sprintf("malicious signer: %s", e.kind)
	default:
		return fmt.Sprintf("frost error: %v", e.frostErr)
	}
}

// Unwrap exposes the underlying FROST error, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.frostErr
}

func frostError(err error) error {
	return &Error{frostErr: err}
}

func maliciousSignerError(kind MaliciousKind) error {
	return &Error{kind: kind}
}

// ErrTooManyMaliciousSigners is returned once the number of signers
// marked malicious exceeds the coordinator's slack, i.e.
// max_signers - min_signers. At that point no honest quorum can still
// be assembled and the coordinator can make no further progress.
var ErrTooManyMaliciousSigners error = &Error{tooMany: true}

// MaliciousKindOf extracts the MaliciousKind carried by err, if any.
func MaliciousKindOf(err error) (MaliciousKind, bool) {
	var e *Error
	if errors.As(err, &e) && e.kind != 0 {
		return e.kind, true
	}
	return 0, false
}
