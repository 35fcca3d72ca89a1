// Package dkg implements the Trusted Third Party relay and per-participant
// state machine for Pedersen/Feldman verifiable secret sharing Distributed
// Key Generation (draft-irtf-cfrg-frost, appendix C), built on top of the
// primitives in the frost package.
package dkg

import "errors"

var (
	// ErrDuplicateParticipants is returned by NewTrustedThirdParty when
	// the given participant list contains the same identifier twice.
	ErrDuplicateParticipants = errors.New("dkg: duplicate participants")
	// ErrUnknownParticipant is returned when a package or blame is
	// received from, or accuses, an identifier outside the configured
	// participant set.
	ErrUnknownParticipant = errors.New("dkg: unknown participant")
	// ErrIncorrectNumberOfCommitments is returned when a round1 package
	// carries a Feldman commitment of the wrong length.
	ErrIncorrectNumberOfCommitments = errors.New("dkg: incorrect number of commitments")
	// ErrIncorrectPackage is returned when a round2 package batch is
	// missing an entry for one of the other participants.
	ErrIncorrectPackage = errors.New("dkg: incorrect package")
	// ErrInvalidSecretShares is returned by TryFinish when one or more
	// round2 culprits have been recorded, and by
	// Participant.ReceiveRound2Packages when the participant itself
	// detected a bad share.
	ErrInvalidSecretShares = errors.New("dkg: invalid secret shares")
	// ErrInvalidStateTransition is returned when a take-once value (a
	// round1 package, a culprit set) is requested a second time, or
	// before it is available.
	ErrInvalidStateTransition = errors.New("dkg: invalid state transition")
)
