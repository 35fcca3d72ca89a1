package frost

import "errors"

// Sentinel errors returned by the primitives in this package. Callers
// identify a specific failure with errors.Is; the higher-level roast
// and dkg packages wrap these to build their own error taxonomies.
var (
	// ErrInvalidMinSigners is returned when the threshold is below 2 or
	// above the group size.
	ErrInvalidMinSigners = errors.New("frost: invalid min signers")
	// ErrInvalidMaxSigners is returned when the group size is below 2.
	ErrInvalidMaxSigners = errors.New("frost: invalid max signers")
	// ErrIncorrectNumberOfCommitments is returned when a Feldman
	// commitment does not have the expected number of entries.
	ErrIncorrectNumberOfCommitments = errors.New("frost: incorrect number of commitments")
	// ErrIncorrectNumberOfPackages is returned when a DKG round package
	// map does not have the expected number of entries.
	ErrIncorrectNumberOfPackages = errors.New("frost: incorrect number of packages")
	// ErrIncorrectPackage is returned when a DKG round package map is
	// missing an entry for one of the expected participants.
	ErrIncorrectPackage = errors.New("frost: incorrect package")
	// ErrPackageNotFound is returned when a referenced round1 package
	// cannot be located.
	ErrPackageNotFound = errors.New("frost: package not found")
	// ErrInvalidSecretShare is returned by SecretShare.Verify when a
	// share does not match its sender's Feldman commitment.
	ErrInvalidSecretShare = errors.New("frost: invalid secret share")
	// ErrInvalidProofOfKnowledge is returned when a round1 Schnorr proof
	// of knowledge of the constant term fails to verify.
	ErrInvalidProofOfKnowledge = errors.New("frost: invalid proof of knowledge")
	// ErrUnknownIdentifier is returned when an Identifier is not present
	// in a map where it is expected.
	ErrUnknownIdentifier = errors.New("frost: unknown identifier")
	// ErrIdentifierIsZero is returned when the reserved zero Identifier
	// is used to identify a participant.
	ErrIdentifierIsZero = errors.New("frost: identifier must not be zero")
	// ErrInvalidSignatureShare is returned by VerifySignatureShare when
	// a signature share does not satisfy the FROST verification
	// equation.
	ErrInvalidSignatureShare = errors.New("frost: invalid signature share")
)
