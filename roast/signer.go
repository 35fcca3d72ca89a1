package roast

import (
	"github.com/StackOverflowExcept1on/roast/frost"
)

// Signer represents a single signer participating in the ROAST
// protocol. It wraps a FROST KeyPackage and is responsible for
// maintaining exactly one usable set of signing nonces at a time.
type Signer struct {
	ciphersuite   frost.Ciphersuite
	keyPackage    *frost.KeyPackage
	signingNonces *frost.SigningNonces
	commitments   *frost.SigningCommitments
}

// NewSigner creates a new Signer and generates SigningNonces for the
// first round of FROST.
func NewSigner(ciphersuite frost.Ciphersuite, keyPackage *frost.KeyPackage) (*Signer, error) {
	nonces, commitments, err := frost.Commit(ciphersuite, keyPackage.SigningShare)
	if err != nil {
		return nil, frostError(err)
	}

	return &Signer{
		ciphersuite:   ciphersuite,
		keyPackage:    keyPackage,
		signingNonces: nonces,
		commitments:   commitments,
	}, nil
}

// SigningCommitments returns the public part of the signer's current
// SigningNonces, to be sent to the coordinator for the first round of
// FROST.
func (s *Signer) SigningCommitments() *frost.SigningCommitments {
	return s.commitments
}

// Receive produces a SignatureShare from a SigningPackage sent by the
// coordinator, for use in the second round of FROST.
//
// On success, the signer's SigningNonces are rotated immediately
// afterwards; the caller must send the coordinator the resulting new
// SigningCommitments, since the nonces just consumed cannot be reused.
// On failure the signer's nonces are left untouched, since they have
// not been exposed to the coordinator.
func (s *Signer) Receive(signingPackage *frost.SigningPackage) (*frost.SignatureShare, error) {
	share, err := frost.Sign(s.ciphersuite, s.keyPackage, s.signingNonces, signingPackage)
	if err != nil {
		return nil, frostError(err)
	}

	nonces, commitments, err := frost.Commit(s.ciphersuite, s.keyPackage.SigningShare)
	if err != nil {
		return nil, frostError(err)
	}
	s.signingNonces = nonces
	s.commitments = commitments

	return share, nil
}
