package dkg

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/StackOverflowExcept1on/roast/frost"
)

// Participant drives one party's side of Distributed Key Generation.
// Round1Package, the round2 package batch produced by
// ReceiveRound1Packages, and Round2Culprits are each take-once: every
// one of them is consumed exactly once by the surrounding protocol and
// errors on a second take, since by then the underlying secret
// material has already been folded into the next round's state.
type Participant struct {
	ciphersuite frost.Ciphersuite
	identifier  frost.Identifier
	maxSigners  uint16
	minSigners  uint16

	round1SecretPackage *frost.Round1SecretPackage
	round1Package       *frost.Round1Package

	round2SecretPackage *frost.Round2SecretPackage
	round1PackagesIn    map[frost.Identifier]*frost.Round1Package

	round2CulpritsSet    []frost.Identifier
	haveRound2CulpritsSet bool
}

// NewParticipant creates a Participant and immediately runs round1 of
// Distributed Key Generation for it.
func NewParticipant(ciphersuite frost.Ciphersuite, identifier frost.Identifier, maxSigners, minSigners uint16) (*Participant, error) {
	secretPackage, pkg, err := frost.Part1(ciphersuite, identifier, maxSigners, minSigners)
	if err != nil {
		return nil, err
	}

	return &Participant{
		ciphersuite:         ciphersuite,
		identifier:          identifier,
		maxSigners:          maxSigners,
		minSigners:          minSigners,
		round1SecretPackage: secretPackage,
		round1Package:       pkg,
	}, nil
}

// Round1Package returns the participant's round1 package, to be sent
// to the TrustedThirdParty. It may be taken exactly once.
func (p *Participant) Round1Package() (*frost.Round1Package, error) {
	if p.round1Package == nil {
		return nil, ErrInvalidStateTransition
	}
	pkg := p.round1Package
	p.round1Package = nil
	return pkg, nil
}

// ReceiveRound1Packages consumes the round1 packages relayed back by
// the TrustedThirdParty (one per other participant; the participant's
// own identifier, if present, is ignored) and runs round2, returning
// the batch of round2 packages to be relayed onward, one per
// recipient identifier.
func (p *Participant) ReceiveRound1Packages(round1Packages map[frost.Identifier]*frost.Round1Package) (map[frost.Identifier]*frost.Round2Package, error) {
	if p.round1SecretPackage == nil {
		return nil, ErrInvalidStateTransition
	}

	received := make(map[frost.Identifier]*frost.Round1Package, len(round1Packages))
	for id, pkg := range round1Packages {
		if id == p.identifier {
			continue
		}
		received[id] = pkg
	}

	secretPackage := p.round1SecretPackage
	p.round1SecretPackage = nil

	round2SecretPackage, round2Packages, err := frost.Part2(p.ciphersuite, secretPackage, received)
	if err != nil {
		return nil, err
	}

	p.round2SecretPackage = round2SecretPackage
	p.round1PackagesIn = received

	return round2Packages, nil
}

// ReceiveRound2Packages consumes the round2 packages addressed to the
// participant (one per other participant, keyed by sender
// identifier), verifying each against its sender's round1 Feldman
// commitment before combining them into a KeyPackage and the group's
// PublicKeyPackage. If any share fails verification, none are
// combined: ErrInvalidSecretShares is returned and the offending
// senders are recorded for Round2Culprits to report.
func (p *Participant) ReceiveRound2Packages(round2Packages map[frost.Identifier]*frost.Round2Package) (*frost.KeyPackage, *frost.PublicKeyPackage, error) {
	if p.round2SecretPackage == nil || p.round1PackagesIn == nil {
		return nil, nil, ErrInvalidStateTransition
	}

	secretPackage := p.round2SecretPackage
	round1Packages := p.round1PackagesIn
	p.round2SecretPackage = nil
	p.round1PackagesIn = nil

	if len(round2Packages) != len(round1Packages) {
		return nil, nil, fmt.Errorf("%w: expected [%d] round2 packages, got [%d]", ErrIncorrectPackage, len(round1Packages), len(round2Packages))
	}

	var culprits []frost.Identifier
	for id, pkg := range round2Packages {
		round1Package, ok := round1Packages[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no round1 package for sender [%d]", ErrIncorrectPackage, id)
		}

		share := &frost.SecretShare{
			Identifier: p.identifier,
			Share:      pkg.SigningShare,
			Commitment: round1Package.Commitment,
		}
		if err := share.Verify(p.ciphersuite); err != nil {
			culprits = append(culprits, id)
		}
	}

	if len(culprits) > 0 {
		slices.Sort(culprits)
		p.round2CulpritsSet = culprits
		p.haveRound2CulpritsSet = true
		return nil, nil, ErrInvalidSecretShares
	}

	return frost.Part3(p.ciphersuite, secretPackage, round1Packages, round2Packages)
}

// Round2Culprits returns the identifiers whose round2 shares failed
// verification in the last call to ReceiveRound2Packages. It may be
// taken exactly once, and only after ReceiveRound2Packages has
// reported ErrInvalidSecretShares.
func (p *Participant) Round2Culprits() ([]frost.Identifier, error) {
	if !p.haveRound2CulpritsSet {
		return nil, ErrInvalidStateTransition
	}
	culprits := p.round2CulpritsSet
	p.round2CulpritsSet = nil
	p.haveRound2CulpritsSet = false
	return culprits, nil
}
