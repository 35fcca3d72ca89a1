package dkg

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/StackOverflowExcept1on/roast/frost"
)

// DkgStatusKind enumerates the phases a TrustedThirdParty relay moves
// through as round1 and round2 packages arrive.
type DkgStatusKind int

const (
	// InProgress means the current round has not yet collected a
	// package from every participant.
	InProgress DkgStatusKind = iota
	// FinishedRound1 means every participant's Round1Package has been
	// received and verified; the group's PublicKeyPackage can now be
	// derived and round1 packages relayed out for round2.
	FinishedRound1
	// FinishedRound2 means every participant's round2 package batch
	// has been received; they can now be fanned out per recipient.
	FinishedRound2
	// FinishedRound3 means no round2 culprits remain outstanding and
	// the key generation is complete.
	FinishedRound3
)

// TrustedThirdParty relays round1 and round2 Distributed Key
// Generation packages between a fixed set of participants and
// resolves accusations of a misbehaving sender into a culprit set.
// It never sees any participant's secret polynomial.
type TrustedThirdParty struct {
	ciphersuite     frost.Ciphersuite
	maxSigners      uint16
	minSigners      uint16
	participants    []frost.Identifier
	participantsSet map[frost.Identifier]struct{}

	round1Packages map[frost.Identifier]*frost.Round1Package

	round2PackagesBySender map[frost.Identifier]map[frost.Identifier]*frost.Round2Package
	round2ParticipantsSet  map[frost.Identifier]struct{}

	round2CulpritsSet map[frost.Identifier]struct{}
}

// NewTrustedThirdParty creates a relay for exactly maxSigners
// participants with a signing threshold of minSigners.
func NewTrustedThirdParty(
	ciphersuite frost.Ciphersuite,
	maxSigners, minSigners uint16,
	participants []frost.Identifier,
) (*TrustedThirdParty, error) {
	if minSigners < 2 {
		return nil, frost.ErrInvalidMinSigners
	}
	if maxSigners < 2 {
		return nil, frost.ErrInvalidMaxSigners
	}
	if minSigners > maxSigners {
		return nil, frost.ErrInvalidMinSigners
	}

	participantsSet := make(map[frost.Identifier]struct{}, len(participants))
	for _, id := range participants {
		participantsSet[id] = struct{}{}
	}
	if len(participantsSet) != len(participants) {
		return nil, ErrDuplicateParticipants
	}
	if len(participants) != int(maxSigners) {
		return nil, fmt.Errorf("%w: expected [%d] participants, got [%d]", ErrIncorrectPackage, maxSigners, len(participants))
	}

	return &TrustedThirdParty{
		ciphersuite:            ciphersuite,
		maxSigners:             maxSigners,
		minSigners:             minSigners,
		participants:           append([]frost.Identifier(nil), participants...),
		participantsSet:        participantsSet,
		round1Packages:         make(map[frost.Identifier]*frost.Round1Package),
		round2PackagesBySender: make(map[frost.Identifier]map[frost.Identifier]*frost.Round2Package),
		round2ParticipantsSet:  make(map[frost.Identifier]struct{}),
		round2CulpritsSet:      make(map[frost.Identifier]struct{}),
	}, nil
}

// ReceiveRound1Package registers a participant's round1 package after
// verifying its proof of knowledge.
func (t *TrustedThirdParty) ReceiveRound1Package(identifier frost.Identifier, pkg *frost.Round1Package) (DkgStatusKind, error) {
	if _, ok := t.participantsSet[identifier]; !ok {
		return InProgress, ErrUnknownParticipant
	}
	if len(pkg.Commitment) != int(t.minSigners) {
		return InProgress, fmt.Errorf("%w: from identifier [%d]", ErrIncorrectNumberOfCommitments, identifier)
	}
	if err := frost.VerifyProofOfKnowledge(t.ciphersuite, identifier, pkg.Commitment, pkg.ProofOfKnowledge); err != nil {
		return InProgress, fmt.Errorf("%w: from identifier [%d]", err, identifier)
	}

	t.round1Packages[identifier] = pkg

	if len(t.round1Packages) == int(t.maxSigners) {
		return FinishedRound1, nil
	}
	return InProgress, nil
}

// BlameRound1Participants returns the participants that have not yet
// submitted a round1 package, in the order of the participant list
// given to NewTrustedThirdParty.
func (t *TrustedThirdParty) BlameRound1Participants() []frost.Identifier {
	var missing []frost.Identifier
	for _, id := range t.participants {
		if _, ok := t.round1Packages[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Round1Packages returns every received round1 package, keyed by
// sender identifier, for relaying to the other participants once
// round1 has finished.
func (t *TrustedThirdParty) Round1Packages() map[frost.Identifier]*frost.Round1Package {
	packages := make(map[frost.Identifier]*frost.Round1Package, len(t.round1Packages))
	for id, pkg := range t.round1Packages {
		packages[id] = pkg
	}
	return packages
}

// PublicKeyPackage derives the group's PublicKeyPackage directly from
// the round1 Feldman commitments. It can be called as soon as round1
// has finished, without waiting for round2.
func (t *TrustedThirdParty) PublicKeyPackage() (*frost.PublicKeyPackage, error) {
	if len(t.round1Packages) != int(t.maxSigners) {
		return nil, fmt.Errorf("%w: round1 has not finished", ErrIncorrectPackage)
	}

	commitments := make(map[frost.Identifier][]*frost.Point, len(t.round1Packages))
	for id, pkg := range t.round1Packages {
		commitments[id] = pkg.Commitment
	}

	return frost.PublicKeyPackageFromCommitments(t.ciphersuite.Curve(), commitments), nil
}

// ReceiveRound2Packages registers a participant's batch of round2
// packages, one per other participant, keyed by recipient identifier.
func (t *TrustedThirdParty) ReceiveRound2Packages(
	identifier frost.Identifier,
	packages map[frost.Identifier]*frost.Round2Package,
) (DkgStatusKind, error) {
	if _, ok := t.participantsSet[identifier]; !ok {
		return InProgress, ErrUnknownParticipant
	}
	if len(packages) != int(t.maxSigners)-1 {
		return InProgress, fmt.Errorf("%w: from identifier [%d]", ErrIncorrectPackage, identifier)
	}
	for _, id := range t.participants {
		if id == identifier {
			continue
		}
		if _, ok := packages[id]; !ok {
			return InProgress, fmt.Errorf("%w: identifier [%d] missing package for [%d]", ErrIncorrectPackage, identifier, id)
		}
	}

	stored := make(map[frost.Identifier]*frost.Round2Package, len(packages))
	for id, pkg := range packages {
		stored[id] = pkg
	}
	t.round2PackagesBySender[identifier] = stored
	t.round2ParticipantsSet[identifier] = struct{}{}

	if len(t.round2ParticipantsSet) == int(t.maxSigners) {
		return FinishedRound2, nil
	}
	return InProgress, nil
}

// BlameRound2Participants returns the participants that have not yet
// submitted their round2 package batch, in the order of the
// participant list given to NewTrustedThirdParty.
func (t *TrustedThirdParty) BlameRound2Participants() []frost.Identifier {
	var missing []frost.Identifier
	for _, id := range t.participants {
		if _, ok := t.round2ParticipantsSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Round2Packages fans out every other participant's round2 package
// addressed to receiver, keyed by sender identifier.
func (t *TrustedThirdParty) Round2Packages(receiver frost.Identifier) map[frost.Identifier]*frost.Round2Package {
	packages := make(map[frost.Identifier]*frost.Round2Package, t.maxSigners-1)
	for sender, byReceiver := range t.round2PackagesBySender {
		if sender == receiver {
			continue
		}
		if pkg, ok := byReceiver[receiver]; ok {
			packages[sender] = pkg
		}
	}
	return packages
}

// ReceiveRound2Culprits re-verifies, on the accuser's behalf, every
// accused sender's round2 share against that sender's round1 Feldman
// commitment, recording the accusation in the relay's culprit set
// whenever verification fails.
func (t *TrustedThirdParty) ReceiveRound2Culprits(accuser frost.Identifier, culprits []frost.Identifier) (DkgStatusKind, error) {
	if _, ok := t.participantsSet[accuser]; !ok {
		return InProgress, ErrUnknownParticipant
	}

	for _, accused := range culprits {
		if _, ok := t.participantsSet[accused]; !ok {
			return InProgress, fmt.Errorf("%w: accused identifier [%d]", ErrUnknownParticipant, accused)
		}

		sentByAccused, ok := t.round2PackagesBySender[accused]
		if !ok {
			continue
		}
		pkg, ok := sentByAccused[accuser]
		if !ok {
			continue
		}
		round1Package, ok := t.round1Packages[accused]
		if !ok {
			continue
		}

		share := &frost.SecretShare{
			Identifier: accuser,
			Share:      pkg.SigningShare,
			Commitment: round1Package.Commitment,
		}
		if err := share.Verify(t.ciphersuite); err != nil {
			t.round2CulpritsSet[accused] = struct{}{}
		}
	}

	return FinishedRound2, nil
}

// Round2Culprits returns every identifier accused of, and confirmed
// to have sent, an invalid round2 share, in identifier order.
func (t *TrustedThirdParty) Round2Culprits() []frost.Identifier {
	culprits := make([]frost.Identifier, 0, len(t.round2CulpritsSet))
	for id := range t.round2CulpritsSet {
		culprits = append(culprits, id)
	}
	slices.Sort(culprits)
	return culprits
}

// TryFinish completes Distributed Key Generation if no round2
// culprits have been confirmed; otherwise it reports ErrInvalidSecretShares.
func (t *TrustedThirdParty) TryFinish() (DkgStatusKind, error) {
	if len(t.round2CulpritsSet) > 0 {
		return InProgress, ErrInvalidSecretShares
	}
	return FinishedRound3, nil
}
