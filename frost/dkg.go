package frost

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"
)

// Round1SecretPackage is the secret state a participant must retain
// between Part1 and Part2 of Distributed Key Generation: its own
// polynomial coefficients and their Feldman commitment.
type Round1SecretPackage struct {
	Identifier   Identifier
	Coefficients polynomial
	Commitment   []*Point
	MinSigners   uint16
	MaxSigners   uint16
}

// ProofOfKnowledge is a Schnorr proof of knowledge of the constant term
// of a participant's polynomial, preventing rogue-key attacks against
// the DKG.
type ProofOfKnowledge struct {
	R  *Point
	Mu *big.Int
}

// Round1Package is the public output of Part1, broadcast to every
// other participant (in this design, relayed through a
// TrustedThirdParty): the Feldman commitment to the sender's
// polynomial and a proof of knowledge of its constant term.
type Round1Package struct {
	Identifier       Identifier
	Commitment       []*Point
	ProofOfKnowledge *ProofOfKnowledge
}

// Round2SecretPackage is the secret state a participant must retain
// between Part2 and Part3: the same polynomial as Round1SecretPackage,
// carried forward so Part3 can evaluate it at the participant's own
// identifier.
type Round2SecretPackage struct {
	Identifier   Identifier
	Coefficients polynomial
	Commitment   []*Point
	MinSigners   uint16
	MaxSigners   uint16
}

// Round2Package is a participant's private share of its secret
// polynomial, to be delivered to exactly one recipient identifier.
type Round2Package struct {
	SigningShare *big.Int
}

// SecretShare bundles a received Round2Package's signing share
// together with enough context -- the recipient identifier and the
// sender's Feldman commitment -- to verify it via Verify.
type SecretShare struct {
	Identifier Identifier // recipient identifier the share was evaluated for
	Share      *big.Int   // f_sender(Identifier)
	Commitment []*Point   // sender's Feldman commitment
}

// Verify checks the share against the sender's Feldman commitment,
// i.e. confirms Share*G == sum_k Commitment[k] * Identifier^k. A
// participant that distributes a share failing this check is a DKG
// culprit.
func (s *SecretShare) Verify(ciphersuite Ciphersuite) error {
	curve := ciphersuite.Curve()
	lhs := curve.EcBaseMul(s.Share)
	rhs := evaluateCommitment(curve, s.Commitment, s.Identifier)
	if lhs.X.Cmp(rhs.X) != 0 || lhs.Y.Cmp(rhs.Y) != 0 {
		return ErrInvalidSecretShare
	}
	return nil
}

// Part1 implements the first round of Pedersen/Feldman verifiable
// secret sharing DKG (draft-irtf-cfrg-frost, appendix C.1): sample a
// random degree-(minSigners-1) polynomial, commit to it, and prove
// knowledge of its constant term.
func Part1(
	ciphersuite Ciphersuite,
	identifier Identifier,
	maxSigners, minSigners uint16,
) (*Round1SecretPackage, *Round1Package, error) {
	if identifier == 0 {
		return nil, nil, ErrIdentifierIsZero
	}
	if minSigners < 2 || minSigners > maxSigners {
		return nil, nil, ErrInvalidMinSigners
	}
	if maxSigners < 2 {
		return nil, nil, ErrInvalidMaxSigners
	}

	curve := ciphersuite.Curve()
	order := curve.Order()

	secret, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, nil, fmt.Errorf("secret generation failed: %w", err)
	}

	coefficients, err := generatePolynomial(secret, minSigners, order)
	if err != nil {
		return nil, nil, fmt.Errorf("polynomial generation failed: %w", err)
	}

	commitment := commitToPolynomial(curve, coefficients)

	proof, err := proveKnowledge(ciphersuite, identifier, coefficients[0], commitment[0])
	if err != nil {
		return nil, nil, fmt.Errorf("proof of knowledge generation failed: %w", err)
	}

	secretPackage := &Round1SecretPackage{
		Identifier:   identifier,
		Coefficients: coefficients,
		Commitment:   commitment,
		MinSigners:   minSigners,
		MaxSigners:   maxSigners,
	}
	pkg := &Round1Package{
		Identifier:       identifier,
		Commitment:       commitment,
		ProofOfKnowledge: proof,
	}

	return secretPackage, pkg, nil
}

// proveKnowledge produces a Schnorr proof of knowledge of secret, the
// constant term whose commitment is point. The challenge binds the
// prover's identifier so the proof cannot be replayed by another
// participant.
func proveKnowledge(ciphersuite Ciphersuite, identifier Identifier, secret *big.Int, point *Point) (*ProofOfKnowledge, error) {
	curve := ciphersuite.Curve()
	order := curve.Order()

	k, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, err
	}
	R := curve.EcBaseMul(k)

	c := proofChallenge(ciphersuite, identifier, point, R)

	mu := new(big.Int).Mul(secret, c)
	mu.Add(mu, k)
	mu.Mod(mu, order)

	return &ProofOfKnowledge{R: R, Mu: mu}, nil
}

// VerifyProofOfKnowledge verifies a Schnorr proof of knowledge produced
// by proveKnowledge, confirming the sender knows the discrete log of
// the constant term of its committed polynomial.
func VerifyProofOfKnowledge(ciphersuite Ciphersuite, identifier Identifier, commitment []*Point, proof *ProofOfKnowledge) error {
	curve := ciphersuite.Curve()

	c := proofChallenge(ciphersuite, identifier, commitment[0], proof.R)

	lhs := curve.EcBaseMul(proof.Mu)
	rhs := curve.EcAdd(proof.R, curve.EcMul(commitment[0], c))

	if lhs.X.Cmp(rhs.X) != 0 || lhs.Y.Cmp(rhs.Y) != 0 {
		return ErrInvalidProofOfKnowledge
	}

	return nil
}

// proofChallenge computes the Fiat-Shamir challenge for the round1
// proof of knowledge, domain-separated via H3.
func proofChallenge(ciphersuite Ciphersuite, identifier Identifier, commitment0 *Point, R *Point) *big.Int {
	curve := ciphersuite.Curve()
	idBytes := big.NewInt(int64(identifier)).Bytes()
	return ciphersuite.H3(idBytes, curve.SerializePoint(commitment0), curve.SerializePoint(R))
}

// Part2 implements the second round of Distributed Key Generation:
// evaluate the participant's polynomial at every other participant's
// identifier, verifying each received Round1Package's proof of
// knowledge first. round1Packages must contain exactly one entry per
// other participant (maxSigners-1 total), keyed by sender identifier,
// and must not contain secretPackage's own identifier.
func Part2(
	ciphersuite Ciphersuite,
	secretPackage *Round1SecretPackage,
	round1Packages map[Identifier]*Round1Package,
) (*Round2SecretPackage, map[Identifier]*Round2Package, error) {
	if len(round1Packages) != int(secretPackage.MaxSigners)-1 {
		return nil, nil, ErrIncorrectNumberOfPackages
	}
	if _, ok := round1Packages[secretPackage.Identifier]; ok {
		return nil, nil, fmt.Errorf("%w: own round1 package must not be included", ErrIncorrectPackage)
	}

	order := ciphersuite.Curve().Order()

	for id, pkg := range round1Packages {
		if len(pkg.Commitment) != int(secretPackage.MinSigners) {
			return nil, nil, fmt.Errorf("%w: from identifier [%d]", ErrIncorrectNumberOfCommitments, id)
		}
		if err := VerifyProofOfKnowledge(ciphersuite, id, pkg.Commitment, pkg.ProofOfKnowledge); err != nil {
			return nil, nil, fmt.Errorf("%w: from identifier [%d]", err, id)
		}
	}

	round2Packages := make(map[Identifier]*Round2Package, len(round1Packages))
	for id := range round1Packages {
		share := evaluatePolynomial(secretPackage.Coefficients, id, order)
		round2Packages[id] = &Round2Package{SigningShare: share}
	}

	secretPackage2 := &Round2SecretPackage{
		Identifier:   secretPackage.Identifier,
		Coefficients: secretPackage.Coefficients,
		Commitment:   secretPackage.Commitment,
		MinSigners:   secretPackage.MinSigners,
		MaxSigners:   secretPackage.MaxSigners,
	}

	return secretPackage2, round2Packages, nil
}

// Part3 implements the third and final round of Distributed Key
// Generation: combine the shares received from every other
// participant with the participant's own self-evaluated share to
// produce its KeyPackage, and derive the group's PublicKeyPackage from
// every participant's Feldman commitment. round1Packages and
// round2Packages must both be keyed by sender identifier and must not
// include secretPackage's own identifier.
func Part3(
	ciphersuite Ciphersuite,
	secretPackage *Round2SecretPackage,
	round1Packages map[Identifier]*Round1Package,
	round2Packages map[Identifier]*Round2Package,
) (*KeyPackage, *PublicKeyPackage, error) {
	if len(round1Packages) != len(round2Packages) {
		return nil, nil, ErrIncorrectNumberOfPackages
	}

	curve := ciphersuite.Curve()
	order := curve.Order()

	allCommitments := map[Identifier][]*Point{secretPackage.Identifier: secretPackage.Commitment}

	signingShare := evaluatePolynomial(secretPackage.Coefficients, secretPackage.Identifier, order)

	for id, round2Package := range round2Packages {
		round1Package, ok := round1Packages[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no round1 package for identifier [%d]", ErrIncorrectPackage, id)
		}

		share := &SecretShare{
			Identifier: secretPackage.Identifier,
			Share:      round2Package.SigningShare,
			Commitment: round1Package.Commitment,
		}
		if err := share.Verify(ciphersuite); err != nil {
			return nil, nil, fmt.Errorf("%w: from identifier [%d]", err, id)
		}

		signingShare.Add(signingShare, round2Package.SigningShare)
		signingShare.Mod(signingShare, order)

		allCommitments[id] = round1Package.Commitment
	}

	publicKeyPackage := publicKeyPackageFromCommitments(curve, allCommitments)

	keyPackage := &KeyPackage{
		Identifier:     secretPackage.Identifier,
		SigningShare:   signingShare,
		VerifyingShare: publicKeyPackage.VerifyingShares[secretPackage.Identifier],
		VerifyingKey:   publicKeyPackage.VerifyingKey,
		Threshold:      secretPackage.MinSigners,
	}

	return keyPackage, publicKeyPackage, nil
}

// PublicKeyPackageFromCommitments derives a group's PublicKeyPackage
// directly from every participant's round1 Feldman commitment, without
// any round2 secret material. A TrustedThirdParty can therefore
// compute it as soon as round1 completes.
func PublicKeyPackageFromCommitments(curve Curve, commitments map[Identifier][]*Point) *PublicKeyPackage {
	return publicKeyPackageFromCommitments(curve, commitments)
}

func publicKeyPackageFromCommitments(curve Curve, commitments map[Identifier][]*Point) *PublicKeyPackage {
	receivers := make([]Identifier, 0, len(commitments))
	for id := range commitments {
		receivers = append(receivers, id)
	}
	slices.Sort(receivers)

	verifyingShares := make(map[Identifier]*Point, len(receivers))
	verifyingKey := curve.Identity()

	for _, receiver := range receivers {
		share := curve.Identity()
		for _, commitment := range commitments {
			share = curve.EcAdd(share, evaluateCommitment(curve, commitment, receiver))
		}
		verifyingShares[receiver] = share
	}

	for _, commitment := range commitments {
		verifyingKey = curve.EcAdd(verifyingKey, commitment[0])
	}

	return &PublicKeyPackage{VerifyingShares: verifyingShares, VerifyingKey: verifyingKey}
}
