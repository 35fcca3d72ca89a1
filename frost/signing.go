package frost

import (
	"errors"
	"fmt"
	"math/big"
)

// SigningPackage is assembled by the coordinator from the signing
// commitments of the participants selected for a session, together
// with the message to be signed. It is broadcast to those
// participants so each can produce a SignatureShare.
type SigningPackage struct {
	SigningCommitments map[Identifier]*SigningCommitments
	Message            []byte
}

// SignatureShare is a participant's contribution to the final
// signature, produced in Round Two - Signature Share Generation.
type SignatureShare struct {
	Share *big.Int
}

// Signature is a complete, aggregated Schnorr signature: a group
// commitment R and an aggregated scalar z.
type Signature struct {
	R *Point
	Z *big.Int
}

// Sign implements Round Two - Signature Share Generation from [FROST],
// section 5.2.
func Sign(
	ciphersuite Ciphersuite,
	keyPackage *KeyPackage,
	nonces *SigningNonces,
	signingPackage *SigningPackage,
) (*SignatureShare, error) {
	participants, err := validateSigningPackage(ciphersuite, signingPackage, keyPackage.Identifier)
	if err != nil {
		return nil, err
	}

	factors := computeBindingFactors(
		ciphersuite,
		keyPackage.VerifyingKey,
		signingPackage.Message,
		signingPackage.SigningCommitments,
	)
	bindingFactor := factors[keyPackage.Identifier]

	groupCommitment := computeGroupCommitment(
		ciphersuite,
		signingPackage.SigningCommitments,
		factors,
	)

	order := ciphersuite.Curve().Order()
	lambda := deriveInterpolatingValue(order, keyPackage.Identifier, participants)

	challenge := computeChallenge(ciphersuite, keyPackage.VerifyingKey, signingPackage.Message, groupCommitment)

	bnbf := new(big.Int).Mul(nonces.Binding, bindingFactor)
	lski := new(big.Int).Mul(lambda, keyPackage.SigningShare)
	lskic := new(big.Int).Mul(lski, challenge)

	share := new(big.Int).Add(nonces.Hiding, new(big.Int).Add(bnbf, lskic))
	share.Mod(share, order)

	return &SignatureShare{Share: share}, nil
}

// VerifySignatureShare checks a single signature share against the
// sender's verifying share, as required before aggregation so that a
// malicious signer can be identified and excluded rather than silently
// corrupting the final signature.
func VerifySignatureShare(
	ciphersuite Ciphersuite,
	identifier Identifier,
	verifyingShare *Point,
	verifyingKey *Point,
	share *SignatureShare,
	signingPackage *SigningPackage,
) error {
	participants, err := validateSigningPackage(ciphersuite, signingPackage, identifier)
	if err != nil {
		return err
	}

	curve := ciphersuite.Curve()

	factors := computeBindingFactors(
		ciphersuite,
		verifyingKey,
		signingPackage.Message,
		signingPackage.SigningCommitments,
	)
	commitment := signingPackage.SigningCommitments[identifier]
	bindingNonce := curve.EcMul(commitment.Binding, factors[identifier])
	commitmentShare := curve.EcAdd(commitment.Hiding, bindingNonce)

	groupCommitment := computeGroupCommitment(ciphersuite, signingPackage.SigningCommitments, factors)
	challenge := computeChallenge(ciphersuite, verifyingKey, signingPackage.Message, groupCommitment)

	order := curve.Order()
	lambda := deriveInterpolatingValue(order, identifier, participants)

	// l.h.s. = share_i * G
	lhs := curve.EcBaseMul(share.Share)

	// r.h.s. = commitment_share + (lambda_i * challenge) * verifying_share_i
	lc := new(big.Int).Mod(new(big.Int).Mul(lambda, challenge), order)
	rhs := curve.EcAdd(commitmentShare, curve.EcMul(verifyingShare, lc))

	if lhs.X.Cmp(rhs.X) != 0 || lhs.Y.Cmp(rhs.Y) != 0 {
		return ErrInvalidSignatureShare
	}

	return nil
}

// Aggregate implements Signature Share Aggregation from [FROST],
// section 5.3.
//
// The signature produced by aggregation may not be valid if a
// malicious signature share slipped through; callers that cannot
// verify every share beforehand with VerifySignatureShare must verify
// the aggregated signature itself.
func Aggregate(
	ciphersuite Ciphersuite,
	keyPackage *PublicKeyPackage,
	signingPackage *SigningPackage,
	shares map[Identifier]*SignatureShare,
) (*Signature, error) {
	if len(shares) != len(signingPackage.SigningCommitments) {
		return nil, fmt.Errorf(
			"the number of commitments and signature shares do not match; "+
				"has [%d] commitments and [%d] signature shares",
			len(signingPackage.SigningCommitments),
			len(shares),
		)
	}

	participants, err := validateSigningPackageShape(signingPackage)
	if err != nil {
		return nil, err
	}

	factors := computeBindingFactors(
		ciphersuite,
		keyPackage.VerifyingKey,
		signingPackage.Message,
		signingPackage.SigningCommitments,
	)
	groupCommitment := computeGroupCommitment(ciphersuite, signingPackage.SigningCommitments, factors)

	order := ciphersuite.Curve().Order()

	z := big.NewInt(0)
	for _, id := range participants {
		share, ok := shares[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing signature share for identifier [%d]", ErrUnknownIdentifier, id)
		}
		z.Add(z, share.Share)
		z.Mod(z, order)
	}

	return &Signature{R: groupCommitment, Z: z}, nil
}

// validateSigningPackage validates the shape of a signing package's
// commitment map and confirms that selfIdentifier is among the
// participants, replacing the equivalent of
// participants_from_commitment_list from [FROST] section 4.3.
func validateSigningPackage(
	ciphersuite Ciphersuite,
	signingPackage *SigningPackage,
	selfIdentifier Identifier,
) ([]Identifier, error) {
	participants, err := validateSigningPackageShape(signingPackage)
	if err != nil {
		return nil, err
	}

	if _, ok := signingPackage.SigningCommitments[selfIdentifier]; !ok {
		return nil, fmt.Errorf("%w: own commitment not found in signing package", ErrUnknownIdentifier)
	}

	curve := ciphersuite.Curve()
	for id, commitment := range signingPackage.SigningCommitments {
		if commitment == nil {
			return nil, fmt.Errorf("commitment from identifier [%d] is nil", id)
		}
		if !curve.IsPointOnCurve(commitment.Hiding) {
			return nil, fmt.Errorf(
				"hiding nonce commitment from identifier [%d] is not a valid "+
					"non-identity point on the curve: [%s]", id, commitment.Hiding)
		}
		if !curve.IsPointOnCurve(commitment.Binding) {
			return nil, fmt.Errorf(
				"binding nonce commitment from identifier [%d] is not a valid "+
					"non-identity point on the curve: [%s]", id, commitment.Binding)
		}
	}

	return participants, nil
}

// validateSigningPackageShape validates that a signing package carries
// at least two commitments and returns the sorted participant list.
// Individual point validity is left to the caller; this split lets
// Aggregate check the shape without running the per-point checks.
func validateSigningPackageShape(signingPackage *SigningPackage) ([]Identifier, error) {
	if len(signingPackage.SigningCommitments) < 2 {
		return nil, errors.New("frost: signing package must carry at least two commitments")
	}

	return sortedIdentifiers(signingPackage.SigningCommitments), nil
}
