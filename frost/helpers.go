package frost

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/exp/slices"
)

// bindingFactors maps each participant's Identifier to its binding
// factor, as produced by computeBindingFactors.
type bindingFactors map[Identifier]*big.Int

// sortedIdentifiers returns the keys of commitments sorted in
// ascending order. [FROST] requires commitment lists to be processed
// in a fixed order so that every participant derives the same binding
// factors and group commitment; a map has no inherent order, so every
// function operating on commitment_list sorts its keys first.
func sortedIdentifiers(commitments map[Identifier]*SigningCommitments) []Identifier {
	ids := make([]Identifier, 0, len(commitments))
	for id := range commitments {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// computeBindingFactors implements compute_binding_factors from
// [FROST], section 4.4. Binding Factors Computation.
func computeBindingFactors(
	ciphersuite Ciphersuite,
	groupPublicKey *Point,
	message []byte,
	commitments map[Identifier]*SigningCommitments,
) bindingFactors {
	curve := ciphersuite.Curve()
	groupPublicKeyEncoded := curve.SerializePoint(groupPublicKey)

	msgHash := ciphersuite.H4(message)

	groupCommitmentEncoded := encodeGroupCommitment(ciphersuite, commitments)
	encodedCommitHash := ciphersuite.H5(groupCommitmentEncoded)

	rhoInputPrefix := concat(groupPublicKeyEncoded, msgHash, encodedCommitHash)

	factors := make(bindingFactors, len(commitments))
	for _, id := range sortedIdentifiers(commitments) {
		rhoInput := make([]byte, 0, len(rhoInputPrefix)+2)
		rhoInput = append(rhoInput, rhoInputPrefix...)
		rhoInput = binary.BigEndian.AppendUint16(rhoInput, uint16(id))
		factors[id] = ciphersuite.H1(rhoInput)
	}

	return factors
}

// computeGroupCommitment implements compute_group_commitment from
// [FROST], section 4.5. Group Commitment Computation.
func computeGroupCommitment(
	ciphersuite Ciphersuite,
	commitments map[Identifier]*SigningCommitments,
	factors bindingFactors,
) *Point {
	curve := ciphersuite.Curve()
	groupCommitment := curve.Identity()

	for _, id := range sortedIdentifiers(commitments) {
		commitment := commitments[id]
		bindingNonce := curve.EcMul(commitment.Binding, factors[id])
		groupCommitment = curve.EcAdd(
			groupCommitment,
			curve.EcAdd(commitment.Hiding, bindingNonce),
		)
	}

	return groupCommitment
}

// encodeGroupCommitment implements encode_group_commitment_list from
// [FROST], section 4.3. List Operations.
func encodeGroupCommitment(
	ciphersuite Ciphersuite,
	commitments map[Identifier]*SigningCommitments,
) []byte {
	curve := ciphersuite.Curve()
	ecPointLength := curve.SerializedPointLength()

	b := make([]byte, 0, (2+2*ecPointLength)*len(commitments))
	for _, id := range sortedIdentifiers(commitments) {
		c := commitments[id]
		b = binary.BigEndian.AppendUint16(b, uint16(id))
		b = append(b, curve.SerializePoint(c.Hiding)...)
		b = append(b, curve.SerializePoint(c.Binding)...)
	}

	return b
}

// deriveInterpolatingValue implements derive_interpolating_value(L, x_i)
// from [FROST], section 4.2. Polynomials. L is the set of identifiers
// of the participants in the signing or DKG session, and xi is the
// identifier of the participant the Lagrange coefficient is derived
// for.
func deriveInterpolatingValue(order *big.Int, xi Identifier, participants []Identifier) *big.Int {
	num := big.NewInt(1)
	den := big.NewInt(1)

	for _, xj := range participants {
		if xj == xi {
			continue
		}

		num.Mul(num, big.NewInt(int64(xj)))
		num.Mod(num, order)

		diff := big.NewInt(int64(xj) - int64(xi))
		den.Mul(den, diff)
		den.Mod(den, order)
	}

	denInv := new(big.Int).ModInverse(den, order)
	res := new(big.Int).Mul(num, denInv)
	res.Mod(res, order)

	return res
}

// computeChallenge implements compute_challenge from [FROST], section
// 4.6. Signature Challenge Computation.
//
// Points are encoded with the ciphersuite's EncodePoint when it has one
// (the x-only encoding Bip340Ciphersuite.VerifySignature hashes), and
// with the curve's SerializePoint otherwise.
func computeChallenge(
	ciphersuite Ciphersuite,
	groupPublicKey *Point,
	message []byte,
	groupCommitment *Point,
) *big.Int {
	encode := ciphersuite.Curve().SerializePoint
	if encoder, ok := ciphersuite.(interface{ EncodePoint(*Point) []byte }); ok {
		encode = encoder.EncodePoint
	}
	groupCommitmentEncoded := encode(groupCommitment)
	publicKeyEncoded := encode(groupPublicKey)
	return ciphersuite.H2(groupCommitmentEncoded, publicKeyEncoded, message)
}
