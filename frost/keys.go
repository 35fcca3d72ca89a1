package frost

import "math/big"

// KeyPackage holds a single participant's share of a FROST key,
// produced either by trusted dealer key splitting or by the Part3
// round of Distributed Key Generation.
type KeyPackage struct {
	Identifier     Identifier // i in [FROST]
	SigningShare   *big.Int   // sk_i, this participant's secret share
	VerifyingShare *Point     // sk_i * G
	VerifyingKey   *Point     // group public key
	Threshold      uint16     // min_signers
}

// PublicKeyPackage holds the public material needed to verify
// signature shares and the aggregated signature produced by a FROST
// group: the group's verifying key, and each participant's individual
// verifying share.
type PublicKeyPackage struct {
	VerifyingShares map[Identifier]*Point
	VerifyingKey    *Point
}
