// Package frost implements the cryptographic primitives of [FROST]
// (Flexible Round-Optimized Schnorr Threshold signatures): two-round
// threshold Schnorr signing and a Pedersen/Feldman verifiable secret
// sharing based Distributed Key Generation. The package is ciphersuite
// agnostic; Bip340Ciphersuite supplies the concrete instantiation over
// secp256k1 used by the higher-level roast and dkg packages.
//
// [FROST]: https://datatracker.ietf.org/doc/rfc9591/
package frost

import "math/big"

// Identifier uniquely identifies a participant in a FROST group. It is
// a non-zero x-coordinate used for Shamir secret sharing; zero is
// reserved and must never be assigned to a participant.
type Identifier uint16

// Ciphersuite abstracts out the particular ciphersuite implementation
// used for the [FROST] protocol execution. This is a strategy design
// pattern allowing [FROST] to be used with different ciphersuites, like
// BIP-340 (secp256k1) or Ed25519. A [FROST] ciphersuite must specify the
// underlying prime-order group details and cryptographic hash functions.
type Ciphersuite interface {
	Hashing
	Curve() Curve
}

// Hashing abstracts out hash function implementations specific to the
// ciphersuite used.
//
// [FROST] requires the use of a cryptographically secure hash function,
// generically written as H. Using H, [FROST] introduces distinct
// domain-separated hashes, H1, H2, H3, H4, and H5. The details of H1,
// H2, H3, H4, and H5 vary based on ciphersuite.
type Hashing interface {
	H1(m []byte) *big.Int
	H2(m []byte, ms ...[]byte) *big.Int
	H3(m []byte, ms ...[]byte) *big.Int
	H4(m []byte) []byte
	H5(m []byte) []byte
}

// Curve abstracts out the particular elliptic curve implementation
// specific to the ciphersuite used.
type Curve interface {
	// EcBaseMul returns k*G, where G is the base point of the group.
	EcBaseMul(k *big.Int) *Point
	// EcMul returns k*P where P is the point provided as a parameter.
	EcMul(p *Point, k *big.Int) *Point
	// EcAdd returns the sum of two elliptic curve points.
	EcAdd(a, b *Point) *Point
	// EcSub returns the difference of two elliptic curve points.
	EcSub(a, b *Point) *Point
	// Identity returns the elliptic curve identity element.
	Identity() *Point
	// Order returns the order of the group produced by the generator.
	Order() *big.Int
	// IsPointOnCurve validates that the point lies on the curve and is
	// not the identity element.
	IsPointOnCurve(p *Point) bool
	// SerializedPointLength returns the byte length of a serialized
	// curve point.
	SerializedPointLength() int
	// SerializePoint serializes the provided elliptic curve point to
	// bytes. The slice length is equal to SerializedPointLength().
	SerializePoint(p *Point) []byte
	// DeserializePoint deserializes a byte slice of length
	// SerializedPointLength() into an elliptic curve point. Returns nil
	// if the bytes do not decode to a valid, non-identity point on the
	// curve.
	DeserializePoint(bytes []byte) *Point
}

// Point represents a valid point on the Curve.
type Point struct {
	X *big.Int // the X coordinate of the point
	Y *big.Int // the Y coordinate of the point
}

// String renders the point for diagnostic purposes.
func (p *Point) String() string {
	if p == nil {
		return "Point[nil]"
	}
	return "Point[X=0x" + p.X.Text(16) + ", Y=0x" + p.Y.Text(16) + "]"
}

// concat performs a concatenation of byte slices without modifying the
// slices passed as parameters. A brand new slice instance is always
// returned from the function.
func concat(a []byte, bs ...[]byte) []byte {
	c := make([]byte, len(a))
	copy(c, a)
	for _, b := range bs {
		c = append(c, b...)
	}
	return c
}

// os2ip converts a byte array into a nonnegative integer as specified
// in [RFC-8017] section 4.2.
//
// [RFC-8017]: https://datatracker.ietf.org/doc/html/rfc8017
func os2ip(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
