package frost

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SigningNonces is the secret output of Round One - Commitment. It
// must be used for exactly one Sign call and discarded afterwards;
// reusing nonces across signing attempts leaks the secret key share.
type SigningNonces struct {
	Hiding  *big.Int
	Binding *big.Int
}

// SigningCommitments is the public output of Round One - Commitment,
// sent to the coordinator so it can build a SigningPackage.
type SigningCommitments struct {
	Hiding  *Point
	Binding *Point
}

// Commit implements Round One - Commitment from [FROST], section 5.1.
//
// Round one involves each participant generating nonces and their
// corresponding public commitments. A nonce is a pair of Scalar
// values, and a commitment is a pair of Element values.
func Commit(ciphersuite Ciphersuite, secretShare *big.Int) (*SigningNonces, *SigningCommitments, error) {
	hidingNonce, err := generateNonce(ciphersuite, secretShare.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("hiding nonce generation failed: %w", err)
	}
	bindingNonce, err := generateNonce(ciphersuite, secretShare.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("binding nonce generation failed: %w", err)
	}

	curve := ciphersuite.Curve()
	nonces := &SigningNonces{Hiding: hidingNonce, Binding: bindingNonce}
	commitments := &SigningCommitments{
		Hiding:  curve.EcBaseMul(hidingNonce),
		Binding: curve.EcBaseMul(bindingNonce),
	}

	return nonces, commitments, nil
}

// generateNonce implements nonce_generate(secret) from [FROST], section
// 4.1: H3(random_bytes(32) || secret).
func generateNonce(ciphersuite Ciphersuite, secret []byte) (*big.Int, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return ciphersuite.H3(b, secret), nil
}
