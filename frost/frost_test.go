package frost

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/StackOverflowExcept1on/roast/internal/testutils"
)

var ciphersuite = NewBip340Ciphersuite()

const (
	threshold = 51
	groupSize = 100
)

func TestFrostRoundtrip(t *testing.T) {
	message := []byte("For even the very wise cannot see all ends")

	keyPackages, publicKeyPackage := createKeyPackages(t)

	isSignatureValid := false
	maxAttempts := 5

	for i := 0; !isSignatureValid && i < maxAttempts; i++ {
		nonces, commitments := executeRound1(t, keyPackages)

		signingPackage := &SigningPackage{
			SigningCommitments: commitments,
			Message:            message,
		}

		shares := executeRound2(t, keyPackages, nonces, signingPackage)

		for id, share := range shares {
			keyPackage := keyPackages[id]
			err := VerifySignatureShare(
				ciphersuite,
				id,
				keyPackage.VerifyingShare,
				publicKeyPackage.VerifyingKey,
				share,
				signingPackage,
			)
			if err != nil {
				t.Fatalf("signature share from identifier [%d] failed verification: [%v]", id, err)
			}
		}

		signature, err := Aggregate(ciphersuite, publicKeyPackage, signingPackage, shares)
		if err != nil {
			t.Fatal(err)
		}

		isSignatureValid, err = ciphersuite.VerifySignature(signature, publicKeyPackage.VerifyingKey, message)
		if err != nil {
			fmt.Printf("signature verification error on attempt [%v]: [%v]\n", i, err)
		}
	}

	testutils.AssertBoolsEqual(t, "signature verification result", true, isSignatureValid)
}

func createKeyPackages(t *testing.T) (map[Identifier]*KeyPackage, *PublicKeyPackage) {
	curve := ciphersuite.Curve()
	order := curve.Order()

	secretKey, err := rand.Int(rand.Reader, order)
	if err != nil {
		t.Fatal(err)
	}

	publicKey := curve.EcBaseMul(secretKey)

	// From [BIP-340]: let d = d' if has_even_y(P), otherwise n - d'.
	if publicKey.Y.Bit(0) != 0 {
		secretKey.Sub(order, secretKey)
		publicKey = curve.EcBaseMul(secretKey)
	}

	shares := testutils.GenerateKeyShares(secretKey, groupSize, threshold, order)

	keyPackages := make(map[Identifier]*KeyPackage, groupSize)
	verifyingShares := make(map[Identifier]*Point, groupSize)

	for i, share := range shares {
		id := Identifier(i + 1)
		verifyingShare := curve.EcBaseMul(share)
		verifyingShares[id] = verifyingShare
		keyPackages[id] = &KeyPackage{
			Identifier:     id,
			SigningShare:   share,
			VerifyingShare: verifyingShare,
			VerifyingKey:   publicKey,
			Threshold:      threshold,
		}
	}

	publicKeyPackage := &PublicKeyPackage{VerifyingShares: verifyingShares, VerifyingKey: publicKey}

	return keyPackages, publicKeyPackage
}

func executeRound1(
	t *testing.T,
	keyPackages map[Identifier]*KeyPackage,
) (map[Identifier]*SigningNonces, map[Identifier]*SigningCommitments) {
	nonces := make(map[Identifier]*SigningNonces, len(keyPackages))
	commitments := make(map[Identifier]*SigningCommitments, len(keyPackages))

	for id, keyPackage := range keyPackages {
		n, c, err := Commit(ciphersuite, keyPackage.SigningShare)
		if err != nil {
			t.Fatal(err)
		}
		nonces[id] = n
		commitments[id] = c
	}

	return nonces, commitments
}

func executeRound2(
	t *testing.T,
	keyPackages map[Identifier]*KeyPackage,
	nonces map[Identifier]*SigningNonces,
	signingPackage *SigningPackage,
) map[Identifier]*SignatureShare {
	shares := make(map[Identifier]*SignatureShare, len(keyPackages))

	for id, keyPackage := range keyPackages {
		share, err := Sign(ciphersuite, keyPackage, nonces[id], signingPackage)
		if err != nil {
			t.Fatal(err)
		}
		shares[id] = share
	}

	return shares
}

func TestAggregateRejectsCommitmentShareCountMismatch(t *testing.T) {
	keyPackages, publicKeyPackage := createSmallKeyPackages(t, 3)
	_, commitments := executeRound1(t, keyPackages)

	signingPackage := &SigningPackage{SigningCommitments: commitments, Message: []byte("m")}

	shares := make(map[Identifier]*SignatureShare)
	shares[1] = &SignatureShare{Share: big.NewInt(1)}

	_, err := Aggregate(ciphersuite, publicKeyPackage, signingPackage, shares)
	if err == nil {
		t.Fatal("expected an error for mismatched commitment/share counts")
	}
}

func createSmallKeyPackages(t *testing.T, n int) (map[Identifier]*KeyPackage, *PublicKeyPackage) {
	curve := ciphersuite.Curve()
	order := curve.Order()

	secretKey, err := rand.Int(rand.Reader, order)
	if err != nil {
		t.Fatal(err)
	}
	publicKey := curve.EcBaseMul(secretKey)

	shares := testutils.GenerateKeyShares(secretKey, n, n, order)

	keyPackages := make(map[Identifier]*KeyPackage, n)
	verifyingShares := make(map[Identifier]*Point, n)
	for i, share := range shares {
		id := Identifier(i + 1)
		verifyingShare := curve.EcBaseMul(share)
		verifyingShares[id] = verifyingShare
		keyPackages[id] = &KeyPackage{
			Identifier:     id,
			SigningShare:   share,
			VerifyingShare: verifyingShare,
			VerifyingKey:   publicKey,
			Threshold:      uint16(n),
		}
	}

	return keyPackages, &PublicKeyPackage{VerifyingShares: verifyingShares, VerifyingKey: publicKey}
}
