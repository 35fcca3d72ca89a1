package frost

import (
	"testing"

	"github.com/StackOverflowExcept1on/roast/internal/testutils"
)

func TestDkgRoundtrip(t *testing.T) {
	const maxSigners = 5
	const minSigners = 3

	round1Secrets := make(map[Identifier]*Round1SecretPackage, maxSigners)
	round1Packages := make(map[Identifier]*Round1Package, maxSigners)

	for i := Identifier(1); i <= maxSigners; i++ {
		secret, pkg, err := Part1(ciphersuite, i, maxSigners, minSigners)
		if err != nil {
			t.Fatalf("participant [%d]: Part1 failed: [%v]", i, err)
		}
		round1Secrets[i] = secret
		round1Packages[i] = pkg
	}

	for id, pkg := range round1Packages {
		if err := VerifyProofOfKnowledge(ciphersuite, id, pkg.Commitment, pkg.ProofOfKnowledge); err != nil {
			t.Fatalf("participant [%d]: proof of knowledge failed to verify: [%v]", id, err)
		}
	}

	round2Secrets := make(map[Identifier]*Round2SecretPackage, maxSigners)
	round2PackagesBySender := make(map[Identifier]map[Identifier]*Round2Package, maxSigners)

	for i := Identifier(1); i <= maxSigners; i++ {
		received := make(map[Identifier]*Round1Package, maxSigners-1)
		for id, pkg := range round1Packages {
			if id != i {
				received[id] = pkg
			}
		}

		secret, produced, err := Part2(ciphersuite, round1Secrets[i], received)
		if err != nil {
			t.Fatalf("participant [%d]: Part2 failed: [%v]", i, err)
		}
		round2Secrets[i] = secret
		round2PackagesBySender[i] = produced
	}

	keyPackages := make(map[Identifier]*KeyPackage, maxSigners)
	var groupPublicKeyPackage *PublicKeyPackage

	for i := Identifier(1); i <= maxSigners; i++ {
		received := make(map[Identifier]*Round1Package, maxSigners-1)
		for id, pkg := range round1Packages {
			if id != i {
				received[id] = pkg
			}
		}

		receivedRound2 := make(map[Identifier]*Round2Package, maxSigners-1)
		for sender, packages := range round2PackagesBySender {
			if sender == i {
				continue
			}
			receivedRound2[sender] = packages[i]
		}

		keyPackage, publicKeyPackage, err := Part3(ciphersuite, round2Secrets[i], received, receivedRound2)
		if err != nil {
			t.Fatalf("participant [%d]: Part3 failed: [%v]", i, err)
		}

		keyPackages[i] = keyPackage
		groupPublicKeyPackage = publicKeyPackage
	}

	firstKey := keyPackages[1].VerifyingKey
	for i := Identifier(2); i <= maxSigners; i++ {
		testutils.AssertBigIntsEqual(
			t,
			"group verifying key X coordinate",
			firstKey.X,
			keyPackages[i].VerifyingKey.X,
		)
	}

	curve := ciphersuite.Curve()
	for id, keyPackage := range keyPackages {
		expected := curve.EcBaseMul(keyPackage.SigningShare)
		testutils.AssertBigIntsEqual(
			t,
			"verifying share X coordinate",
			expected.X,
			groupPublicKeyPackage.VerifyingShares[id].X,
		)
	}
}

func TestSecretShareVerifyRejectsTamperedShare(t *testing.T) {
	const maxSigners = 3
	const minSigners = 2

	_, round1Package, err := Part1(ciphersuite, 1, maxSigners, minSigners)
	if err != nil {
		t.Fatal(err)
	}

	tampered := &SecretShare{
		Identifier: 2,
		Share:      round1Package.ProofOfKnowledge.Mu, // not a valid share for this commitment
		Commitment: round1Package.Commitment,
	}

	if err := tampered.Verify(ciphersuite); err == nil {
		t.Fatal("expected verification of a tampered share to fail")
	}
}
