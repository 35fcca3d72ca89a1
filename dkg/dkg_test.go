package dkg

import (
	"math/big"
	"testing"

	"github.com/StackOverflowExcept1on/roast/frost"
	"github.com/StackOverflowExcept1on/roast/internal/testutils"
)

func newParticipants(t *testing.T, ciphersuite frost.Ciphersuite, maxSigners, minSigners uint16) ([]frost.Identifier, map[frost.Identifier]*Participant) {
	ids := make([]frost.Identifier, maxSigners)
	participants := make(map[frost.Identifier]*Participant, maxSigners)
	for i := uint16(0); i < maxSigners; i++ {
		id := frost.Identifier(i + 1)
		ids[i] = id

		participant, err := NewParticipant(ciphersuite, id, maxSigners, minSigners)
		if err != nil {
			t.Fatalf("participant [%d]: NewParticipant failed: [%v]", id, err)
		}
		participants[id] = participant
	}
	return ids, participants
}

// TestTrustedThirdPartyRoundtrip relays a full 3-of-5 Distributed Key
// Generation run through a TrustedThirdParty and confirms every
// participant derives the same group verifying key, agreeing with the
// relay's own PublicKeyPackage.
func TestTrustedThirdPartyRoundtrip(t *testing.T) {
	const maxSigners = 5
	const minSigners = 3

	ciphersuite := frost.NewBip340Ciphersuite()

	ids, participants := newParticipants(t, ciphersuite, maxSigners, minSigners)

	ttp, err := NewTrustedThirdParty(ciphersuite, maxSigners, minSigners, ids)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		pkg, err := participants[id].Round1Package()
		if err != nil {
			t.Fatalf("participant [%d]: Round1Package failed: [%v]", id, err)
		}
		status, err := ttp.ReceiveRound1Package(id, pkg)
		if err != nil {
			t.Fatalf("participant [%d]: ReceiveRound1Package failed: [%v]", id, err)
		}
		if id == ids[len(ids)-1] && status != FinishedRound1 {
			t.Fatalf("expected FinishedRound1 after the last round1 package, got [%d]", status)
		}
	}

	relayedRound1 := ttp.Round1Packages()

	ttpPublicKeyPackage, err := ttp.PublicKeyPackage()
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		round2Packages, err := participants[id].ReceiveRound1Packages(relayedRound1)
		if err != nil {
			t.Fatalf("participant [%d]: ReceiveRound1Packages failed: [%v]", id, err)
		}
		status, err := ttp.ReceiveRound2Packages(id, round2Packages)
		if err != nil {
			t.Fatalf("participant [%d]: ReceiveRound2Packages failed: [%v]", id, err)
		}
		if id == ids[len(ids)-1] && status != FinishedRound2 {
			t.Fatalf("expected FinishedRound2 after the last round2 batch, got [%d]", status)
		}
	}

	var groupKey *big.Int
	for _, id := range ids {
		incoming := ttp.Round2Packages(id)
		keyPackage, publicKeyPackage, err := participants[id].ReceiveRound2Packages(incoming)
		if err != nil {
			t.Fatalf("participant [%d]: ReceiveRound2Packages failed: [%v]", id, err)
		}

		if groupKey == nil {
			groupKey = keyPackage.VerifyingKey.X
		} else {
			testutils.AssertBigIntsEqual(t, "group verifying key X coordinate", groupKey, keyPackage.VerifyingKey.X)
		}
		testutils.AssertBigIntsEqual(t, "public key package verifying key X coordinate", ttpPublicKeyPackage.VerifyingKey.X, publicKeyPackage.VerifyingKey.X)
	}

	status, err := ttp.TryFinish()
	if err != nil {
		t.Fatalf("TryFinish failed: [%v]", err)
	}
	if status != FinishedRound3 {
		t.Fatalf("expected FinishedRound3, got [%d]", status)
	}
}

// TestRound2CulpritDetection has one participant send a tampered
// round2 share to a single recipient; the recipient must detect it,
// report it via Round2Culprits, and the TrustedThirdParty must
// corroborate the accusation.
func TestRound2CulpritDetection(t *testing.T) {
	const maxSigners = 3
	const minSigners = 2

	ciphersuite := frost.NewBip340Ciphersuite()

	ids, participants := newParticipants(t, ciphersuite, maxSigners, minSigners)

	ttp, err := NewTrustedThirdParty(ciphersuite, maxSigners, minSigners, ids)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range ids {
		pkg, err := participants[id].Round1Package()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ttp.ReceiveRound1Package(id, pkg); err != nil {
			t.Fatal(err)
		}
	}

	relayedRound1 := ttp.Round1Packages()

	culprit := ids[0]
	victim := ids[1]

	round2BySender := make(map[frost.Identifier]map[frost.Identifier]*frost.Round2Package, maxSigners)
	for _, id := range ids {
		packages, err := participants[id].ReceiveRound1Packages(relayedRound1)
		if err != nil {
			t.Fatal(err)
		}
		round2BySender[id] = packages
	}

	// Tamper with the share the culprit sends to the victim.
	round2BySender[culprit][victim] = &frost.Round2Package{SigningShare: big.NewInt(1)}

	for _, id := range ids {
		if _, err := ttp.ReceiveRound2Packages(id, round2BySender[id]); err != nil {
			t.Fatal(err)
		}
	}

	for _, id := range ids {
		incoming := ttp.Round2Packages(id)
		_, _, err := participants[id].ReceiveRound2Packages(incoming)

		if id == victim {
			if err == nil {
				t.Fatal("expected the victim to detect the tampered share")
			}

			accused, culpritErr := participants[id].Round2Culprits()
			if culpritErr != nil {
				t.Fatalf("Round2Culprits failed: [%v]", culpritErr)
			}
			if len(accused) != 1 || accused[0] != culprit {
				t.Fatalf("expected accused=[%d], got %v", culprit, accused)
			}

			if _, ttpErr := ttp.ReceiveRound2Culprits(victim, accused); ttpErr != nil {
				t.Fatalf("ReceiveRound2Culprits failed: [%v]", ttpErr)
			}
			continue
		}

		if err != nil {
			t.Fatalf("participant [%d]: unexpected error: [%v]", id, err)
		}
	}

	status, err := ttp.TryFinish()
	if status != InProgress || err != ErrInvalidSecretShares {
		t.Fatalf("expected TryFinish to report ErrInvalidSecretShares, got status=[%d] err=[%v]", status, err)
	}

	culprits := ttp.Round2Culprits()
	if len(culprits) != 1 || culprits[0] != culprit {
		t.Fatalf("expected TrustedThirdParty culprits=[%d], got %v", culprit, culprits)
	}
}

// TestRound1PackageTakeOnce confirms Round1Package errors on a second
// take.
func TestRound1PackageTakeOnce(t *testing.T) {
	ciphersuite := frost.NewBip340Ciphersuite()
	participant, err := NewParticipant(ciphersuite, 1, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := participant.Round1Package(); err != nil {
		t.Fatal(err)
	}
	if _, err := participant.Round1Package(); err != ErrInvalidStateTransition {
		t.Fatalf("expected ErrInvalidStateTransition on second take, got [%v]", err)
	}
}
