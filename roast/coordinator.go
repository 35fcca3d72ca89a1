package roast

import (
	"golang.org/x/exp/slices"

	"github.com/StackOverflowExcept1on/roast/frost"
)

// SessionStatusKind enumerates the possible states returned by
// Coordinator.Receive.
type SessionStatusKind int

const (
	// InProgress means the coordinator has not yet collected a
	// threshold number of SigningCommitments for a new session, or a
	// threshold number of SignatureShare for an open one.
	InProgress SessionStatusKind = iota
	// Started means a session was just opened with the returned
	// Signers and SigningPackage; those signers should be sent the
	// SigningPackage so they can produce signature shares.
	Started
	// Finished means a session collected a threshold number of valid
	// signature shares and the final Signature has been produced.
	Finished
)

// SessionStatus represents all possible statuses a ROAST session can
// be in after a call to Coordinator.Receive.
type SessionStatus struct {
	Kind SessionStatusKind

	// Signers is populated only when Kind == Started: the set of
	// signers the new session was opened with.
	Signers []frost.Identifier
	// SigningPackage is populated only when Kind == Started: the
	// package to be sent to Signers so they can produce signature
	// shares for the second round of FROST.
	SigningPackage *frost.SigningPackage
	// Signature is populated only when Kind == Finished.
	Signature *frost.Signature
}

// session tracks an open signing session: the SigningPackage it was
// opened with, and the signature shares collected for it so far.
type session struct {
	signingPackage  *frost.SigningPackage
	signatureShares map[frost.Identifier]*frost.SignatureShare
}

// Coordinator represents the coordinator of the ROAST protocol. It
// opens overlapping signing sessions as soon as a threshold number of
// signers become responsive, banishes signers whose behavior cannot be
// explained by honest participation, and aggregates the first session
// to collect a threshold number of verified signature shares.
type Coordinator struct {
	ciphersuite      frost.Ciphersuite
	maxSigners       uint16
	minSigners       uint16
	publicKeyPackage *frost.PublicKeyPackage
	message          []byte

	responsiveSigners        map[frost.Identifier]struct{}
	maliciousSigners         map[frost.Identifier]MaliciousKind
	latestSigningCommitments map[frost.Identifier]*frost.SigningCommitments
	sessionCounter           uint16
	signerSession            map[frost.Identifier]uint16
	sessions                 map[uint16]*session
}

// NewCoordinator creates a new Coordinator for a group of maxSigners
// signers with a signing threshold of minSigners.
func NewCoordinator(
	ciphersuite frost.Ciphersuite,
	maxSigners, minSigners uint16,
	publicKeyPackage *frost.PublicKeyPackage,
	message []byte,
) (*Coordinator, error) {
	if minSigners < 2 {
		return nil, frostError(frost.ErrInvalidMinSigners)
	}
	if maxSigners < 2 {
		return nil, frostError(frost.ErrInvalidMaxSigners)
	}
	if minSigners > maxSigners {
		return nil, frostError(frost.ErrInvalidMinSigners)
	}

	return &Coordinator{
		ciphersuite:              ciphersuite,
		maxSigners:               maxSigners,
		minSigners:               minSigners,
		publicKeyPackage:         publicKeyPackage,
		message:                  message,
		responsiveSigners:        make(map[frost.Identifier]struct{}),
		maliciousSigners:         make(map[frost.Identifier]MaliciousKind),
		latestSigningCommitments: make(map[frost.Identifier]*frost.SigningCommitments),
		signerSession:            make(map[frost.Identifier]uint16),
		sessions:                 make(map[uint16]*session),
	}, nil
}

// Receive processes an identifier's reply: an optional SignatureShare
// (present when replying to an open session) and a fresh
// SigningCommitments (always present, since every reply doubles as the
// commitment for a future session).
//
// Transitions between session states occur as follows:
//   - The coordinator receives a threshold number of SigningCommitments
//     and the session moves to SessionStatus Started. All signers who
//     contributed to the session should receive the returned
//     SigningPackage.
//   - The coordinator then receives a threshold number of
//     SignatureShare and aggregates them into a final signature; the
//     session moves to SessionStatus Finished.
//   - Otherwise the session stays InProgress.
func (c *Coordinator) Receive(
	identifier frost.Identifier,
	signatureShare *frost.SignatureShare,
	signingCommitments *frost.SigningCommitments,
) (SessionStatus, error) {
	if kind, ok := c.maliciousSigners[identifier]; ok {
		return SessionStatus{}, maliciousSignerError(kind)
	}

	if _, ok := c.responsiveSigners[identifier]; ok {
		return SessionStatus{}, c.markMalicious(identifier, UnsolicitedReply)
	}

	if sessionID, ok := c.signerSession[identifier]; ok {
		if status, done, err := c.receiveShare(identifier, sessionID, signatureShare); done {
			return status, err
		}
	}

	c.latestSigningCommitments[identifier] = signingCommitments
	c.responsiveSigners[identifier] = struct{}{}

	if len(c.responsiveSigners) != int(c.minSigners) {
		return SessionStatus{Kind: InProgress}, nil
	}

	return c.openSession(), nil
}

// receiveShare handles the case where identifier already has an open
// session awaiting its signature share. The done return value
// indicates whether Receive should return status/err immediately
// (true) or continue on to treat this call as a fresh round1
// commitment as well (false, only when the session is still short of
// threshold).
func (c *Coordinator) receiveShare(
	identifier frost.Identifier,
	sessionID uint16,
	signatureShare *frost.SignatureShare,
) (SessionStatus, bool, error) {
	sess := c.sessions[sessionID]

	if signatureShare == nil {
		err := c.markMalicious(identifier, InvalidSignatureShare)
		return SessionStatus{}, true, err
	}

	verifyingShare, ok := c.publicKeyPackage.VerifyingShares[identifier]
	if !ok {
		err := c.markMalicious(identifier, InvalidSignatureShare)
		return SessionStatus{}, true, err
	}

	err := frost.VerifySignatureShare(
		c.ciphersuite,
		identifier,
		verifyingShare,
		c.publicKeyPackage.VerifyingKey,
		signatureShare,
		sess.signingPackage,
	)
	if err != nil {
		markErr := c.markMalicious(identifier, InvalidSignatureShare)
		return SessionStatus{}, true, markErr
	}

	sess.signatureShares[identifier] = signatureShare

	if len(sess.signatureShares) != int(c.minSigners) {
		return SessionStatus{}, false, nil
	}

	signature, err := frost.Aggregate(c.ciphersuite, c.publicKeyPackage, sess.signingPackage, sess.signatureShares)
	if err != nil {
		return SessionStatus{}, true, frostError(err)
	}

	return SessionStatus{Kind: Finished, Signature: signature}, true, nil
}

// openSession collects the currently responsive signers' latest
// commitments into a new session and resets the responsive set.
func (c *Coordinator) openSession() SessionStatus {
	c.sessionCounter++
	sessionID := c.sessionCounter

	signers := make([]frost.Identifier, 0, len(c.responsiveSigners))
	for id := range c.responsiveSigners {
		signers = append(signers, id)
	}
	slices.Sort(signers)

	commitments := make(map[frost.Identifier]*frost.SigningCommitments, len(signers))
	for _, id := range signers {
		commitments[id] = c.latestSigningCommitments[id]
	}

	signingPackage := &frost.SigningPackage{SigningCommitments: commitments, Message: c.message}

	for _, id := range signers {
		c.signerSession[id] = sessionID
	}

	c.sessions[sessionID] = &session{
		signingPackage:  signingPackage,
		signatureShares: make(map[frost.Identifier]*frost.SignatureShare),
	}

	c.responsiveSigners = make(map[frost.Identifier]struct{})

	return SessionStatus{Kind: Started, Signers: signers, SigningPackage: signingPackage}
}

// markMalicious marks identifier as malicious with the given
// MaliciousKind and returns that as a *Error. If the number of
// malicious signers now exceeds the coordinator's slack, returns
// ErrTooManyMaliciousSigners instead.
func (c *Coordinator) markMalicious(identifier frost.Identifier, kind MaliciousKind) error {
	c.maliciousSigners[identifier] = kind

	if len(c.maliciousSigners) > int(c.maxSigners-c.minSigners) {
		return ErrTooManyMaliciousSigners
	}

	return maliciousSignerError(kind)
}
