package httpserver

import (
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	errMissingPrincipal  = errors.New("X-Principal header is required")
	errMissingSignature  = errors.New("X-Signature header is required")
	errMalformedSig      = errors.New("signature must be 65 hex-encoded bytes")
	errSignatureMismatch = errors.New("signature does not match principal")
	errMissingTimestamp  = errors.New("X-Timestamp header is required")
	errInvalidTimestamp  = errors.New("X-Timestamp must be unix milliseconds")
	errStaleTimestamp    = errors.New("X-Timestamp is outside the accepted window")
	errReplayedRequest   = errors.New("signed request was already accepted")
)

// signatureWindow bounds how far X-Timestamp may drift from the relay clock.
const signatureWindow = 5 * time.Minute

// SignedDigest is the 32-byte message a principal personal-signs for a
// request: keccak256("<METHOD> <path>\n<timestamp>\n" || body). timestamp is
// the X-Timestamp header in unix milliseconds.
func SignedDigest(method string, path string, timestamp string, body []byte) []byte {
	return crypto.Keccak256([]byte(strings.ToUpper(method)+" "+path+"\n"+timestamp+"\n"), body)
}

// replayGuard accepts each signed digest once per principal while its
// timestamp is inside the window. Entries are pruned once they fall out of
// the window, after which the timestamp check rejects them anyway.
type replayGuard struct {
	mu        sync.Mutex
	window    time.Duration
	now       func() time.Time
	seen      map[string]time.Time
	lastPrune time.Time
}

func newReplayGuard(window time.Duration, now func() time.Time) *replayGuard {
	if now == nil {
		now = time.Now
	}
	return &replayGuard{window: window, now: now, seen: make(map[string]time.Time)}
}

// checkTimestamp parses header and rejects values outside the window.
func (g *replayGuard) checkTimestamp(header string) (time.Time, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return time.Time{}, errMissingTimestamp
	}
	millis, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return time.Time{}, errInvalidTimestamp
	}
	signedAt := time.UnixMilli(millis)
	drift := g.now().Sub(signedAt)
	if drift > g.window || drift < -g.window {
		return time.Time{}, errStaleTimestamp
	}
	return signedAt, nil
}

// remember records digest for principal and fails if it was already used.
func (g *replayGuard) remember(principal string, digest []byte, signedAt time.Time) error {
	key := principal + ":" + hex.EncodeToString(digest)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Sub(g.lastPrune) > g.window/10 {
		for k, at := range g.seen {
			if now.Sub(at) > g.window {
				delete(g.seen, k)
			}
		}
		g.lastPrune = now
	}
	if _, ok := g.seen[key]; ok {
		return errReplayedRequest
	}
	g.seen[key] = signedAt
	return nil
}

// RecoverSigner returns the address that produced an EIP-191 personal_sign
// signature over digest. Both 27/28 and 0/1 recovery ids are accepted.
func RecoverSigner(digest []byte, signatureHex string) (common.Address, error) {
	sig := common.FromHex(strings.TrimSpace(signatureHex))
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errMalformedSig
	}
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(digest), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// verifyPrincipal checks that signatureHex was produced by principal.
func verifyPrincipal(principal string, signatureHex string, digest []byte) (string, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return "", errMissingPrincipal
	}
	if strings.TrimSpace(signatureHex) == "" {
		return "", errMissingSignature
	}
	if !common.IsHexAddress(principal) {
		return "", errSignatureMismatch
	}
	signer, err := RecoverSigner(digest, signatureHex)
	if err != nil {
		return "", err
	}
	if signer != common.HexToAddress(principal) {
		return "", errSignatureMismatch
	}
	return strings.ToLower(signer.Hex()), nil
}
