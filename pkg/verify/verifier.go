// Package verify checks that updates were signed by their claimed author.
//
// The signature scheme is isolated behind the Verifier interface. The default scheme
// is ed25519: a user address is the hex encoding of the author's public key, and the
// signature covers the canonical sign data of the update.
package verify

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
)

// Verifier validates the signature of an update against its author address
type Verifier interface {
	Verify(*model.Update) error
}

// VerifierFunc adapts a function to a Verifier
type VerifierFunc func(*model.Update) error

// Verify the update
func (f VerifierFunc) Verify(u *model.Update) error { return f(u) }

// Ed25519 verifies ed25519 signatures
type Ed25519 struct{}

var _ Verifier = Ed25519{}

// Verify fails closed: any malformed address or signature, wrong signer or tampered payload
// yields status.ErrSignatureInvalid.
func (Ed25519) Verify(u *model.Update) error {
	if u == nil {
		return status.ErrSignatureInvalid.Withf("Invalid signature: no update")
	}
	publicKey, err := PublicKeyFromAddress(u.UserAddress)
	if err != nil {
		return status.ErrSignatureInvalid.Withf("Invalid signature: %v", err)
	}
	signature, err := hex.DecodeString(u.Signature)
	if err != nil || len(signature) != ed25519.SignatureSize {
		return status.ErrSignatureInvalid.Withf("Invalid signature: malformed signature")
	}
	data, err := u.SignData()
	if err != nil {
		return status.ErrSignatureInvalid.Withf("Invalid signature: %v", err).Wrap(err)
	}
	if !ed25519.Verify(publicKey, data, signature) {
		return status.ErrSignatureInvalid.Withf("Invalid signature for user %q", u.UserAddress)
	}
	return nil
}

// PublicKeyFromAddress decodes an address into an ed25519 public key
func PublicKeyFromAddress(address string) (ed25519.PublicKey, error) {
	if address != strings.ToLower(address) {
		return nil, fmt.Errorf("address %q is not lowercase hex", address)
	}
	key, err := hex.DecodeString(address)
	if err != nil {
		return nil, fmt.Errorf("address %q is not hex encoded", address)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("address %q has invalid size %d, expected %d", address, len(key), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(key), nil
}

// AddressFromPublicKey encodes a public key as a user address
func AddressFromPublicKey(publicKey ed25519.PublicKey) string {
	return hex.EncodeToString(publicKey)
}
