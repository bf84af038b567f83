package verify

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/fairjournal/journalfs/pkg/model"
)

// Signer signs updates on behalf of an author
type Signer struct {
	key ed25519.PrivateKey
}

// NewSigner builds a signer from a private key
func NewSigner(key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key has invalid size %d, expected %d", len(key), ed25519.PrivateKeySize)
	}
	return &Signer{key: key}, nil
}

// NewSignerFromSeed builds a signer from a 32 bytes seed
func NewSignerFromSeed(seed []byte) (*Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed has invalid size %d, expected %d", len(seed), ed25519.SeedSize)
	}
	return &Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateSigner creates a signer with a fresh random key
func GenerateSigner() (*Signer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// Address of the author
func (s *Signer) Address() string {
	return AddressFromPublicKey(s.key.Public().(ed25519.PublicKey))
}

// Sign sets the signature of an update
func (s *Signer) Sign(u *model.Update) error {
	data, err := u.SignData()
	if err != nil {
		return err
	}
	u.SetSignature(ed25519.Sign(s.key, data))
	return nil
}
