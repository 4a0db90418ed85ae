package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
)

// Signer authorizes ledger transactions. Every mutating ledger call takes
// one, there is no process wide default key.
type Signer interface {
	// KeyringPair is handed to the extrinsic signing code.
	KeyringPair() signature.KeyringPair
	// AccountID is the raw sr25519 public key.
	AccountID() [PublicKeySize]byte
	// Address is the SS58 rendering of AccountID.
	Address() string
	Sign(msg []byte) ([]byte, error)
	Verify(msg, sig []byte) (bool, error)
	// GetMnemonic is empty unless the signer was created from a phrase.
	GetMnemonic() string
	// SecretURI is the secret the signer was derived from.
	SecretURI() string
}

var ErrEmptySecret = errors.New("signer secret is empty")

type defaultSigner struct {
	pair     signature.KeyringPair
	mnemonic string
}

// NewSignerFromURI derives a signer from a secret URI: a BIP39 phrase, a
// 0x-prefixed hex seed, either optionally followed by a derivation path, or a
// bare dev derivation such as "//Alice".
func NewSignerFromURI(uri string, format uint8) (Signer, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, ErrEmptySecret
	}
	pair, err := signature.KeyringPairFromSecret(uri, format)
	if err != nil {
		return nil, fmt.Errorf("derive sr25519 key: %w", err)
	}
	s := &defaultSigner{pair: pair}
	if strings.Contains(uri, " ") && !strings.Contains(uri, "/") {
		s.mnemonic = uri
	}
	return s, nil
}

// NewSigner creates a signer from a freshly generated mnemonic.
func NewSigner(format uint8) (Signer, error) {
	mnemonic, err := NewBIP39Mnemonic()
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return NewSignerFromURI(mnemonic, format)
}

func (d *defaultSigner) KeyringPair() signature.KeyringPair {
	return d.pair
}

func (d *defaultSigner) AccountID() (id [PublicKeySize]byte) {
	copy(id[:], d.pair.PublicKey)
	return id
}

func (d *defaultSigner) Address() string {
	return d.pair.Address
}

func (d *defaultSigner) Sign(msg []byte) ([]byte, error) {
	return signature.Sign(msg, d.pair.URI)
}

func (d *defaultSigner) Verify(msg, sig []byte) (bool, error) {
	return signature.Verify(msg, sig, d.pair.URI)
}

func (d *defaultSigner) GetMnemonic() string {
	return d.mnemonic
}

func (d *defaultSigner) SecretURI() string {
	return d.pair.URI
}
