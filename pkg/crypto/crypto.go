package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/lib/crypto"
	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/vedhavyas/go-subkey"
)

// DefaultSS58Format is the generic substrate address prefix.
const DefaultSS58Format uint8 = 42

const PublicKeySize = 32

var ErrInvalidAddress = errors.New("invalid ss58 address")

// PublicKeyFromSS58 decodes an SS58 address into the raw 32 byte sr25519
// public key.
func PublicKeyFromSS58(b58 string) (pub [PublicKeySize]byte, err error) {
	// the decoder slices without a length check on short input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s", ErrInvalidAddress, b58)
		}
	}()
	in := crypto.PublicAddressToByteArray(common.Address(b58))
	if len(in) != PublicKeySize {
		return pub, fmt.Errorf("%w: %s", ErrInvalidAddress, b58)
	}
	if _, err = sr25519.NewPublicKey(in); err != nil {
		return pub, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	copy(pub[:], in)
	return pub, nil
}

// SS58Address encodes a raw public key with the given address format.
func SS58Address(pub []byte, format uint8) (string, error) {
	return subkey.SS58Address(pub, format)
}

// ParseAccountID accepts a 0x-prefixed hex public key or an SS58 address.
func ParseAccountID(s string) (pub [PublicKeySize]byte, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		b, err := common.HexToBytes(s)
		if err != nil {
			return pub, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		if len(b) != PublicKeySize {
			return pub, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(b))
		}
		copy(pub[:], b)
		return pub, nil
	}
	return PublicKeyFromSS58(s)
}

func HexToBytes(in string) ([]byte, error) {
	return common.HexToBytes(in)
}

func BytesToHex(in []byte) string {
	return common.BytesToHex(in)
}

func NewBIP39Mnemonic() (string, error) {
	return crypto.NewBIP39Mnemonic()
}
