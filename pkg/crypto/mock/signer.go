package mock

import (
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
)

type signerMock struct {
	accountID [crypto.PublicKeySize]byte
	address   string
}

func (m *signerMock) KeyringPair() signature.KeyringPair {
	return signature.KeyringPair{
		Address:   m.address,
		PublicKey: m.accountID[:],
	}
}

func (m *signerMock) AccountID() [crypto.PublicKeySize]byte {
	return m.accountID
}

func (m *signerMock) Address() string {
	return m.address
}

func (m *signerMock) Sign(data []byte) ([]byte, error) {
	return nil, nil
}

func (m *signerMock) Verify(msg, sig []byte) (bool, error) {
	return true, nil
}

func (m *signerMock) GetMnemonic() string {
	return ""
}

func (m *signerMock) SecretURI() string {
	return ""
}

func New(opts ...Option) crypto.Signer {
	mock := new(signerMock)
	for _, o := range opts {
		o.apply(mock)
	}
	return mock
}

// Option is the option passed to the mock signer
type Option interface {
	apply(*signerMock)
}

type optionFunc func(*signerMock)

func (f optionFunc) apply(r *signerMock) { f(r) }

func WithAccountID(id [crypto.PublicKeySize]byte) Option {
	return optionFunc(func(s *signerMock) {
		s.accountID = id
	})
}

func WithAddress(address string) Option {
	return optionFunc(func(s *signerMock) {
		s.address = address
	})
}
