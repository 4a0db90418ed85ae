package subkey

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/twystd/tweetnacl-go/tweetnacl"
	"golang.org/x/crypto/scrypt"
)

var ENCODING = []string{"scrypt", "xsalsa20-poly1305"}
var CONTENT = []string{"uri", "sr25519"}

const (
	EncodingVersion = "3"
	SaltLength      = 32
	NonceLength     = 24
	ScryptLength    = SaltLength + (3 * 4)

	scryptN     = 1 << 15
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 64
)

var (
	ErrDecrypt         = errors.New("keystore: decryption failed, wrong password?")
	ErrAddressMismatch = errors.New("keystore: stored address does not match the decrypted key")
	ErrScryptParams    = errors.New("keystore: invalid injected scrypt params found")
)

type encryptedSubKey struct {
	Encoded  string   `json:"encoded"`
	Encoding Encoding `json:"encoding"`
	Address  string   `json:"address"`
	Meta     Meta     `json:"meta"`
}

type Encoding struct {
	Content []string `json:"content"`
	Type    []string `json:"type"`
	Version string   `json:"version"`
}

type Meta struct {
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	WhenCreated int64    `json:"whenCreated"`
}

type Params struct {
	N uint32
	P uint32
	r uint32
}

func scryptToBytes(params Params, salt []byte) (out []byte) {
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.N)
	out = binary.LittleEndian.AppendUint32(out, params.P)
	out = binary.LittleEndian.AppendUint32(out, params.r)
	return out
}

func scryptFromBytes(data []byte) (params Params, salt []byte, err error) {
	if len(data) < ScryptLength {
		return params, nil, ErrDecrypt
	}
	salt = data[:SaltLength]
	N := binary.LittleEndian.Uint32(data[SaltLength+0 : SaltLength+4])
	P := binary.LittleEndian.Uint32(data[SaltLength+4 : SaltLength+8])
	r := binary.LittleEndian.Uint32(data[SaltLength+8 : SaltLength+12])
	// only the defaults are accepted, the params are user input and a
	// crafted N can eat the CPU
	if N != scryptN || P != scryptP || r != scryptR {
		return params, nil, ErrScryptParams
	}
	return Params{N: N, P: P, r: r}, salt, nil
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}
	return key[:32], nil
}

func encryptSigner(s crypto.Signer, name, password string) ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	encrypted, err := tweetnacl.CryptoSecretBox([]byte(s.SecretURI()), nonce, key)
	if err != nil {
		return nil, fmt.Errorf("keystore: encrypt: %w", err)
	}

	var out []byte
	out = append(out, scryptToBytes(Params{N: scryptN, P: scryptP, r: scryptR}, salt)...)
	out = append(out, nonce...)
	out = append(out, encrypted...)

	v := encryptedSubKey{
		Encoded: base64.StdEncoding.EncodeToString(out),
		Encoding: Encoding{
			Content: CONTENT,
			Type:    ENCODING,
			Version: EncodingVersion,
		},
		Address: s.Address(),
		Meta: Meta{
			Name:        name,
			Tags:        []string{},
			WhenCreated: time.Now().Unix(),
		},
	}
	return json.Marshal(v)
}

func decryptSigner(data []byte, password string, format uint8) (crypto.Signer, error) {
	var v encryptedSubKey
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(v.Encoded)
	if err != nil {
		return nil, err
	}
	_, salt, err := scryptFromBytes(raw)
	if err != nil {
		return nil, err
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	raw = raw[ScryptLength:]
	if len(raw) < NonceLength {
		return nil, ErrDecrypt
	}
	uri, err := tweetnacl.CryptoSecretBoxOpen(raw[NonceLength:], raw[:NonceLength], key)
	if err != nil || len(uri) == 0 {
		return nil, ErrDecrypt
	}
	s, err := crypto.NewSignerFromURI(string(bytes.TrimSpace(uri)), format)
	if err != nil {
		return nil, err
	}
	if v.Address != "" {
		pub, err := crypto.PublicKeyFromSS58(v.Address)
		if err != nil || pub != s.AccountID() {
			return nil, ErrAddressMismatch
		}
	}
	return s, nil
}
