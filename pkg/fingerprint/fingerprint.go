// Package fingerprint computes the content digest recorded on the ledger for
// every order.
//
// Content is split into fixed size chunks and the chunks are placed in an
// ordered Merkle structure keyed by chunk position. The root of that
// structure is the fingerprint. The default structure is the ordered
// Patricia trie over Keccak-256 that Substrate and Ethereum tooling call
// "ordered trie root"; a plain binary Merkle tree with a selectable hash is
// available as well.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/trie"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

const (
	DigestSize       = 32
	DefaultChunkSize = 64
)

type Scheme string

const (
	OrderedTrie Scheme = "trie"
	Binary      Scheme = "binary"
)

const (
	HashKeccak256 = "keccak256"
	HashSHA3      = "sha3-256"
	HashSHA256    = "sha256"
	HashBlake3    = "blake3"
)

var hashes = map[string]func() hash.Hash{
	HashKeccak256: sha3.NewLegacyKeccak256,
	HashSHA3:      sha3.New256,
	HashSHA256:    sha256.New,
	HashBlake3:    func() hash.Hash { return blake3.New(DigestSize, nil) },
}

var (
	ErrChunkSize     = errors.New("fingerprint: chunk size must be positive")
	ErrUnknownScheme = errors.New("fingerprint: unknown scheme")
	ErrUnknownHash   = errors.New("fingerprint: unknown hash")
	ErrTrieHash      = errors.New("fingerprint: ordered trie is defined over keccak256 only")
)

// Digest is a 32 byte fingerprint.
type Digest [DigestSize]byte

func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func ParseHexDigest(s string) (d Digest, err error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return d, err
	}
	if len(b) != DigestSize {
		return d, fmt.Errorf("fingerprint: digest is %d bytes, want %d", len(b), DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

type Options struct {
	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int
	// Scheme defaults to OrderedTrie.
	Scheme Scheme
	// Hash names the hash of the Binary scheme. Defaults to keccak256.
	Hash string
}

type Fingerprinter struct {
	chunkSize int
	scheme    Scheme
	newHash   func() hash.Hash
	hashName  string
}

func New(o Options) (*Fingerprinter, error) {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkSize < 0 {
		return nil, ErrChunkSize
	}
	if o.Scheme == "" {
		o.Scheme = OrderedTrie
	}
	if o.Hash == "" {
		o.Hash = HashKeccak256
	}

	switch o.Scheme {
	case OrderedTrie:
		if o.Hash != HashKeccak256 {
			return nil, ErrTrieHash
		}
	case Binary:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownScheme, o.Scheme)
	}

	newHash, ok := hashes[o.Hash]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownHash, o.Hash)
	}

	return &Fingerprinter{
		chunkSize: o.ChunkSize,
		scheme:    o.Scheme,
		newHash:   newHash,
		hashName:  o.Hash,
	}, nil
}

func MustNew(o Options) *Fingerprinter {
	f, err := New(o)
	if err != nil {
		panic(err)
	}
	return f
}

var defaultFingerprinter = MustNew(Options{})

// Sum returns the fingerprint of data with the default options: 64 byte
// chunks in an ordered Keccak-256 trie.
func Sum(data []byte) Digest {
	return defaultFingerprinter.Sum(data)
}

func (f *Fingerprinter) ChunkSize() int {
	return f.chunkSize
}

func (f *Fingerprinter) String() string {
	return fmt.Sprintf("%s/%s/%d", f.scheme, f.hashName, f.chunkSize)
}

// Sum returns the root over the positional chunks of data. Empty data yields
// the scheme's empty root.
func (f *Fingerprinter) Sum(data []byte) Digest {
	chunks := Chunks(data, f.chunkSize)
	if f.scheme == Binary {
		return f.binaryRoot(chunks)
	}
	return trieRoot(chunks)
}

// Chunks splits data into consecutive slices of size bytes. The last slice
// may be shorter and is not padded. The slices share data's backing array.
// A size below one yields no chunks.
func Chunks(data []byte, size int) [][]byte {
	if size <= 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > size {
		chunks = append(chunks, data[:size:size])
		data = data[size:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return chunks
}

type chunkList [][]byte

func (l chunkList) Len() int {
	return len(l)
}

func (l chunkList) EncodeIndex(i int, w *bytes.Buffer) {
	w.Write(l[i])
}

func trieRoot(chunks [][]byte) (d Digest) {
	root := types.DeriveSha(chunkList(chunks), trie.NewStackTrie(nil))
	copy(d[:], root.Bytes())
	return d
}

const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

func (f *Fingerprinter) binaryRoot(chunks [][]byte) (d Digest) {
	h := f.newHash()
	if len(chunks) == 0 {
		copy(d[:], h.Sum(nil))
		return d
	}

	level := make([][]byte, len(chunks))
	var index [8]byte
	for i, c := range chunks {
		h.Reset()
		binary.BigEndian.PutUint64(index[:], uint64(i))
		h.Write([]byte{leafPrefix})
		h.Write(index[:])
		h.Write(c)
		level[i] = h.Sum(nil)
	}

	for len(level) > 1 {
		next := level[:0]
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			h.Reset()
			h.Write([]byte{nodePrefix})
			h.Write(level[i])
			h.Write(level[i+1])
			next = append(next, h.Sum(nil))
		}
		level = next
	}
	copy(d[:], level[0])
	return d
}

// Hashes lists the hash names accepted by the Binary scheme.
func Hashes() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
