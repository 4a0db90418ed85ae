package fingerprint_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"gitlab.com/nolash/go-mockbytes"
	"golang.org/x/crypto/sha3"
)

const emptyTrieRoot = "56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"

func testData(t *testing.T, size int) []byte {
	t.Helper()
	g := mockbytes.New(0, mockbytes.MockTypeStandard).WithModulus(255)
	data, err := g.SequentialBytes(size)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestSumEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		got := fingerprint.Sum(data)
		if got.String() != emptyTrieRoot {
			t.Fatalf("got %s want %s", got, emptyTrieRoot)
		}
	}
	if fingerprint.Sum(nil) != fingerprint.Sum(nil) {
		t.Fatal("empty root changed between calls")
	}
}

func TestSumSingleChunk(t *testing.T) {
	// a lone leaf at key rlp(0) = 0x80: rlp([hex-prefix(0x80), "abc"])
	node := []byte{0xc7, 0x82, 0x20, 0x80, 0x83, 'a', 'b', 'c'}
	h := sha3.NewLegacyKeccak256()
	h.Write(node)
	want := h.Sum(nil)

	got := fingerprint.Sum([]byte("abc"))
	if !bytes.Equal(got.Bytes(), want) {
		t.Fatalf("got %x want %x", got.Bytes(), want)
	}
}

func TestSumDeterministic(t *testing.T) {
	data := testData(t, 1000)
	first := fingerprint.Sum(data)
	for i := 0; i < 3; i++ {
		if got := fingerprint.Sum(data); got != first {
			t.Fatalf("call %d: got %s want %s", i, got, first)
		}
	}
}

func TestSumBitFlip(t *testing.T) {
	data := testData(t, 300)
	orig := fingerprint.Sum(data)
	for _, i := range []int{0, 63, 64, 150, 299} {
		flipped := append([]byte(nil), data...)
		flipped[i] ^= 0x01
		if fingerprint.Sum(flipped) == orig {
			t.Fatalf("flipping byte %d did not change the fingerprint", i)
		}
	}
}

func TestChunks(t *testing.T) {
	for _, tc := range []struct {
		size    int
		lengths []int
	}{
		{0, nil},
		{1, []int{1}},
		{63, []int{63}},
		{64, []int{64}},
		{65, []int{64, 1}},
		{128, []int{64, 64}},
		{129, []int{64, 64, 1}},
	} {
		chunks := fingerprint.Chunks(testData(t, tc.size), fingerprint.DefaultChunkSize)
		if len(chunks) != len(tc.lengths) {
			t.Fatalf("size %d: got %d chunks want %d", tc.size, len(chunks), len(tc.lengths))
		}
		for i, c := range chunks {
			if len(c) != tc.lengths[i] {
				t.Fatalf("size %d chunk %d: got len %d want %d", tc.size, i, len(c), tc.lengths[i])
			}
		}
	}
}

func TestChunksInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if chunks := fingerprint.Chunks([]byte("abc"), size); len(chunks) != 0 {
			t.Fatalf("size %d: got %d chunks", size, len(chunks))
		}
	}
}

func TestSumUnpadded(t *testing.T) {
	data := testData(t, 65)
	padded := append(append([]byte(nil), data...), make([]byte, 63)...)
	if fingerprint.Sum(data) == fingerprint.Sum(padded) {
		t.Fatal("short last chunk hashed as if zero padded")
	}

	aligned := testData(t, 128)
	if fingerprint.Sum(aligned) == fingerprint.Sum(aligned[:127]) {
		t.Fatal("dropping the last byte did not change the fingerprint")
	}
}

func TestSumPositional(t *testing.T) {
	a := bytes.Repeat([]byte{0xaa}, 64)
	b := bytes.Repeat([]byte{0xbb}, 64)
	ab := append(append([]byte(nil), a...), b...)
	ba := append(append([]byte(nil), b...), a...)

	for _, f := range []*fingerprint.Fingerprinter{
		fingerprint.MustNew(fingerprint.Options{}),
		fingerprint.MustNew(fingerprint.Options{Scheme: fingerprint.Binary}),
	} {
		if f.Sum(ab) == f.Sum(ba) {
			t.Fatalf("%s: permuted chunks produced the same root", f)
		}
	}
}

func TestBinaryScheme(t *testing.T) {
	data := testData(t, 500)
	roots := make(map[fingerprint.Digest]string)
	for _, name := range fingerprint.Hashes() {
		f, err := fingerprint.New(fingerprint.Options{Scheme: fingerprint.Binary, Hash: name})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		root := f.Sum(data)
		if root != f.Sum(data) {
			t.Fatalf("%s: not deterministic", name)
		}
		if other, ok := roots[root]; ok {
			t.Fatalf("%s and %s produced the same root", name, other)
		}
		roots[root] = name
	}

	// the empty root is the hash of nothing
	f := fingerprint.MustNew(fingerprint.Options{Scheme: fingerprint.Binary})
	h := sha3.NewLegacyKeccak256()
	if got := f.Sum(nil); !bytes.Equal(got.Bytes(), h.Sum(nil)) {
		t.Fatalf("got empty root %s", got)
	}
}

func TestChunkSizeOption(t *testing.T) {
	data := testData(t, 256)
	small := fingerprint.MustNew(fingerprint.Options{ChunkSize: 32})
	if small.ChunkSize() != 32 {
		t.Fatalf("got chunk size %d", small.ChunkSize())
	}
	if small.Sum(data) == fingerprint.Sum(data) {
		t.Fatal("chunk size did not affect the root")
	}
}

func TestNewErrors(t *testing.T) {
	for _, tc := range []struct {
		opts fingerprint.Options
		err  error
	}{
		{fingerprint.Options{ChunkSize: -1}, fingerprint.ErrChunkSize},
		{fingerprint.Options{Scheme: "sparse"}, fingerprint.ErrUnknownScheme},
		{fingerprint.Options{Scheme: fingerprint.Binary, Hash: "md5"}, fingerprint.ErrUnknownHash},
		{fingerprint.Options{Hash: fingerprint.HashBlake3}, fingerprint.ErrTrieHash},
	} {
		if _, err := fingerprint.New(tc.opts); !errors.Is(err, tc.err) {
			t.Fatalf("%+v: got %v want %v", tc.opts, err, tc.err)
		}
	}
}

func TestParseHexDigest(t *testing.T) {
	d, err := fingerprint.ParseHexDigest("0x" + emptyTrieRoot)
	if err != nil {
		t.Fatal(err)
	}
	if d != fingerprint.Sum(nil) {
		t.Fatalf("got %s", d)
	}
	if _, err := fingerprint.ParseHexDigest("abcd"); err == nil {
		t.Fatal("expected length error")
	}
}
