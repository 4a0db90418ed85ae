package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FavorLabs/ipsex/pkg/backend"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, miner, ipfs *httptest.Server) *backend.Backend {
	t.Helper()
	o := backend.Options{MinerURL: "http://127.0.0.1:1"}
	if miner != nil {
		o.MinerURL = miner.URL + "/"
	}
	if ipfs != nil {
		o.IPFSURL = ipfs.URL
	}
	b, err := backend.New(o, logging.New(io.Discard, 0))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestStore(t *testing.T) {
	payload := []byte("hello world")
	miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s", r.Method)
		}
		if r.URL.Path != "/order" || r.URL.RawQuery != "5" {
			t.Errorf("got url %s", r.URL)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != string(payload) {
			t.Errorf("got body %q", body)
		}
		_, _ = w.Write([]byte("QmHandle\n"))
	}))
	defer miner.Close()

	handle, err := newBackend(t, miner, nil).Store(context.Background(), 5, payload)
	require.NoError(t, err)
	require.Equal(t, "QmHandle", handle)
}

func TestStoreOpaqueHandle(t *testing.T) {
	for body, want := range map[string]string{
		" Qm Handle \n":   " Qm Handle ",
		"Qm\tHandle\r\n": "Qm\tHandle",
		"QmHandle":        "QmHandle",
	} {
		body := body
		miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		handle, err := newBackend(t, miner, nil).Store(context.Background(), 1, []byte("x"))
		miner.Close()
		require.NoError(t, err)
		require.Equal(t, want, handle)
	}
}

func TestStoreErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "disk full", http.StatusInsufficientStorage)
		}))
		defer miner.Close()

		_, err := newBackend(t, miner, nil).Store(context.Background(), 1, []byte("x"))
		var herr *backend.HTTPError
		if !errors.As(err, &herr) {
			t.Fatalf("got %v", err)
		}
		require.Equal(t, http.StatusInsufficientStorage, herr.StatusCode)
		require.Equal(t, "disk full", herr.Body)
	})

	t.Run("empty handle", func(t *testing.T) {
		miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer miner.Close()

		_, err := newBackend(t, miner, nil).Store(context.Background(), 1, []byte("x"))
		require.ErrorIs(t, err, backend.ErrEmptyHandle)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := newBackend(t, nil, nil).Store(context.Background(), 1, []byte("x"))
		require.Error(t, err)
	})
}

func TestFetch(t *testing.T) {
	ipfs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v0/cat" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("arg") != "QmHandle" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("content"))
	}))
	defer ipfs.Close()

	b := newBackend(t, nil, ipfs)
	data, err := b.Fetch(context.Background(), "QmHandle")
	require.NoError(t, err)
	require.Equal(t, []byte("content"), data)

	_, err = b.Fetch(context.Background(), "QmOther")
	var herr *backend.HTTPError
	require.ErrorAs(t, err, &herr)
	require.Equal(t, http.StatusNotFound, herr.StatusCode)
}

func TestRemove(t *testing.T) {
	var calls int
	miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodDelete || r.URL.RawQuery != "12" {
			t.Errorf("got %s %s", r.Method, r.URL)
		}
		if calls > 1 {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer miner.Close()

	b := newBackend(t, miner, nil)
	require.NoError(t, b.Remove(context.Background(), 12))
	require.Error(t, b.Remove(context.Background(), 12))
}

func TestContextCancelled(t *testing.T) {
	miner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("h"))
	}))
	defer miner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBackend(t, miner, nil).Store(ctx, 1, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMissingMinerURL(t *testing.T) {
	b, err := backend.New(backend.Options{}, logging.New(io.Discard, 0))
	require.NoError(t, err)

	_, err = b.Store(context.Background(), 1, []byte("x"))
	require.ErrorIs(t, err, backend.ErrMinerURL)
	require.ErrorIs(t, b.Remove(context.Background(), 1), backend.ErrMinerURL)
}
