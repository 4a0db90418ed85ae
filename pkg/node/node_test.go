package node

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	signermock "github.com/FavorLabs/ipsex/pkg/crypto/mock"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/files/mock"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/logging"
)

func TestNodeServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n, err := New(ctx, signermock.New(signermock.WithAddress("owner")), Options{
		DataDir: t.TempDir(),
		Logger:  logging.New(io.Discard, 0),
		Ledger:  mock.NewLedger(),
		Storage: mock.NewStorage(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer n.Close()
	if n.Book == nil {
		t.Fatal("handle book not opened")
	}

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- n.serve(ctx, "127.0.0.1:0", ready)
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("api did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(20 * time.Second):
		t.Fatal("api did not shut down")
	}
}

func TestNewRejectsBadFingerprint(t *testing.T) {
	_, err := New(context.Background(), signermock.New(), Options{
		Logger:      logging.New(io.Discard, 0),
		Ledger:      mock.NewLedger(),
		Storage:     mock.NewStorage(),
		Fingerprint: fingerprint.Options{Scheme: "sparse"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

// stuckLedger never sees a submission included.
type stuckLedger struct {
	files.Ledger
}

func (stuckLedger) SubmitCreateOrder(ctx context.Context, _ crypto.Signer, _ files.CreateOrder) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stuckLedger) SubmitDeleteOrder(ctx context.Context, _ crypto.Signer, _ uint64) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLedgerTimeout(t *testing.T) {
	owner := files.AccountID{1}
	ledger := stuckLedger{Ledger: mock.NewLedger(mock.WithOrders(files.Order{Owner: owner, Key: []byte("doc1")}))}
	n, err := New(context.Background(), signermock.New(signermock.WithAccountID([crypto.PublicKeySize]byte(owner))), Options{
		Logger:        logging.New(io.Discard, 0),
		Ledger:        ledger,
		Storage:       mock.NewStorage(),
		LedgerTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer n.Close()

	start := time.Now()
	_, err = n.Files.AddFile(context.Background(), []byte("doc2"), []byte("data"), []files.AccountID{{0xa1}}, 1)
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, files.ErrLedgerSubmission) {
		t.Fatalf("got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("ledger timeout not applied")
	}

	err = n.Files.DeleteFile(context.Background(), []byte("doc1"))
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, files.ErrLedgerSubmission) {
		t.Fatalf("got %v", err)
	}
}
