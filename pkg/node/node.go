// Package node wires the ledger, the storage backend and the file service
// into one runnable unit.
package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/FavorLabs/ipsex/pkg/api"
	"github.com/FavorLabs/ipsex/pkg/backend"
	"github.com/FavorLabs/ipsex/pkg/chain"
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/handlebook"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	ChainEndpoint      string
	MinerURL           string
	IPFSURL            string
	DataDir            string
	RequestTimeout     time.Duration
	// LedgerTimeout bounds every ledger call. Zero means DefaultLedgerTimeout,
	// a negative value disables the bound.
	LedgerTimeout      time.Duration
	Fingerprint        fingerprint.Options
	CORSAllowedOrigins []string
	Logger             logging.Logger

	// Ledger and Storage replace the chain and HTTP backends when set.
	Ledger  files.Ledger
	Storage files.Storage
}

type Node struct {
	Chain  *chain.Client
	Ledger files.Ledger
	Files  *files.Service
	Book   *handlebook.Book

	signer crypto.Signer
	logger logging.Logger
	o      Options
	closer io.Closer
}

func New(ctx context.Context, signer crypto.Signer, o Options) (n *Node, err error) {
	logger := o.Logger
	if logger == nil {
		logger = logging.Default()
	}
	n = &Node{signer: signer, logger: logger, o: o}
	defer func() {
		if err != nil {
			_ = n.Close()
		}
	}()

	f, err := fingerprint.New(o.Fingerprint)
	if err != nil {
		return nil, err
	}

	n.Ledger = o.Ledger
	if n.Ledger == nil {
		var ledger *chain.Ledger
		n.Chain, ledger, err = InitChain(ctx, logger, o.ChainEndpoint)
		if err != nil {
			return nil, err
		}
		n.Ledger = ledger
	}
	ledgerTimeout := o.LedgerTimeout
	if ledgerTimeout == 0 {
		ledgerTimeout = DefaultLedgerTimeout
	}
	n.Ledger = newTimeoutLedger(n.Ledger, ledgerTimeout)

	storage := o.Storage
	if storage == nil {
		storage, err = backend.New(backend.Options{
			MinerURL: o.MinerURL,
			IPFSURL:  o.IPFSURL,
			Timeout:  o.RequestTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	n.Files, err = files.New(files.Options{
		Signer:        signer,
		Ledger:        n.Ledger,
		Storage:       storage,
		Fingerprinter: f,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	if o.DataDir != "" {
		n.Book, err = handlebook.Open(filepath.Join(o.DataDir, "handlebook"))
		if err != nil {
			return nil, fmt.Errorf("handle book: %w", err)
		}
		n.closer = n.Book
	} else {
		logger.Warning("data directory not provided, handles are not recorded")
	}

	logger.Infof("using signer %s with %s", signer.Address(), f)
	return n, nil
}

// Owner is the address handles are recorded under.
func (n *Node) Owner() string {
	return n.signer.Address()
}

// Serve runs the HTTP API on addr until ctx is done.
func (n *Node) Serve(ctx context.Context, addr string) error {
	return n.serve(ctx, addr, nil)
}

func (n *Node) serve(ctx context.Context, addr string, ready chan<- net.Addr) error {
	s, err := api.New(n.Files, n.Book, n.logger, api.Options{
		Owner:              n.Owner(),
		CORSAllowedOrigins: n.o.CORSAllowedOrigins,
	})
	if err != nil {
		return err
	}
	s.MustRegisterMetrics(n.logger.Metrics()...)
	s.MustRegisterMetrics(n.Files.Metrics()...)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api listener: %w", err)
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	n.logger.Infof("api address: %s", ln.Addr())
	if ready != nil {
		ready <- ln.Addr()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		n.logger.Debug("shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (n *Node) Close() error {
	var errs error
	if n.closer != nil {
		if err := n.closer.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("handle book: %w", err))
		}
	}
	if n.Chain != nil {
		n.Chain.Default.Close()
	}
	return errs
}
