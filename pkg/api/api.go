// Package api exposes the file operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/handlebook"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	contentTypeHeader = "Content-Type"
	octetStream       = "application/octet-stream"

	// DefaultMaxUploadSize bounds the request body of an upload.
	DefaultMaxUploadSize = 1 << 30
)

// FileService is the set of file operations the API serves.
type FileService interface {
	AddFile(ctx context.Context, key, data []byte, miners []files.AccountID, days uint64) (string, error)
	GetFile(ctx context.Context, handle string) ([]byte, error)
	DeleteFile(ctx context.Context, key []byte) error
	Orders(ctx context.Context) ([]files.Order, error)
	Fingerprint(data []byte) fingerprint.Digest
}

type Options struct {
	// Owner is the signer address, used to scope handle book entries.
	Owner              string
	CORSAllowedOrigins []string
	MaxUploadSize      int64
}

type Service interface {
	http.Handler
	MustRegisterMetrics(cs ...prometheus.Collector)
}

type server struct {
	files           FileService
	book            *handlebook.Book
	logger          logging.Logger
	metricsRegistry *prometheus.Registry
	o               Options
	http.Handler
}

// New returns the API handler. book may be nil, in which case handles are
// not recorded and keys cannot be resolved to handles.
func New(fs FileService, book *handlebook.Book, logger logging.Logger, o Options) (Service, error) {
	if fs == nil {
		return nil, errors.New("api: file service is required")
	}
	if o.MaxUploadSize <= 0 {
		o.MaxUploadSize = DefaultMaxUploadSize
	}
	s := &server{
		files:           fs,
		book:            book,
		logger:          logger,
		metricsRegistry: newMetricsRegistry(),
		o:               o,
	}
	s.setupRouting()
	return s, nil
}

func (s *server) MustRegisterMetrics(cs ...prometheus.Collector) {
	s.metricsRegistry.MustRegister(cs...)
}
