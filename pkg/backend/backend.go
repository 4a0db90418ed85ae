// Package backend talks to the storage side of ipsex: a miner's HTTP order
// endpoint for uploads and deletes, and an IPFS node's HTTP API for reads.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FavorLabs/ipsex/pkg/logging"
)

const (
	DefaultIPFSURL = "http://localhost:5001"
	DefaultTimeout = 60 * time.Second

	// maxErrorBody bounds the part of an error response kept in HTTPError.
	maxErrorBody = 1024
)

var (
	ErrMinerURL    = errors.New("backend: miner url is required")
	ErrEmptyHandle = errors.New("backend: miner returned an empty handle")
)

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

type Options struct {
	// MinerURL is the base URL of the miner receiving uploads and deletes.
	// Without it only Fetch works.
	MinerURL string
	// IPFSURL is the base URL of the IPFS HTTP API serving reads.
	IPFSURL string
	// Timeout bounds every request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Client overrides the http client.
	Client *http.Client
}

// Backend is the files.Storage implementation over HTTP.
type Backend struct {
	minerURL   string
	ipfsURL    string
	httpClient *http.Client
	logger     logging.Logger
}

func New(o Options, logger logging.Logger) (*Backend, error) {
	minerURL := strings.TrimRight(o.MinerURL, "/")
	if _, err := url.Parse(minerURL); err != nil {
		return nil, fmt.Errorf("backend: miner url: %w", err)
	}
	ipfsURL := strings.TrimRight(o.IPFSURL, "/")
	if ipfsURL == "" {
		ipfsURL = DefaultIPFSURL
	}

	c := o.Client
	if c == nil {
		timeout := o.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		c = &http.Client{Transport: DefaultTransport, Timeout: timeout}
	}
	return &Backend{
		minerURL:   minerURL,
		ipfsURL:    ipfsURL,
		httpClient: c,
		logger:     logger,
	}, nil
}

func (b *Backend) orderURL(targetID uint64) string {
	return b.minerURL + "/order?" + strconv.FormatUint(targetID, 10)
}

// Store uploads data to the miner for order targetID. The response body is
// the content handle, only a trailing line break is dropped.
func (b *Backend) Store(ctx context.Context, targetID uint64, data []byte) (string, error) {
	if b.minerURL == "" {
		return "", ErrMinerURL
	}
	u := b.orderURL(targetID)
	body, err := b.do(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	handle := strings.TrimSuffix(strings.TrimSuffix(string(body), "\n"), "\r")
	if handle == "" {
		return "", ErrEmptyHandle
	}
	b.logger.Debugf("backend: stored %d bytes for order %d as %s", len(data), targetID, handle)
	return handle, nil
}

// Fetch reads the content behind handle through the IPFS cat endpoint.
func (b *Backend) Fetch(ctx context.Context, handle string) ([]byte, error) {
	u := b.ipfsURL + "/api/v0/cat?arg=" + url.QueryEscape(handle)
	data, err := b.do(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	b.logger.Debugf("backend: fetched %d bytes for %s", len(data), handle)
	return data, nil
}

// Remove asks the miner to drop the content of order targetID.
func (b *Backend) Remove(ctx context.Context, targetID uint64) error {
	if b.minerURL == "" {
		return ErrMinerURL
	}
	_, err := b.do(ctx, http.MethodDelete, b.orderURL(targetID), nil)
	if err != nil {
		return err
	}
	b.logger.Debugf("backend: removed content of order %d", targetID)
	return nil
}

func (b *Backend) do(ctx context.Context, method, u string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			Method:     method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	return io.ReadAll(resp.Body)
}
