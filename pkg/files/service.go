// Package files implements storing, retrieving and deleting files against
// an order ledger and a content storage backend.
//
// Adding a file creates an order on the ledger for the file's key and
// fingerprint, then hands the bytes to storage under the order's id.
// Deleting reverses both steps. The two systems are not updated
// atomically: a failed upload leaves the order behind and a failed removal
// leaves the content behind. Neither is rolled back.
package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/logging"
	mapset "github.com/deckarep/golang-set"
	"github.com/hashicorp/go-multierror"
)

var (
	errEmptyContent = errors.New("content is empty")
	errEmptyKey     = errors.New("key is empty")
	errNoMiners     = errors.New("no miners given")
	errZeroDays     = errors.New("days must be positive")
	errEmptyHandle  = errors.New("handle is empty")
)

// Service runs the file operations for a single signer.
type Service struct {
	signer        crypto.Signer
	ledger        Ledger
	storage       Storage
	fingerprinter *fingerprint.Fingerprinter
	cache         *OrderCache
	logger        logging.Logger
	metrics       metrics
}

type Options struct {
	Signer  crypto.Signer
	Ledger  Ledger
	Storage Storage
	// Fingerprinter defaults to 64 byte chunks in an ordered trie.
	Fingerprinter *fingerprint.Fingerprinter
	Logger        logging.Logger
}

func New(o Options) (*Service, error) {
	var err error
	if o.Signer == nil {
		err = multierror.Append(err, errors.New("signer is required"))
	}
	if o.Ledger == nil {
		err = multierror.Append(err, errors.New("ledger is required"))
	}
	if o.Storage == nil {
		err = multierror.Append(err, errors.New("storage is required"))
	}
	if o.Logger == nil {
		err = multierror.Append(err, errors.New("logger is required"))
	}
	if err != nil {
		return nil, err
	}

	f := o.Fingerprinter
	if f == nil {
		f = fingerprint.MustNew(fingerprint.Options{})
	}
	m := newMetrics()
	return &Service{
		signer:        o.Signer,
		ledger:        o.Ledger,
		storage:       o.Storage,
		fingerprinter: f,
		cache:         newOrderCache(o.Ledger, o.Logger, m),
		logger:        o.Logger,
		metrics:       m,
	}, nil
}

func (s *Service) owner() AccountID {
	return AccountID(s.signer.AccountID())
}

// Fingerprint is the root AddFile registers for data.
func (s *Service) Fingerprint(data []byte) fingerprint.Digest {
	return s.fingerprinter.Sum(data)
}

// Cache exposes the service's order id cache.
func (s *Service) Cache() *OrderCache {
	return s.cache
}

// AddFile registers an order for key and stores data under it, returning
// the storage handle. Duplicate miners are collapsed.
func (s *Service) AddFile(ctx context.Context, key, data []byte, miners []AccountID, days uint64) (handle string, err error) {
	const op = "add file"
	s.metrics.AddFileCounter.Inc()
	defer func() {
		if err != nil {
			s.metrics.AddFileErrors.Inc()
		}
	}()

	switch {
	case len(data) == 0:
		return "", newError(op, ErrInvalidInput, errEmptyContent)
	case len(key) == 0:
		return "", newError(op, ErrInvalidInput, errEmptyKey)
	case len(miners) == 0:
		return "", newError(op, ErrInvalidInput, errNoMiners)
	case days == 0:
		return "", newError(op, ErrInvalidInput, errZeroDays)
	}

	order := CreateOrder{
		Key:         key,
		Fingerprint: s.fingerprinter.Sum(data),
		Length:      uint64(len(data)),
		Miners:      uniqueMiners(miners),
		Days:        days,
	}
	if err := s.ledger.SubmitCreateOrder(ctx, s.signer, order); err != nil {
		return "", newError(op, ErrLedgerSubmission, err)
	}
	s.logger.Debugf("add file: created order for key %x fingerprint %s length %d", key, order.Fingerprint, order.Length)

	owner := s.owner()
	id, found, err := s.cache.Lookup(ctx, key, owner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", newError(op, ErrNoOrderFound, fmt.Errorf("order for key %x not visible after creation", key))
	}

	handle, err = s.storage.Store(ctx, id, data)
	if err != nil {
		s.metrics.OrphanedOrders.Inc()
		s.logger.Warningf("add file: order %d for key %x has no content: %v", id, key, err)
		return "", newError(op, ErrStorageUpload, err)
	}
	s.logger.Infof("add file: key %x stored as order %d handle %s", key, id, handle)
	return handle, nil
}

// GetFile returns the content stored under handle. The bytes are not
// checked against any fingerprint.
func (s *Service) GetFile(ctx context.Context, handle string) (data []byte, err error) {
	const op = "get file"
	s.metrics.GetFileCounter.Inc()
	defer func() {
		if err != nil {
			s.metrics.GetFileErrors.Inc()
		}
	}()

	if handle == "" {
		return nil, newError(op, ErrInvalidInput, errEmptyHandle)
	}
	data, err = s.storage.Fetch(ctx, handle)
	if err != nil {
		return nil, newError(op, ErrStorageDownload, err)
	}
	s.logger.Debugf("get file: handle %s returned %d bytes", handle, len(data))
	return data, nil
}

// DeleteFile deletes the signer's order for key and removes its content.
func (s *Service) DeleteFile(ctx context.Context, key []byte) (err error) {
	const op = "delete file"
	s.metrics.DeleteFileCounter.Inc()
	defer func() {
		if err != nil {
			s.metrics.DeleteFileErrors.Inc()
		}
	}()

	if len(key) == 0 {
		return newError(op, ErrInvalidInput, errEmptyKey)
	}

	owner := s.owner()
	id, found, err := s.cache.Lookup(ctx, key, owner)
	if err != nil {
		return err
	}
	if !found {
		return newError(op, ErrNoOrderFound, fmt.Errorf("key %x", key))
	}

	if err := s.ledger.SubmitDeleteOrder(ctx, s.signer, id); err != nil {
		return newError(op, ErrLedgerSubmission, err)
	}
	s.cache.Forget(key, owner)

	if err := s.storage.Remove(ctx, id); err != nil {
		s.metrics.DivergedDeletes.Inc()
		s.logger.Warningf("delete file: order %d for key %x deleted but content remains: %v", id, key, err)
		return newError(op, ErrStorageDelete, err)
	}
	s.logger.Infof("delete file: key %x order %d deleted", key, id)
	return nil
}

// Orders lists the orders owned by the signer.
func (s *Service) Orders(ctx context.Context) ([]Order, error) {
	orders, err := s.ledger.ListOrders(ctx)
	if err != nil {
		return nil, newError("list orders", ErrLedgerQuery, err)
	}
	owner := s.owner()
	var own []Order
	for i, o := range orders {
		if o.Owner != owner {
			continue
		}
		o.ID = uint64(i)
		own = append(own, o)
	}
	return own, nil
}

func uniqueMiners(miners []AccountID) []AccountID {
	seen := mapset.NewThreadUnsafeSet()
	out := make([]AccountID, 0, len(miners))
	for _, m := range miners {
		if seen.Add(m) {
			out = append(out, m)
		}
	}
	return out
}
