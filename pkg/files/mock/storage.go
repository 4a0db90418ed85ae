package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"go.uber.org/atomic"
)

var ErrNotFound = errors.New("mock storage: not found")

// Storage keeps content in memory, addressed by the hex sha256 of the bytes.
type Storage struct {
	mu      sync.Mutex
	content map[string][]byte
	targets map[uint64]string

	storeErr  error
	fetchErr  error
	removeErr error

	StoreCalls  atomic.Int32
	FetchCalls  atomic.Int32
	RemoveCalls atomic.Int32
}

func NewStorage(opts ...StorageOption) *Storage {
	s := &Storage{
		content: make(map[string][]byte),
		targets: make(map[uint64]string),
	}
	for _, o := range opts {
		o.apply(s)
	}
	return s
}

// StorageOption is the option passed to the mock storage
type StorageOption interface {
	apply(*Storage)
}

type storageOptionFunc func(*Storage)

func (f storageOptionFunc) apply(s *Storage) { f(s) }

func WithStoreError(err error) StorageOption {
	return storageOptionFunc(func(s *Storage) {
		s.storeErr = err
	})
}

func WithFetchError(err error) StorageOption {
	return storageOptionFunc(func(s *Storage) {
		s.fetchErr = err
	})
}

func WithRemoveError(err error) StorageOption {
	return storageOptionFunc(func(s *Storage) {
		s.removeErr = err
	})
}

func (s *Storage) Store(_ context.Context, targetID uint64, data []byte) (string, error) {
	s.StoreCalls.Inc()
	if s.storeErr != nil {
		return "", s.storeErr
	}
	sum := sha256.Sum256(data)
	handle := hex.EncodeToString(sum[:])
	s.mu.Lock()
	s.content[handle] = append([]byte(nil), data...)
	s.targets[targetID] = handle
	s.mu.Unlock()
	return handle, nil
}

func (s *Storage) Fetch(_ context.Context, handle string) ([]byte, error) {
	s.FetchCalls.Inc()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.content[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Storage) Remove(_ context.Context, targetID uint64) error {
	s.RemoveCalls.Inc()
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	handle, ok := s.targets[targetID]
	if !ok {
		return ErrNotFound
	}
	delete(s.targets, targetID)
	delete(s.content, handle)
	return nil
}

// Target returns the handle stored for an order id.
func (s *Storage) Target(targetID uint64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.targets[targetID]
	return h, ok
}
