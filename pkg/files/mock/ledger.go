package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"go.uber.org/atomic"
)

var ErrOrderNotFound = errors.New("mock ledger: order not found")

// Ledger is an in-memory order list. It counts the calls it receives.
type Ledger struct {
	mu     sync.Mutex
	orders []files.Order

	createErr error
	deleteErr error
	listErr   error
	// hide drops created orders instead of recording them.
	hide bool

	CreateCalls atomic.Int32
	DeleteCalls atomic.Int32
	ListCalls   atomic.Int32
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := new(Ledger)
	for _, o := range opts {
		o.apply(l)
	}
	return l
}

// LedgerOption is the option passed to the mock ledger
type LedgerOption interface {
	apply(*Ledger)
}

type ledgerOptionFunc func(*Ledger)

func (f ledgerOptionFunc) apply(l *Ledger) { f(l) }

// WithOrders seeds the order list.
func WithOrders(orders ...files.Order) LedgerOption {
	return ledgerOptionFunc(func(l *Ledger) {
		l.orders = append(l.orders, orders...)
	})
}

func WithCreateError(err error) LedgerOption {
	return ledgerOptionFunc(func(l *Ledger) {
		l.createErr = err
	})
}

func WithDeleteError(err error) LedgerOption {
	return ledgerOptionFunc(func(l *Ledger) {
		l.deleteErr = err
	})
}

func WithListError(err error) LedgerOption {
	return ledgerOptionFunc(func(l *Ledger) {
		l.listErr = err
	})
}

// WithHiddenCreates makes created orders invisible to ListOrders.
func WithHiddenCreates() LedgerOption {
	return ledgerOptionFunc(func(l *Ledger) {
		l.hide = true
	})
}

func (l *Ledger) SubmitCreateOrder(_ context.Context, signer crypto.Signer, order files.CreateOrder) error {
	l.CreateCalls.Inc()
	if l.createErr != nil {
		return l.createErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hide {
		return nil
	}
	l.orders = append(l.orders, files.Order{
		Owner:       files.AccountID(signer.AccountID()),
		Key:         append([]byte(nil), order.Key...),
		Fingerprint: order.Fingerprint,
		Length:      order.Length,
		Miners:      append([]files.AccountID(nil), order.Miners...),
		Days:        order.Days,
	})
	return nil
}

func (l *Ledger) SubmitDeleteOrder(_ context.Context, signer crypto.Signer, orderID uint64) error {
	l.DeleteCalls.Inc()
	if l.deleteErr != nil {
		return l.deleteErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if orderID >= uint64(len(l.orders)) {
		return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if l.orders[orderID].Owner != files.AccountID(signer.AccountID()) {
		return fmt.Errorf("mock ledger: order %d not owned by %s", orderID, signer.Address())
	}
	l.orders = append(l.orders[:orderID], l.orders[orderID+1:]...)
	return nil
}

func (l *Ledger) ListOrders(context.Context) ([]files.Order, error) {
	l.ListCalls.Inc()
	if l.listErr != nil {
		return nil, l.listErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]files.Order, len(l.orders))
	for i, o := range l.orders {
		o.ID = uint64(i)
		out[i] = o
	}
	return out, nil
}

// Len returns the number of orders on the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// RemoveAt deletes the order at position i regardless of owner, the way
// another account's delete would.
func (l *Ledger) RemoveAt(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = append(l.orders[:i], l.orders[i+1:]...)
}
