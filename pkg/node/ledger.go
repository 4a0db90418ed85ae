package node

import (
	"context"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
)

// DefaultLedgerTimeout bounds a ledger call, including the wait for block
// inclusion of a submission.
const DefaultLedgerTimeout = 2 * time.Minute

// timeoutLedger applies a deadline to every call of the wrapped ledger.
type timeoutLedger struct {
	files.Ledger
	timeout time.Duration
}

func newTimeoutLedger(l files.Ledger, timeout time.Duration) files.Ledger {
	if timeout <= 0 {
		return l
	}
	return &timeoutLedger{Ledger: l, timeout: timeout}
}

func (l *timeoutLedger) SubmitCreateOrder(ctx context.Context, signer crypto.Signer, order files.CreateOrder) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.Ledger.SubmitCreateOrder(ctx, signer, order)
}

func (l *timeoutLedger) SubmitDeleteOrder(ctx context.Context, signer crypto.Signer, orderID uint64) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.Ledger.SubmitDeleteOrder(ctx, signer, orderID)
}

func (l *timeoutLedger) ListOrders(ctx context.Context) ([]files.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.Ledger.ListOrders(ctx)
}
