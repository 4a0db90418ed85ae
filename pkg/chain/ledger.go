package chain

import (
	"context"
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/chain/rpc/ipse"
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Ledger is the files.Ledger backed by the Ipse pallet.
type Ledger struct {
	ipse   ipse.Interface
	logger logging.Logger
}

func NewLedger(i ipse.Interface, logger logging.Logger) *Ledger {
	return &Ledger{ipse: i, logger: logger}
}

func (l *Ledger) SubmitCreateOrder(ctx context.Context, signer crypto.Signer, order files.CreateOrder) error {
	miners := make([]types.AccountID, 0, len(order.Miners))
	for _, m := range order.Miners {
		id, err := types.NewAccountID(m[:])
		if err != nil {
			return fmt.Errorf("miner %s: %w", m, err)
		}
		miners = append(miners, *id)
	}
	l.logger.Tracef("ledger: create order key %x from %s", order.Key, signer.Address())
	return l.ipse.CreateOrderWatch(ctx, signer.KeyringPair(), ipse.CreateOrder{
		Key:        order.Key,
		MerkleRoot: order.Fingerprint,
		DataLength: order.Length,
		Miners:     miners,
		Days:       order.Days,
	})
}

func (l *Ledger) SubmitDeleteOrder(ctx context.Context, signer crypto.Signer, orderID uint64) error {
	l.logger.Tracef("ledger: delete order %d from %s", orderID, signer.Address())
	return l.ipse.DeleteOrderWatch(ctx, signer.KeyringPair(), orderID)
}

func (l *Ledger) ListOrders(ctx context.Context) ([]files.Order, error) {
	raw, err := l.ipse.Orders(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]files.Order, len(raw))
	for i, o := range raw {
		orders[i] = convertOrder(uint64(i), o)
	}
	return orders, nil
}

// Miner returns the registration of account.
func (l *Ledger) Miner(ctx context.Context, account files.AccountID) (*ipse.Miner, error) {
	id, err := types.NewAccountID(account[:])
	if err != nil {
		return nil, err
	}
	return l.ipse.Miner(ctx, *id)
}

func convertOrder(id uint64, o ipse.Order) files.Order {
	order := files.Order{
		ID:          id,
		Key:         []byte(o.Key),
		Fingerprint: fingerprint.Digest(o.MerkleRoot),
		Length:      uint64(o.DataLength),
		Days:        uint64(o.Days),
	}
	copy(order.Owner[:], o.User.ToBytes())
	order.Miners = make([]files.AccountID, len(o.Miners))
	for i, m := range o.Miners {
		copy(order.Miners[i][:], m.ToBytes())
	}
	return order
}
