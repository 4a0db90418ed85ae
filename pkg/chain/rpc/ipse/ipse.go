package ipse

import (
	"context"
	"errors"
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/chain/rpc/base"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

var ErrMinerNotRegistered = errors.New("Ipse.Miners is empty")

type Interface interface {
	// CreateOrderWatch submits Ipse.create_order and waits for inclusion.
	CreateOrderWatch(ctx context.Context, signer signature.KeyringPair, order CreateOrder) error
	// DeleteOrderWatch submits Ipse.delete and waits for inclusion.
	DeleteOrderWatch(ctx context.Context, signer signature.KeyringPair, orderID uint64) error
	// Orders reads the full Ipse.Orders list.
	Orders(ctx context.Context) ([]Order, error)
	// Miner reads the registration of a storage miner.
	Miner(ctx context.Context, account types.AccountID) (*Miner, error)
}

// exposes methods for the Ipse pallet
type service struct {
	client *base.SubstrateAPI
}

// New creates a new service struct
func New(c *base.SubstrateAPI) Interface {
	return &service{client: c}
}

func (s *service) CheckExtrinsic(block types.Hash, ext types.Extrinsic) (err error) {
	b, err := ext.MarshalJSON()
	if err != nil {
		return
	}
	index, err := s.client.GetExtrinsicIndex(block, b)
	if err != nil {
		return
	}
	recordsRaw, err := s.client.GetEventRecordsRaw(block)
	if err != nil {
		return
	}
	var ev EventRecords
	err = recordsRaw.DecodeEventRecords(s.client.Meta, &ev)
	if err != nil {
		return
	}

	for _, v := range ev.System_ExtrinsicFailed {
		if v.Phase.AsApplyExtrinsic == uint32(index) {
			return base.DispatchError(v.DispatchError, func(me types.ModuleError) error {
				return NewError(me)
			})
		}
	}
	return
}

func (s *service) CreateOrderWatch(ctx context.Context, signer signature.KeyringPair, order CreateOrder) error {
	c, err := types.NewCall(s.client.Meta, "Ipse.create_order",
		types.NewBytes(order.Key),
		types.NewH256(order.MerkleRoot[:]),
		types.NewU64(order.DataLength),
		order.Miners,
		types.NewU64(order.Days),
	)
	if err != nil {
		return err
	}
	return s.client.SubmitExtrinsicAndWatch(ctx, signer, c, s)
}

func (s *service) DeleteOrderWatch(ctx context.Context, signer signature.KeyringPair, orderID uint64) error {
	c, err := types.NewCall(s.client.Meta, "Ipse.delete", types.NewU64(orderID))
	if err != nil {
		return err
	}
	return s.client.SubmitExtrinsicAndWatch(ctx, signer, c, s)
}

func (s *service) Orders(ctx context.Context) (orders []Order, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	key, err := types.CreateStorageKey(s.client.Meta, "Ipse", "Orders")
	if err != nil {
		return
	}
	ok, err := s.client.RPC.State.GetStorageLatest(key, &orders)
	if err != nil {
		logging.Warningf("gsrpc err: %v", err)
		return nil, fmt.Errorf("ipse: read Ipse.Orders: %w", err)
	}
	if !ok {
		// an empty list is never written to storage
		return nil, nil
	}
	return orders, nil
}

func (s *service) Miner(ctx context.Context, account types.AccountID) (*Miner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := types.CreateStorageKey(s.client.Meta, "Ipse", "Miners", account.ToBytes())
	if err != nil {
		return nil, err
	}
	var m Miner
	ok, err := s.client.RPC.State.GetStorageLatest(key, &m)
	if err != nil {
		logging.Warningf("gsrpc err: %v", err)
		return nil, fmt.Errorf("ipse: read Ipse.Miners: %w", err)
	}
	if !ok {
		return nil, ErrMinerNotRegistered
	}
	return &m, nil
}
