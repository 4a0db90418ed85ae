package chain_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/FavorLabs/ipsex/pkg/chain"
	"github.com/FavorLabs/ipsex/pkg/chain/rpc/ipse"
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

type pallet struct {
	created []ipse.CreateOrder
	deleted []uint64
	orders  []ipse.Order
	signers []string
	queried []types.AccountID
}

func (p *pallet) CreateOrderWatch(_ context.Context, signer signature.KeyringPair, order ipse.CreateOrder) error {
	p.signers = append(p.signers, signer.Address)
	p.created = append(p.created, order)
	return nil
}

func (p *pallet) DeleteOrderWatch(_ context.Context, signer signature.KeyringPair, orderID uint64) error {
	p.signers = append(p.signers, signer.Address)
	p.deleted = append(p.deleted, orderID)
	return nil
}

func (p *pallet) Orders(context.Context) ([]ipse.Order, error) {
	return p.orders, nil
}

func (p *pallet) Miner(_ context.Context, account types.AccountID) (*ipse.Miner, error) {
	p.queried = append(p.queried, account)
	return &ipse.Miner{URL: types.NewBytes([]byte("http://miner"))}, nil
}

func TestLedgerSubmit(t *testing.T) {
	ctx := context.Background()
	signer, err := crypto.NewSignerFromURI("//Alice", crypto.DefaultSS58Format)
	if err != nil {
		t.Fatal(err)
	}
	p := new(pallet)
	l := chain.NewLedger(p, logging.New(io.Discard, 0))

	root := fingerprint.Sum([]byte("data"))
	err = l.SubmitCreateOrder(ctx, signer, files.CreateOrder{
		Key:         []byte("doc1"),
		Fingerprint: root,
		Length:      4,
		Miners:      []files.AccountID{{0xa1}},
		Days:        30,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.created) != 1 {
		t.Fatalf("got %d creates", len(p.created))
	}
	c := p.created[0]
	if c.MerkleRoot != root || c.DataLength != 4 || c.Days != 30 {
		t.Fatalf("got %+v", c)
	}
	if len(c.Miners) != 1 || c.Miners[0].ToBytes()[0] != 0xa1 {
		t.Fatalf("got miners %v", c.Miners)
	}

	if err := l.SubmitDeleteOrder(ctx, signer, 7); err != nil {
		t.Fatal(err)
	}
	if len(p.deleted) != 1 || p.deleted[0] != 7 {
		t.Fatalf("got deletes %v", p.deleted)
	}
	for _, a := range p.signers {
		if a != signer.Address() {
			t.Fatalf("submitted as %s want %s", a, signer.Address())
		}
	}
}

func TestLedgerListOrders(t *testing.T) {
	user, err := types.NewAccountID(bytes.Repeat([]byte{0x22}, 32))
	if err != nil {
		t.Fatal(err)
	}
	miner, err := types.NewAccountID(bytes.Repeat([]byte{0x33}, 32))
	if err != nil {
		t.Fatal(err)
	}
	p := &pallet{orders: []ipse.Order{
		{Key: types.NewBytes([]byte("a")), User: *user, DataLength: 1, Days: 1},
		{Key: types.NewBytes([]byte("b")), User: *user, DataLength: 2, Miners: []types.AccountID{*miner}, Days: 2},
	}}
	l := chain.NewLedger(p, logging.New(io.Discard, 0))

	orders, err := l.ListOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders", len(orders))
	}
	o := orders[1]
	if o.ID != 1 || string(o.Key) != "b" || o.Length != 2 || o.Days != 2 {
		t.Fatalf("got %+v", o)
	}
	if !bytes.Equal(o.Owner[:], user.ToBytes()) {
		t.Fatalf("got owner %s", o.Owner)
	}
	if len(o.Miners) != 1 || o.Miners[0][31] != 0x33 {
		t.Fatalf("got miners %v", o.Miners)
	}
}

func TestLedgerMiner(t *testing.T) {
	p := new(pallet)
	l := chain.NewLedger(p, logging.New(io.Discard, 0))

	m, err := l.Miner(context.Background(), files.AccountID{0x44})
	if err != nil {
		t.Fatal(err)
	}
	if string(m.URL) != "http://miner" {
		t.Fatalf("got url %s", m.URL)
	}
	if len(p.queried) != 1 || p.queried[0].ToBytes()[0] != 0x44 {
		t.Fatalf("got queried %v", p.queried)
	}
}
