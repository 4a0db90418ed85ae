package files

import (
	"context"
	"encoding/hex"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
)

// AccountID is a raw sr25519 public key identifying an owner or a miner.
type AccountID [crypto.PublicKeySize]byte

func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}

// Order is one entry of the ledger's order list. ID is the entry's position
// in that list, so deleting an earlier order shifts the ID of every later
// one.
type Order struct {
	ID          uint64
	Owner       AccountID
	Key         []byte
	Fingerprint fingerprint.Digest
	Length      uint64
	Miners      []AccountID
	Days        uint64
}

type CreateOrder struct {
	Key         []byte
	Fingerprint fingerprint.Digest
	Length      uint64
	Miners      []AccountID
	Days        uint64
}

// Ledger submits and queries storage orders. Submissions return once the
// transaction is included; they do not report the id the ledger assigned.
type Ledger interface {
	SubmitCreateOrder(ctx context.Context, signer crypto.Signer, order CreateOrder) error
	SubmitDeleteOrder(ctx context.Context, signer crypto.Signer, orderID uint64) error
	// ListOrders returns the full, unfiltered order list in ledger order.
	ListOrders(ctx context.Context) ([]Order, error)
}

// Storage holds the file bytes. targetID is the order id the content
// belongs to; the backend is trusted to keep that association.
type Storage interface {
	Store(ctx context.Context, targetID uint64, data []byte) (handle string, err error)
	Fetch(ctx context.Context, handle string) ([]byte, error)
	Remove(ctx context.Context, targetID uint64) error
}
