package ipse

import "github.com/centrifuge/go-substrate-rpc-client/v4/types"

// Order is the assumed SCALE layout of an entry of Ipse.Orders. The runtime
// type is generic over a balance as well, a runtime carrying a price field
// fails to decode here.
type Order struct {
	Key        types.Bytes
	MerkleRoot types.H256
	User       types.AccountID
	DataLength types.U64
	Miners     []types.AccountID
	Days       types.U64
}

// Miner is the assumed SCALE layout of a value of Ipse.Miners.
type Miner struct {
	Nickname  types.Bytes
	Region    types.Bytes
	URL       types.Bytes
	Capacity  types.U64
	UnitPrice types.U128
}

// CreateOrder holds the arguments of Ipse.create_order.
type CreateOrder struct {
	Key        []byte
	MerkleRoot [32]byte
	DataLength uint64
	Miners     []types.AccountID
	Days       uint64
}
