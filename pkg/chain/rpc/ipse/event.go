package ipse

import "github.com/centrifuge/go-substrate-rpc-client/v4/types"

// EventRecords adds the assumed Ipse events to the system events.
type EventRecords struct {
	types.EventRecords
	Ipse_Registered     []EventIpseRegistered
	Ipse_CreatedOrder   []EventIpseCreatedOrder
	Ipse_DeletedOrder   []EventIpseDeletedOrder
	Ipse_ConfirmedOrder []EventIpseConfirmedOrder
}

type EventIpseRegistered struct {
	Phase  types.Phase
	Miner  types.AccountID
	Topics []types.Hash
}

type EventIpseCreatedOrder struct {
	Phase   types.Phase
	User    types.AccountID
	OrderID types.U64
	Topics  []types.Hash
}

type EventIpseDeletedOrder struct {
	Phase   types.Phase
	User    types.AccountID
	OrderID types.U64
	Topics  []types.Hash
}

type EventIpseConfirmedOrder struct {
	Phase   types.Phase
	Miner   types.AccountID
	OrderID types.U64
	Topics  []types.Hash
}
