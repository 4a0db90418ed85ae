package base

import (
	"bytes"
	"context"

	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// CheckExtrinsicInterface inspects the events of the block an extrinsic was
// included in and reports a dispatch failure as an error.
type CheckExtrinsicInterface interface {
	CheckExtrinsic(block types.Hash, ext types.Extrinsic) error
}

// SubmitExtrinsicAndWatch signs call with signer, submits it and waits until
// it is included in a block. The inclusion block is then handed to checker.
func (s *SubstrateAPI) SubmitExtrinsicAndWatch(ctx context.Context, signer signature.KeyringPair, call types.Call, checker CheckExtrinsicInterface) error {
	ext, sub, err := s.submit(ctx, signer, call)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return err
		case status := <-sub.Chan():
			switch {
			case status.IsInBlock:
				logging.Debugf("extrinsic from %s included in block %s", signer.Address, status.AsInBlock.Hex())
				return checker.CheckExtrinsic(status.AsInBlock, ext)
			case status.IsFinalized:
				return checker.CheckExtrinsic(status.AsFinalized, ext)
			case status.IsDropped:
				return ExtrinsicDroppedError
			case status.IsInvalid:
				return ExtrinsicInvalidError
			case status.IsUsurped:
				return ExtrinsicUsurpedError
			case status.IsFinalityTimeout:
				return ExtrinsicTimeoutError
			}
		}
	}
}

type extrinsicSubscription interface {
	Chan() <-chan types.ExtrinsicStatus
	Err() <-chan error
	Unsubscribe()
}

func (s *SubstrateAPI) submit(ctx context.Context, signer signature.KeyringPair, call types.Call) (types.Extrinsic, extrinsicSubscription, error) {
	ext := types.NewExtrinsic(call)

	genesisHash, err := s.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return ext, nil, err
	}
	rv, err := s.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return ext, nil, err
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	// the pool aware nonce, System.Account lags behind pending transactions
	var nonce uint32
	if err := s.Client.CallContext(ctx, &nonce, "system_accountNextIndex", signer.Address); err != nil {
		return ext, nil, err
	}

	o := types.SignatureOptions{
		BlockHash:          genesisHash,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        genesisHash,
		Nonce:              types.NewUCompactFromUInt(uint64(nonce)),
		SpecVersion:        rv.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: rv.TransactionVersion,
	}
	if err := ext.Sign(signer, o); err != nil {
		return ext, nil, err
	}

	sub, err := s.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return ext, nil, err
	}
	return ext, sub, nil
}

// GetExtrinsicIndex returns the position of the JSON encoded extrinsic in
// block.
func (s *SubstrateAPI) GetExtrinsicIndex(block types.Hash, ext []byte) (int, error) {
	b, err := s.RPC.Chain.GetBlock(block)
	if err != nil {
		return -1, err
	}
	for i, e := range b.Block.Extrinsics {
		j, err := e.MarshalJSON()
		if err != nil {
			return -1, err
		}
		if bytes.Equal(j, ext) {
			return i, nil
		}
	}
	return -1, ExtrinsicNotFoundError
}

func (s *SubstrateAPI) GetEventRecordsRaw(block types.Hash) (types.EventRecordsRaw, error) {
	key, err := types.CreateStorageKey(s.Meta, "System", "Events", nil)
	if err != nil {
		return nil, err
	}
	raw, err := s.RPC.State.GetStorageRaw(key, block)
	if err != nil {
		return nil, err
	}
	return types.EventRecordsRaw(*raw), nil
}

// DispatchError maps a failed dispatch to an error. moduleErr converts
// errors raised by a pallet.
func DispatchError(de types.DispatchError, moduleErr func(types.ModuleError) error) error {
	switch {
	case de.IsModule:
		return moduleErr(de.ModuleError)
	case de.IsToken:
		return TokenError
	case de.IsArithmetic:
		return ArithmeticError
	case de.IsTransactional:
		return TransactionalError
	}
	return NotMatchModelError
}
