package base

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// AccountInfo reads System.Account for the given public key. Unknown
// accounts come back zero valued.
func (s *SubstrateAPI) AccountInfo(publicKey []byte) (info types.AccountInfo, err error) {
	key, err := types.CreateStorageKey(s.Meta, "System", "Account", publicKey)
	if err != nil {
		return info, err
	}
	_, err = s.RPC.State.GetStorageLatest(key, &info)
	return info, err
}

func (s *SubstrateAPI) FreeBalance(publicKey []byte) (*big.Int, error) {
	info, err := s.AccountInfo(publicKey)
	if err != nil {
		return nil, err
	}
	if info.Data.Free.Int == nil {
		return big.NewInt(0), nil
	}
	return info.Data.Free.Int, nil
}
