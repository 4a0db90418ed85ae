package node

import (
	"context"
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/chain"
	"github.com/FavorLabs/ipsex/pkg/logging"
)

// InitChain connects to the substrate node at endpoint and returns the
// client together with the ledger backed by it.
func InitChain(ctx context.Context, logger logging.Logger, endpoint string) (*chain.Client, *chain.Ledger, error) {
	if endpoint == "" {
		return nil, nil, fmt.Errorf("chain endpoint is empty")
	}
	client, err := chain.NewClient(ctx, endpoint)
	if err != nil {
		logger.Infof("could not connect to the chain at %v, check the node or specify another one using --chain-endpoint", endpoint)
		return nil, nil, fmt.Errorf("dial substrate client: %w", err)
	}
	return client, chain.NewLedger(client.Ipse, logger), nil
}
