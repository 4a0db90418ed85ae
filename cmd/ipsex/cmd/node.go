package cmd

import (
	"context"
	"strings"

	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/FavorLabs/ipsex/pkg/node"
	"github.com/spf13/cobra"
)

// newNode builds the signer and the file stack from the configuration.
func (c *command) newNode(ctx context.Context, cmd *cobra.Command) (*node.Node, logging.Logger, error) {
	logger, err := c.newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	signer, err := c.configureSigner(cmd, logger)
	if err != nil {
		return nil, nil, err
	}

	var origins []string
	for _, o := range c.config.GetStringSlice(optionNameCORSAllowedOrigins) {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	n, err := node.New(ctx, signer, node.Options{
		ChainEndpoint:      c.config.GetString(optionNameChainEndpoint),
		MinerURL:           c.config.GetString(optionNameMinerURL),
		IPFSURL:            c.config.GetString(optionNameIPFSURL),
		DataDir:            c.config.GetString(optionNameDataDir),
		RequestTimeout:     c.requestTimeout(),
		LedgerTimeout:      c.ledgerTimeout(),
		Fingerprint:        c.fingerprintOptions(),
		CORSAllowedOrigins: origins,
		Logger:             logger,
		Ledger:             c.ledger,
	})
	if err != nil {
		return nil, nil, err
	}
	return n, logger, nil
}

// ledgerContext bounds direct chain calls made outside the node.
func (c *command) ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	d := c.ledgerTimeout()
	if d < 0 {
		return context.WithCancel(ctx)
	}
	if d == 0 {
		d = node.DefaultLedgerTimeout
	}
	return context.WithTimeout(ctx, d)
}
