package cmd

import (
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/node"
	"github.com/spf13/cobra"
)

func (c *command) initMinerCmd() {
	cmd := &cobra.Command{
		Use:   "miner <account>",
		Short: "Show the registration of a storage miner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			pub, err := crypto.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.ledgerContext(cmd.Context())
			defer cancel()

			client, ledger, err := node.InitChain(ctx, logger, c.config.GetString(optionNameChainEndpoint))
			if err != nil {
				return err
			}
			defer client.Default.Close()

			m, err := ledger.Miner(ctx, files.AccountID(pub))
			if err != nil {
				return err
			}
			cmd.Printf("nickname:   %s\n", m.Nickname)
			cmd.Printf("region:     %s\n", m.Region)
			cmd.Printf("url:        %s\n", m.URL)
			cmd.Printf("capacity:   %d\n", m.Capacity)
			cmd.Printf("unit price: %s\n", m.UnitPrice.String())
			return nil
		},
	}

	c.root.AddCommand(cmd)
}
