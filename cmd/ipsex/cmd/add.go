package cmd

import (
	"fmt"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/handlebook"
	"github.com/spf13/cobra"
)

const (
	optionNameMiner = "miner"
	optionNameDays  = "days"
)

func (c *command) initAddCmd() {
	cmd := &cobra.Command{
		Use:   "add <key> <file>",
		Short: "Create a storage order for a file and upload it",
		Long:  "Create a storage order for a file and upload it. Use - as file to read from stdin.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			miners, err := parseMinerFlags(c.config.GetStringSlice(optionNameMiner))
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			n, logger, err := c.newNode(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer n.Close()

			key := args[0]
			handle, err := n.Files.AddFile(cmd.Context(), []byte(key), data, miners, c.config.GetUint64(optionNameDays))
			if err != nil {
				return err
			}

			if n.Book != nil {
				err = n.Book.Put(handlebook.Entry{
					Key:         key,
					Handle:      handle,
					Fingerprint: n.Files.Fingerprint(data).String(),
					Length:      uint64(len(data)),
					Owner:       n.Owner(),
					Created:     time.Now().UTC(),
				})
				if err != nil {
					logger.Warningf("record handle of %q: %v", key, err)
				}
			}

			cmd.Println(handle)
			return nil
		},
	}
	cmd.Flags().StringSlice(optionNameMiner, nil, "miner account, hex or SS58, repeatable")
	cmd.Flags().Uint64(optionNameDays, 30, "number of days to store the file")

	c.root.AddCommand(cmd)
}

func parseMinerFlags(values []string) ([]files.AccountID, error) {
	miners := make([]files.AccountID, 0, len(values))
	for _, v := range values {
		pub, err := crypto.ParseAccountID(v)
		if err != nil {
			return nil, fmt.Errorf("miner %s: %w", v, err)
		}
		miners = append(miners, files.AccountID(pub))
	}
	return miners, nil
}
