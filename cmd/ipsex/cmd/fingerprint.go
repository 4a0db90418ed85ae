package cmd

import (
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/spf13/cobra"
)

func (c *command) initFingerprintCmd() {
	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the content fingerprint of a file",
		Long:  "Print the content fingerprint of a file without contacting the ledger. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := fingerprint.New(c.fingerprintOptions())
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			cmd.Println(f.Sum(data).String())
			return nil
		},
	}

	c.root.AddCommand(cmd)
}
