package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/FavorLabs/ipsex/pkg/handlebook"
	"github.com/spf13/cobra"
)

const (
	optionNameKey    = "key"
	optionNameOutput = "output"
)

func (c *command) initGetCmd() {
	cmd := &cobra.Command{
		Use:   "get [handle]",
		Short: "Download a file by its storage handle",
		Long:  "Download a file by its storage handle, or by --key when the handle was recorded locally.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			key := c.config.GetString(optionNameKey)
			if len(args) == 0 && key == "" {
				return errors.New("handle or --key required")
			}

			n, _, err := c.newNode(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer n.Close()

			var handle string
			if len(args) > 0 {
				handle = args[0]
			} else {
				if n.Book == nil {
					return errors.New("handle book disabled, pass the handle")
				}
				e, err := n.Book.Get(n.Owner(), key)
				if err != nil {
					if errors.Is(err, handlebook.ErrNotFound) {
						return fmt.Errorf("no handle recorded for key %q", key)
					}
					return err
				}
				handle = e.Handle
			}

			data, err := n.Files.GetFile(cmd.Context(), handle)
			if err != nil {
				return err
			}

			if out := c.config.GetString(optionNameOutput); out != "" && out != "-" {
				return os.WriteFile(out, data, 0644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String(optionNameKey, "", "resolve the handle of this key from the handle book")
	cmd.Flags().StringP(optionNameOutput, "o", "-", "output file, - for stdout")

	c.root.AddCommand(cmd)
}
