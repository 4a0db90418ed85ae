package cmd

import (
	"github.com/spf13/cobra"
)

func (c *command) initDeleteCmd() {
	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete the storage order of a key and its stored content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			n, logger, err := c.newNode(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer n.Close()

			key := args[0]
			if err := n.Files.DeleteFile(cmd.Context(), []byte(key)); err != nil {
				return err
			}
			if n.Book != nil {
				if err := n.Book.Delete(n.Owner(), key); err != nil {
					logger.Warningf("drop handle of %q: %v", key, err)
				}
			}
			cmd.Printf("deleted %s\n", key)
			return nil
		},
	}

	c.root.AddCommand(cmd)
}
