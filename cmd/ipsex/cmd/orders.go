package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *command) initOrdersCmd() {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the storage orders owned by the signer",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			n, _, err := c.newNode(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer n.Close()

			orders, err := n.Files.Orders(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKEY\tLENGTH\tDAYS\tMINERS\tFINGERPRINT")
			for _, o := range orders {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", o.ID, o.Key, o.Length, o.Days, len(o.Miners), o.Fingerprint)
			}
			return w.Flush()
		},
	}

	c.root.AddCommand(cmd)
}
