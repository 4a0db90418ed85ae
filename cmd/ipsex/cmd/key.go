package cmd

import (
	"errors"
	"fmt"

	"github.com/FavorLabs/ipsex/pkg/node"
	"github.com/spf13/cobra"
)

const optionNameBalance = "balance"

func (c *command) initKeyCmd() {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the signer keystore",
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create the signer key, or import it from --signer-uri",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kt := c.keystore()
			name := c.config.GetString(optionNameKeyName)
			exists, err := kt.Exists(name)
			if err != nil {
				return err
			}
			uri := c.config.GetString(optionNameSignerURI)
			if exists && uri == "" {
				return fmt.Errorf("key %q already exists", name)
			}
			password, err := c.readPassword(cmd, false)
			if err != nil {
				return err
			}
			if uri != "" {
				s, err := kt.ImportURI(name, password, uri)
				if err != nil {
					return err
				}
				cmd.Println(s.Address())
				return nil
			}
			s, _, err := kt.Key(name, password)
			if err != nil {
				return err
			}
			cmd.Println(s.Address())
			if m := s.GetMnemonic(); m != "" {
				cmd.Printf("mnemonic: %s\n", m)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the address of the signer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kt := c.keystore()
			name := c.config.GetString(optionNameKeyName)
			exists, err := kt.Exists(name)
			if err != nil {
				return err
			}
			if !exists {
				return errors.New("key not found, run key new")
			}
			password, err := c.readPassword(cmd, true)
			if err != nil {
				return err
			}
			s, _, err := kt.Key(name, password)
			if err != nil {
				return err
			}
			cmd.Println(s.Address())
			pub := s.AccountID()
			cmd.Printf("public key: 0x%x\n", pub)

			if !c.config.GetBool(optionNameBalance) {
				return nil
			}
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.ledgerContext(cmd.Context())
			defer cancel()
			client, _, err := node.InitChain(ctx, logger, c.config.GetString(optionNameChainEndpoint))
			if err != nil {
				return err
			}
			defer client.Default.Close()

			balance, err := client.Default.FreeBalance(pub[:])
			if err != nil {
				return fmt.Errorf("read balance: %w", err)
			}
			cmd.Printf("free balance: %s\n", balance)
			return nil
		},
	}
	showCmd.Flags().Bool(optionNameBalance, false, "also print the free balance read from the chain")

	cmd.AddCommand(newCmd, showCmd)
	c.root.AddCommand(cmd)
}
