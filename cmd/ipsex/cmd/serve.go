package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func (c *command) initServeCmd() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the file HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			n, logger, err := c.newNode(ctx, cmd)
			if err != nil {
				return err
			}
			defer n.Close()

			err = n.Serve(ctx, c.config.GetString(optionNameAPIAddr))
			if err != nil && err != context.Canceled {
				return err
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
	cmd.Flags().String(optionNameAPIAddr, ":1633", "HTTP API listen address")
	cmd.Flags().StringSlice(optionNameCORSAllowedOrigins, []string{}, "origins with CORS headers enabled")

	c.root.AddCommand(cmd)
}
