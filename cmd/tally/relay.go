// Relay command: run the cross-window notification relay.
package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/internal/bus"
)

func newRelayCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the cross-window notification relay",
		Long: `Relay runs the process-wide broadcast hub. Every window connects to
it and every published change event is echoed to every window, the
sender included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				addr = cfg.RelayAddr
			}
			return bus.NewRelay(slog.Default()).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
