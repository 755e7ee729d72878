package main

import (
	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/internal/paths"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

var flags rootFlags

// newRootCmd creates the top-level "tally" command with global flags and
// all subcommands registered.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "A multi-window scoreboard manager",
		Long: `Tally manages games, players, rosters, and an append-only score
ledger in an embedded store, and keeps every display window's leaderboard
view consistent through a best-effort notification relay.`,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: ./"+paths.DefaultDataDirName+")")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newRelayCmd())
	root.AddCommand(newBoardCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newPurgeCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newAssetCmd())
	root.AddCommand(newScanCmd())

	return root
}
