// Score commands: append ledger rows, print leaderboards, purge units.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/internal/bus"
	"github.com/pinebranch-games/tally/pkg/types"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <game> <player> <unit-id> <unit-type> <datum>",
		Short: "Append a score to the ledger",
		Long: `Score appends one row to the append-only ledger and re-derives the
game's leaderboard. The change is announced to sibling windows through
the relay when one is reachable; notification is best-effort.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unit-id %q", args[2])
			}
			datum, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid datum %q", args[4])
			}

			w, err := openWindow()
			if err != nil {
				fmt.Fprintln(os.Stderr, "score:", err)
				os.Exit(exitSysError)
			}
			defer w.close()

			rec := &types.ScoreRecord{
				Game:     args[0],
				Player:   args[1],
				UnitID:   unitID,
				UnitType: args[3],
				Datum:    datum,
			}
			projection, err := w.engine.AddScore(rec)
			if err != nil {
				return fmt.Errorf("add score: %w", err)
			}

			announce(w.cfg, rec.Game)
			return printJSON(projection)
		},
	}
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <game>",
		Short: "Print the current leaderboard for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			projection, err := w.engine.CurrentScores(args[0])
			if err != nil {
				return fmt.Errorf("current scores: %w", err)
			}
			return printJSON(projection)
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <game> <unit-id>",
		Short: "Delete every ledger row for a scoring unit",
		Long: `Purge removes all ledger rows for one scoring unit within a game.
This is irreversible.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unit-id %q", args[1])
			}

			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			if err := w.engine.PurgeUnit(unitID, args[0]); err != nil {
				return fmt.Errorf("purge unit: %w", err)
			}

			announce(w.cfg, args[0])
			fmt.Println("purged unit", unitID, "from", args[0])
			return nil
		},
	}
}

// announce publishes a change event for the game through the relay.
// Failure to reach the relay is logged and otherwise ignored; the local
// write has already succeeded.
func announce(cfg types.Config, gameID string) {
	transport, err := bus.DialRelay("ws://"+cfg.RelayAddr+"/bus", nil)
	if err != nil {
		slog.Warn("relay unreachable; change not announced", "gameId", gameID, "error", err)
		return
	}
	defer transport.Close()

	b := bus.New(transport, cfg.CoalesceDelay(), nil)
	b.Publish(gameID, nil)
}
