// Init command: create the data directory and database schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the scoreboard database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			fmt.Println("initialized", w.cfg.DataDir)
			return nil
		},
	}
}
