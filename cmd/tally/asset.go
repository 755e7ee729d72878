// Asset commands: store, show, and delete binary asset payloads.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/internal/assetcache"
)

func newAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage binary assets (backgrounds, avatars)",
	}
	cmd.AddCommand(newAssetStoreCmd())
	cmd.AddCommand(newAssetShowCmd())
	cmd.AddCommand(newAssetDeleteCmd())
	return cmd
}

func newAssetStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store <name> <file>",
		Short: "Store a file's contents as a named asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read asset file: %w", err)
			}

			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			if err := w.backend.StoreAsset(args[0], data); err != nil {
				return fmt.Errorf("store asset: %w", err)
			}
			fmt.Println("stored", args[0], fmt.Sprintf("(%d bytes)", len(data)))
			return nil
		},
	}
}

func newAssetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print an asset payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			cache := assetcache.New(w.backend.FetchAsset,
				assetcache.WithTTL(w.cfg.CacheTTL()),
				assetcache.WithCeiling(w.cfg.CacheCeilingBytes))
			payload := cache.Get(args[0])
			if payload == "" {
				return fmt.Errorf("asset %q not found", args[0])
			}
			fmt.Println(payload)
			return nil
		},
	}
}

func newAssetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWindow()
			if err != nil {
				return err
			}
			defer w.close()

			if err := w.backend.DeleteAsset(args[0]); err != nil {
				return fmt.Errorf("delete asset: %w", err)
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}
