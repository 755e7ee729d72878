// Scan command: normalize badge-scanner keystrokes from stdin into
// validated tokens.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinebranch-games/tally/internal/scanner"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Read scanner keystrokes from stdin and print validated tokens",
		Long: `Scan feeds raw keystrokes through the badge-scanner normalizer: a
burst that settles for the debounce window emits one token when it is
exactly the configured length and strictly hexadecimal, and is dropped
silently otherwise. Tokens print one per line until stdin closes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			n := scanner.New(
				func(token string) { fmt.Println(token) },
				scanner.WithTokenLength(cfg.TokenLength),
				scanner.WithDebounce(cfg.ScanDebounce()),
			)

			in := bufio.NewReader(os.Stdin)
			for {
				r, _, err := in.ReadRune()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if r == '\n' || r == '\r' {
					continue
				}
				n.KeyPress(r)
			}

			// Let a trailing burst settle before exiting.
			time.Sleep(cfg.ScanDebounce() + 20*time.Millisecond)
			return nil
		},
	}
}
