package main

import (
	"errors"
	"fmt"
	"io"

	"git.gammaspectra.live/P2Pool/verushash/notify"
	"git.gammaspectra.live/P2Pool/verushash/utils"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Re-verify JSON solutions read from standard input",
	Long: `Reads a stream of JSON solutions, as printed by mine, from standard input.
Each one has its digest recomputed and checked against its target.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		decoder := utils.NewJSONDecoder(cmd.InOrStdin())
		for {
			var solution notify.Solution
			if err := decoder.Decode(&solution); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return fmt.Errorf("decode solution: %w", err)
			}

			if err := solution.Verify(); err != nil {
				utils.Errorf("Check", "challenge %s, identity %s: %s", solution.Challenge, solution.Identity, err)
				failed++
				if _, err = fmt.Fprintf(cmd.OutOrStdout(), "nonce %d invalid\n", solution.Nonce); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "nonce %d valid\n", solution.Nonce); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d solutions: %w", failed, errVerifyFailed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
