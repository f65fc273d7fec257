package main

import (
	"fmt"
	"strconv"

	"git.gammaspectra.live/P2Pool/verushash/pow"
	"git.gammaspectra.live/P2Pool/verushash/utils"
	"github.com/spf13/cobra"
)

var targetCmd = &cobra.Command{
	Use:   "target <difficulty>",
	Short: "Print the big-endian target for a difficulty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("difficulty: %w", err)
		}
		target := pow.DifficultyToTarget(difficulty)
		utils.Debugf("Target", "difficulty %d needs %s hashes on average", difficulty, pow.ExpectedHashes(difficulty))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), target)
		return err
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
}
