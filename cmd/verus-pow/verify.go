package main

import (
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/verushash/pow"
	"git.gammaspectra.live/P2Pool/verushash/verus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	fasthex "github.com/tmthrgd/go-hex"
)

var errVerifyFailed = errors.New("verification failed")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a hex message against a target or difficulty",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig()
		if err != nil {
			return err
		}

		message, err := fasthex.DecodeString(viper.GetString("message"))
		if err != nil {
			return fmt.Errorf("message: %w", err)
		}

		digest := verus.Sum(message)
		ok := pow.CheckDigest(digest, config.Target)
		if _, err = fmt.Fprintf(cmd.OutOrStdout(), "digest %s\ntarget %s\nvalid  %t\n", pow.TargetFromDigest(digest), config.Target, ok); err != nil {
			return err
		}
		if !ok {
			return errVerifyFailed
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("message", "", "Message to verify, hex encoded")
	verifyCmd.Flags().String("target", "", "Big-endian target, hex encoded")
	verifyCmd.Flags().Uint64("difficulty", 0, "Difficulty, as leading zero bits")
	_ = verifyCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(verifyCmd)
}
