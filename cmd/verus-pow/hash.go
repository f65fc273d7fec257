package main

import (
	"fmt"
	"strings"

	"git.gammaspectra.live/P2Pool/verushash/verus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	fasthex "github.com/tmthrgd/go-hex"
)

var hashCmd = &cobra.Command{
	Use:   "hash [input]",
	Short: "Print the digest of input",
	Long: `Prints the hex digest of input. Input without any hex digit is hashed as ASCII,
otherwise it is decoded as hex with optional ':' or ' ' separators.
Text containing a hex letter, such as "hello", fails to decode and is rejected;
pass --ascii to hash it as ASCII.
Without input, the 80-byte header 00 01 .. 4f is hashed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg *string
		if len(args) > 0 {
			arg = &args[0]
		}
		input, err := parseInput(arg, viper.GetBool("ascii"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), verus.Sum(input))
		return err
	},
}

func init() {
	hashCmd.Flags().Bool("ascii", false, "Always hash input as ASCII")
	rootCmd.AddCommand(hashCmd)
}

func defaultInput() []byte {
	input := make([]byte, 80)
	for i := range input {
		input[i] = byte(i)
	}
	return input
}

func parseInput(arg *string, ascii bool) ([]byte, error) {
	if arg == nil {
		return defaultInput(), nil
	}
	s := *arg
	if ascii || !strings.ContainsAny(s, "0123456789abcdefABCDEF: ") {
		return []byte(s), nil
	}

	s = strings.NewReplacer(":", "", " ", "").Replace(s)
	input, err := fasthex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", *arg, err)
	}
	return input, nil
}
