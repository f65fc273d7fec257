package main

import (
	"fmt"
	"os"
	"strings"

	"git.gammaspectra.live/P2Pool/verushash/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "verus-pow",
	Short: "Haraka proof-of-work hashing, verification and nonce search",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// flags of the running command only, several commands share flag names
		if err := bindFlags(cmd.Flags()); err != nil {
			return err
		}
		level, err := utils.ParseLogLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		utils.GlobalLogLevel = level
		utils.LogFile = viper.GetBool("log-file")
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.verus-pow/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: error, info, notice or debug")
	rootCmd.PersistentFlags().Bool("log-file", false, "Include source file and line in log lines")
}

func bindFlags(flags *pflag.FlagSet) (err error) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if err == nil {
			err = viper.BindPFlag(flag.Name, flag)
		}
	})
	return err
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Expand("~/.verus-pow")
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigName("config")
	}

	// Environment variable support, VERUS_POW_THREADS and so on
	viper.SetEnvPrefix("verus_pow")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
