package main

import (
	"errors"
	"fmt"
	"time"

	"git.gammaspectra.live/P2Pool/verushash/pow"
	"github.com/spf13/viper"
)

type Config struct {
	// Target
	Difficulty uint64
	Target     pow.Target

	// Search
	Challenge      pow.Challenge
	Identity       pow.Identity
	Start          uint64
	Threads        int
	BatchSize      uint64
	Timeout        time.Duration
	ReportInterval time.Duration

	// Outputs
	ZMQPublish    string
	MetricsListen string
}

// LoadConfig reads the typed configuration out of flags, environment and config file
func LoadConfig() (*Config, error) {
	config := Config{}

	config.Difficulty = viper.GetUint64("difficulty")
	config.Target = pow.DifficultyToTarget(config.Difficulty)
	if s := viper.GetString("target"); s != "" {
		if viper.IsSet("difficulty") {
			return nil, errors.New("--target and --difficulty are mutually exclusive")
		}
		target, err := pow.TargetFromString(s)
		if err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
		config.Target = target
		config.Difficulty = target.Difficulty()
	}

	if s := viper.GetString("challenge"); s != "" {
		challenge, err := pow.ChallengeFromString(s)
		if err != nil {
			return nil, fmt.Errorf("challenge: %w", err)
		}
		config.Challenge = challenge
	}

	if s := viper.GetString("identity"); s != "" {
		identity, err := pow.IdentityFromString(s)
		if err != nil {
			return nil, fmt.Errorf("identity: %w", err)
		}
		if err = identity.Validate(); err != nil {
			return nil, fmt.Errorf("identity %s: %w", identity, err)
		}
		config.Identity = identity
	}

	config.Start = viper.GetUint64("start")
	config.Threads = viper.GetInt("threads")
	config.BatchSize = viper.GetUint64("batch-size")
	if config.BatchSize == 0 {
		config.BatchSize = pow.DefaultBatchSize
	}
	config.Timeout = viper.GetDuration("timeout")
	config.ReportInterval = viper.GetDuration("report-interval")

	config.ZMQPublish = viper.GetString("zmq-publish")
	config.MetricsListen = viper.GetString("metrics-listen")

	return &config, nil
}
