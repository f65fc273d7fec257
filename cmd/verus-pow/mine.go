package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.gammaspectra.live/P2Pool/verushash/notify"
	"git.gammaspectra.live/P2Pool/verushash/pow"
	"git.gammaspectra.live/P2Pool/verushash/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Search the lowest nonce passing the target for a challenge and identity",
	Args:  cobra.NoArgs,
	RunE:  Mine,
}

func init() {
	SetupMineFlags(mineCmd)
	rootCmd.AddCommand(mineCmd)
}

func SetupMineFlags(cmd *cobra.Command) {
	cmd.Flags().String("challenge", "", "Challenge, hex encoded")
	cmd.Flags().String("identity", "", "ed25519 public key of the solver, hex encoded")
	cmd.Flags().Uint64("difficulty", 0, "Difficulty, as leading zero bits")
	cmd.Flags().String("target", "", "Big-endian target, hex encoded. Mutually exclusive with --difficulty")
	cmd.Flags().Uint64("start", 0, "First nonce to try")
	cmd.Flags().Int("threads", 0, "Worker goroutines, zero or negative is relative to the CPU count")
	cmd.Flags().Uint64("batch-size", pow.DefaultBatchSize, "Nonces claimed by a worker at once")
	cmd.Flags().Duration("timeout", 0, "Give up after this long, zero waits forever")
	cmd.Flags().Duration("report-interval", 10*time.Second, "Hashrate log interval, zero disables it")
	cmd.Flags().String("zmq-publish", "", "Publish the solution on this ZeroMQ endpoint, for example tcp://127.0.0.1:18090")
	cmd.Flags().String("metrics-listen", "", "Serve Prometheus metrics on this address, for example 127.0.0.1:9100")
	_ = cmd.MarkFlagRequired("challenge")
	_ = cmd.MarkFlagRequired("identity")
}

func Mine(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.MetricsListen != "" {
		server := serveMetrics(config.MetricsListen)
		defer server.Close()
	}

	var publisher *notify.Publisher
	if config.ZMQPublish != "" {
		if publisher, err = notify.NewPublisher(ctx, config.ZMQPublish); err != nil {
			return err
		}
		defer publisher.Close()
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	searcher := pow.NewSearcher(config.Threads)
	searcher.BatchSize = config.BatchSize
	searcher.ReportInterval = config.ReportInterval

	prefix := pow.PrefixFor(config.Challenge, config.Identity)

	utils.Logf("Mine", "challenge %s, identity %s, difficulty %d (~%s hashes), target %s", config.Challenge, config.Identity, config.Difficulty, pow.ExpectedHashes(config.Difficulty), config.Target)
	utils.Logf("Mine", "searching from nonce %d with %d threads", config.Start, utils.Routines(config.Threads))

	nonce, digest, err := searcher.Search(ctx, &prefix, config.Start, config.Target)
	elapsed := searcher.Elapsed()
	if err != nil {
		utils.Errorf("Mine", "search ended after %d hashes in %s: %s", searcher.Hashes(), elapsed, err)
		return err
	}
	utils.Logf("Mine", "found nonce %d after %d hashes in %s, %s", nonce, searcher.Hashes(), elapsed.Round(time.Millisecond), utils.HashRate(searcher.Hashes(), elapsed))

	solution := &notify.Solution{
		Challenge:  config.Challenge,
		Identity:   config.Identity,
		Nonce:      nonce,
		Digest:     digest,
		Difficulty: config.Difficulty,
		Target:     config.Target,
		Timestamp:  time.Now().Unix(),
	}

	if publisher != nil {
		if err = publisher.Publish(solution); err != nil {
			utils.Errorf("Mine", "publish: %s", err)
		}
	}

	return utils.NewJSONEncoder(cmd.OutOrStdout()).Encode(solution)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Errorf("Metrics", "listen %s: %s", addr, err)
		}
	}()
	return server
}
