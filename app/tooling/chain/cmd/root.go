// Package cmd contains the chain tooling app.
package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	unit     string
	tryLimit uint64
	workers  int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "chain",
	Short:        "Mine and compare in memory proof of work chains",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log chain events to stderr.")
	rootCmd.PersistentFlags().StringVarP(&unit, "unit", "u", "bit", "What one unit of difficulty counts: hex or bit.")
	rootCmd.PersistentFlags().Uint64VarP(&tryLimit, "try-limit", "l", 100_000, "Number of nonces tried for one block.")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 10, "Number of goroutines mining a block.")
}

// newChain constructs a chain created by the specified address.
func newChain(data string, creatorAddr string, threshold uint64) (*state.State, error) {
	g := genesis.Default()
	g.Data = data
	g.CreatorAddr = creatorAddr
	g.DiffThreshold = threshold
	g.TryLimit = tryLimit
	g.Unit = unit

	cfg := state.Config{
		Genesis: g,
	}

	if verbose {
		log, err := logger.New("CHAIN", "stderr")
		if err != nil {
			return nil, err
		}

		cfg.EvHandler = func(v string, args ...any) {
			log.Infow(fmt.Sprintf(v, args...))
		}
	}

	return state.New(cfg)
}
