package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/node"
	"github.com/spf13/cobra"
)

var (
	mineName      string
	mineData      string
	mineBlocks    int
	mineThreshold uint64
	mineLast      uint64
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine blocks on a new chain and print the last payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := node.New(mineName, workers)

		chain, err := newChain(mineData, n.Address(), mineThreshold)
		if err != nil {
			return err
		}

		for i := range mineBlocks {
			if _, err := n.WriteData(cmd.Context(), chain, fmt.Sprintf("Hello %d", i), ""); err != nil {
				return fmt.Errorf("writing block %d: %w", i, err)
			}
		}

		data, err := n.ReadDataByRange(chain, min(mineLast, chain.LedgerSize()))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "chain %s: blocks %d: difficulty %d\n", chain.ID(), chain.LedgerSize(), chain.Difficulty())
		fmt.Fprintln(out, data)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&mineName, "name", "n", "Some user name to be hashed", "Name of the mining node.")
	mineCmd.Flags().StringVarP(&mineData, "data", "d", "Fiat Lux!", "Payload of the genesis block.")
	mineCmd.Flags().IntVarP(&mineBlocks, "blocks", "b", 100, "Number of blocks to mine.")
	mineCmd.Flags().Uint64VarP(&mineThreshold, "threshold", "t", 7, "Number of blocks after which the difficulty is raised.")
	mineCmd.Flags().Uint64Var(&mineLast, "last", 5, "Number of payloads to print.")
}
