package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/node"
	"github.com/spf13/cobra"
)

var (
	consName            string
	consFirstBlocks     int
	consFirstThreshold  uint64
	consSecondBlocks    int
	consSecondThreshold uint64
)

// consensusCmd represents the consensus command
var consensusCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Mine two chains and bring them into the same state",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := node.New(consName, workers)

		first, err := newChain("First Blockchain", n.Address(), consFirstThreshold)
		if err != nil {
			return err
		}

		second, err := newChain("Second Blockchain", n.Address(), consSecondThreshold)
		if err != nil {
			return err
		}

		for i := range max(consFirstBlocks, consSecondBlocks) {
			data := fmt.Sprintf("%d", i)

			if i < consSecondBlocks {
				if _, err := n.WriteData(cmd.Context(), second, data, ""); err != nil {
					return fmt.Errorf("writing block %d to the second chain: %w", i, err)
				}
			}

			if i < consFirstBlocks {
				if _, err := n.WriteData(cmd.Context(), first, data, ""); err != nil {
					return fmt.Errorf("writing block %d to the first chain: %w", i, err)
				}
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Last Block ID of first chain (before consensus): %d work %s\n", first.RetrieveLatestBlock().ID(), first.Work().Dec())
		fmt.Fprintf(out, "Last Block ID of second chain (before consensus): %d work %s\n", second.RetrieveLatestBlock().ID(), second.Work().Dec())

		if !second.FindConsensus(first) {
			first.FindConsensus(second)
		}

		fmt.Fprintf(out, "Last Block ID of first chain (after consensus): %d\n", first.RetrieveLatestBlock().ID())
		fmt.Fprintf(out, "Last Block ID of second chain (after consensus): %d\n", second.RetrieveLatestBlock().ID())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(consensusCmd)
	consensusCmd.Flags().StringVarP(&consName, "name", "n", "Tester", "Name of the mining node.")
	consensusCmd.Flags().IntVar(&consFirstBlocks, "first-blocks", 100, "Number of blocks to mine on the first chain.")
	consensusCmd.Flags().Uint64Var(&consFirstThreshold, "first-threshold", 10, "Diff threshold of the first chain.")
	consensusCmd.Flags().IntVar(&consSecondBlocks, "second-blocks", 80, "Number of blocks to mine on the second chain.")
	consensusCmd.Flags().Uint64Var(&consSecondThreshold, "second-threshold", 7, "Diff threshold of the second chain.")
}
