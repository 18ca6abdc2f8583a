package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/spf13/cobra"
)

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address <name>",
	Short: "Print the address derived from a node name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), nameservice.Address(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
