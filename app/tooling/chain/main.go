// This program runs mining and consensus walkthroughs against in memory chains.
package main

import "github.com/ardanlabs/powchain/app/tooling/chain/cmd"

func main() {
	cmd.Execute()
}
