package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VERSION is stamped by the release build.
var VERSION = "v0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", VERSION)
	},
}
