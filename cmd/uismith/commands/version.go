package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/uismith/uismith/cmd/uismith/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(build.String())
		if isVerbose() {
			fmt.Printf("  go: %s\n", runtime.Version())
			if dir, err := modelConfigDir(); err == nil {
				fmt.Printf("  config: %s\n", dir)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
