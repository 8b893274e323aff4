package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/uismith/uismith/pkg/cli"
)

var modelsFlags struct {
	format string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured provider/model routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, routes, err := loadProviders()
		if err != nil {
			return err
		}
		sort.Strings(routes)
		return cli.Output(map[string]any{"models": routes}, cli.OutputOptions{
			Format: cli.OutputFormat(modelsFlags.format),
		})
	},
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsFlags.format, "output", "O", "yaml", "output format (yaml, json)")
	rootCmd.AddCommand(modelsCmd)
}
