package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracehq/trace-cli/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{skipEnvAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trace %s (%s build)\n", Version, config.BuildMode)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
