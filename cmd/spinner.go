package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracehq/trace-cli/internal/ctxlog"
	"github.com/tracehq/trace-cli/internal/ui"
)

var spinnerCmd = &cobra.Command{
	Use:   "spinner",
	Short: "Progress indicator utilities",
}

var spinnerDemoCmd = &cobra.Command{
	Use:         "demo",
	Short:       "Show the available progress indicator styles",
	Annotations: map[string]string{skipEnvAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		duration, _ := cmd.Flags().GetDuration("duration")

		names := ui.StyleNames()
		if style != "" {
			if !ui.IsStyle(style) {
				return fmt.Errorf("unknown style %q (available: %v)", style, names)
			}
			names = []string{style}
		}

		w := cmd.OutOrStdout()
		for _, name := range names {
			s := ui.New("Testing "+name+" style",
				ui.WithStyle(name),
				ui.WithOutput(w),
				ui.WithLogger(ctxlog.FromContext(cmd.Context())),
			)
			s.Start()
			select {
			case <-cmd.Context().Done():
				s.Stop()
				return cmd.Context().Err()
			case <-time.After(duration):
			}
			s.Stop()
			fmt.Fprintf(w, "✓ %s complete\n", name)
		}
		return nil
	},
}

func init() {
	spinnerDemoCmd.Flags().String("style", "", "only show this style")
	spinnerDemoCmd.Flags().Duration("duration", 2*time.Second, "how long each style animates")

	spinnerCmd.AddCommand(spinnerDemoCmd)
	rootCmd.AddCommand(spinnerCmd)
}
