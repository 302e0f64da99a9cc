// Package cli implements ppgictl, a terminal client for interpreting PPGI
// predictions.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	outputHuman = "human"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// NewRootCmd builds the ppgictl command tree.
func NewRootCmd(version string) *cobra.Command {
	var output string

	rootCmd := &cobra.Command{
		Use:   "ppgictl",
		Short: "Interpret postprandial glycemic index predictions",
		Long: `ppgictl talks to a PPGI prediction service and explains its answer:
the glycemic index band, the glycemic load band and a personal range
widened by diabetes risk factors.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputHuman, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (human, json, yaml)", output)
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputHuman, "Output format (human, json, yaml)")

	rootCmd.AddCommand(
		newInterpretCmd(&output),
		newPredictCmd(&output),
		newFoodsCmd(&output),
		newVersionCmd(version),
	)
	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ppgictl version %s\n", version)
		},
	}
}
