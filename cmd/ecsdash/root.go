// File: cmd/ecsdash/root.go
package main

import (
	"context"
	"fmt"
	"os"

	"ecsdash/internal/flags"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	debug      bool
}

// Commands annotated with this key run without loading the configuration
const skipAppAnnotation = "ecsdash/skip-app"

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "ecsdash",
		Short: "ecsdash serves a container health and storage dashboard.",
		Long: `A small web dashboard for containers running on ECS Fargate. It reports
process and host health, the AWS environment the task runs in, and the
storage buckets visible to the task role, enriched with region, versioning
and age.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, skip := cmd.Annotations[skipAppAnnotation]; skip {
				return nil
			}

			app, err := newApp(rf.configPath, rf.debug, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			cmd.SetContext(withApp(cmd.Context(), app))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&rf.configPath, flags.Config, flags.ConfigShort, "", "Path to the config file (default $HOME/.config/ecsdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&rf.debug, flags.Debug, flags.DebugShort, false, "Enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newBucketsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Runs the root command and returns the process exit code
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
