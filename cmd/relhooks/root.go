package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "relhooks",
		Short:         "Release lifecycle hooks driven by commit messages",
		Long:          `Verify, analyze, write notes, prepare and publish a release from the commits since the last tag.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("dir", "", "Repository directory (default: current directory)")
	cmd.PersistentFlags().String("config", "", "Config file (default: <repo>/.relhooks.yaml)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().Bool("log-json", false, "Emit hook logs as JSON")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func addSubcommands(root *cobra.Command, a *app) {
	root.AddCommand(
		NewInitCmd(),
		NewVerifyCmd(a.verify),
		NewAnalyzeCmd(a.analyze),
		NewNotesCmd(a.notes),
		NewPrepareCmd(a.prepare),
		NewPublishCmd(a.publish),
		NewReleaseCmd(),
		NewWatchCmd(),
	)
}
