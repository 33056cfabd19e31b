package main

import (
	"fmt"
	"os"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  `Create .relhooks.yaml in the repository root with the default settings.`,
		RunE:  makeInitRunner(),
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func makeInitRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")

		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			dir = cwd
		}
		if repo, err := internal.OpenGitRepository(dir); err == nil {
			dir = repo.Root()
		}

		path := internal.ConfigPath(dir)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
		}

		if err := internal.SaveConfig(path, internal.DefaultConfig()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}
}
