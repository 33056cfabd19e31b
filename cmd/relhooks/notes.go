package main

import (
	"fmt"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewNotesCmd(uc *internal.GenerateNotesUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Generate release notes",
		Long:  `Render a markdown section with the version header and one bullet per commit.`,
		RunE:  makeNotesRunner(uc),
	}

	addCommitsFlag(cmd)
	addReleaseVersionFlag(cmd)
	return cmd
}

func makeNotesRunner(uc *internal.GenerateNotesUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		log := e.log.Named(internal.PhaseNotes)

		commits, err := e.commits(cmd)
		if err != nil {
			log.Error("❌ Failed to generate release notes.")
			return err
		}

		next, err := e.nextRelease(cmd, commits)
		if err != nil {
			log.Error("❌ Failed to generate release notes.")
			return err
		}

		notes, err := uc.Execute(cmd.Context(), internal.GenerateNotesInput{
			Commits:     commits,
			NextRelease: next,
			Logger:      log,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), notes)
		return nil
	}
}
