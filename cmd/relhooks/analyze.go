package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewAnalyzeCmd(uc *internal.AnalyzeCommitsUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Decide the release type from commit messages",
		Long:  `Print "minor" if any commit starts with "feat", "patch" if any starts with "fix", otherwise "none".`,
		RunE:  makeAnalyzeRunner(uc),
	}

	addCommitsFlag(cmd)
	return cmd
}

func makeAnalyzeRunner(uc *internal.AnalyzeCommitsUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		commits, err := e.commits(cmd)
		if err != nil {
			e.log.Named(internal.PhaseAnalyze).Error("❌ Error analyzing commits.")
			return err
		}

		typ, err := uc.Execute(cmd.Context(), internal.AnalyzeCommitsInput{
			Commits: commits,
			Logger:  e.log.Named(internal.PhaseAnalyze),
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"release_type": typ.String(),
				"commits":      len(commits),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), typ.String())
		return nil
	}
}
