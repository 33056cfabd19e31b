package main

import (
	"fmt"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewPrepareCmd(uc *internal.PrepareUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Write the VERSION file and CI summary",
		Long:  `Overwrite the version marker file and, when the CI summary variable is set, append the release summary.`,
		RunE:  makePrepareRunner(uc),
	}

	addCommitsFlag(cmd)
	addReleaseVersionFlag(cmd)
	cmd.Flags().Bool("dry-run", false, "Show the version file change without writing")
	return cmd
}

func makePrepareRunner(uc *internal.PrepareUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		log := e.log.Named(internal.PhasePrepare)

		next, err := releaseForCommand(cmd, e)
		if err != nil {
			log.Error("❌ Failed to prepare release.")
			return err
		}

		versionFile := e.cfg.VersionFilePath(e.root)
		if dryRun && next != nil {
			preview, err := internal.PreviewVersionFile(versionFile, next.Version)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), preview)
			return nil
		}

		return uc.Execute(cmd.Context(), internal.PrepareInput{
			NextRelease:         next,
			VersionFile:         versionFile,
			SummaryPath:         e.cfg.SummaryPath(),
			PlainSummaryVersion: !e.cfg.EscapeSummary(),
			Logger:              log,
		})
	}
}

// releaseForCommand skips reading commits when the version or the release
// type is given.
func releaseForCommand(cmd *cobra.Command, e *env) (*internal.NextRelease, error) {
	v, _ := cmd.Flags().GetString("release-version")
	typ, _ := cmd.Flags().GetString("type")
	if v != "" || typ != "" {
		return e.nextRelease(cmd, nil)
	}

	commits, err := e.commits(cmd)
	if err != nil {
		return nil, err
	}
	return e.nextRelease(cmd, commits)
}
