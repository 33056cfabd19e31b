package main

import (
	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewPublishCmd(uc *internal.PublishUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the release",
		Long:  `Announce the release. Nothing is pushed to a remote or registry.`,
		RunE:  makePublishRunner(uc),
	}

	addCommitsFlag(cmd)
	addReleaseVersionFlag(cmd)
	return cmd
}

func makePublishRunner(uc *internal.PublishUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		log := e.log.Named(internal.PhasePublish)

		next, err := releaseForCommand(cmd, e)
		if err != nil {
			log.Error("❌ Publish failed.")
			return err
		}

		return uc.Execute(cmd.Context(), internal.PublishInput{
			NextRelease: next,
			Logger:      log,
		})
	}
}
