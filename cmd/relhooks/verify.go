package main

import (
	"context"
	"fmt"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewVerifyCmd(uc *internal.VerifyConditionsUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify release conditions",
		Long:  `Check that a release can be cut: config is valid, the repository is readable and, if configured, the release branch is checked out.`,
		RunE:  makeVerifyRunner(uc),
	}

	cmd.Flags().Bool("no-repo", false, "Do not require a git repository")
	return cmd
}

func makeVerifyRunner(uc *internal.VerifyConditionsUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		noRepo, _ := cmd.Flags().GetBool("no-repo")

		return uc.Execute(cmd.Context(), internal.VerifyConditionsInput{
			Logger: e.log.Named(internal.PhaseVerify),
			Checks: verifyChecks(e, !noRepo),
		})
	}
}

func verifyChecks(e *env, requireRepo bool) []internal.Check {
	checks := []internal.Check{{
		Name: "config",
		Run:  func(context.Context) error { return e.cfg.Validate() },
	}}

	if requireRepo {
		checks = append(checks, internal.Check{
			Name: "repository",
			Run: func(context.Context) error {
				if e.repo == nil {
					return fmt.Errorf("no git repository at %s", e.root)
				}
				return nil
			},
		})
	}

	if e.cfg.Branch != "" {
		checks = append(checks, internal.Check{
			Name: "branch",
			Run: func(ctx context.Context) error {
				if e.repo == nil {
					return fmt.Errorf("cannot check branch without a repository")
				}
				current, err := e.repo.Branch(ctx)
				if err != nil {
					return err
				}
				if current != e.cfg.Branch {
					return fmt.Errorf("on branch %q, releases are cut from %q", current, e.cfg.Branch)
				}
				return nil
			},
		})
	}

	return checks
}
