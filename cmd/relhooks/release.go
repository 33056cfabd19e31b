package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/4thel00z/relhooks/internal"
	"github.com/spf13/cobra"
)

func NewReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run every hook in order",
		Long:  `Verify conditions, analyze commits, then generate notes, prepare and publish when a release is due.`,
		RunE:  makeReleaseRunner(),
	}

	addCommitsFlag(cmd)
	cmd.Flags().Bool("dry-run", false, "Stop before prepare and show what would change")
	return cmd
}

func makeReleaseRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.sync()

		input := internal.ReleaseInput{Root: e.root, Config: e.cfg, DryRun: dryRun}

		source := e.source
		var tagger internal.Tagger
		if e.repo != nil {
			tagger = e.repo
		}

		if path, _ := cmd.Flags().GetString("commits"); path != "" {
			commits, err := readCommitsFile(cmd, path)
			if err != nil {
				return err
			}
			input.Commits = commits
			if source == nil {
				source = internal.StaticSource{Commits: commits}
			}
		}
		if source == nil {
			return fmt.Errorf("no git repository at %s and no --commits given", e.root)
		}

		out, err := internal.NewReleaseUseCase(source, tagger, e.log).Execute(cmd.Context(), input)
		if err != nil {
			return err
		}

		if asJSON {
			return outputReleaseJSON(cmd, out, dryRun)
		}

		w := cmd.OutOrStdout()
		if out.NextRelease == nil {
			fmt.Fprintln(w, "No release needed")
			return nil
		}
		if dryRun {
			fmt.Fprintf(w, "Would release %s (%s)\n\n", out.NextRelease.Version, out.Type)
			printCommits(w, out.Commits)
			fmt.Fprintln(w)
			fmt.Fprint(w, out.Preview)
			fmt.Fprintf(w, "\n%s\n", out.NextRelease.Notes)
			return nil
		}

		fmt.Fprintf(w, "Released %s (%s)\n", out.NextRelease.Version, out.Type)
		if out.Tagged {
			fmt.Fprintf(w, "Tagged %s\n", out.NextRelease.GitTag)
		}
		return nil
	}
}

func outputReleaseJSON(cmd *cobra.Command, out *internal.ReleaseOutput, dryRun bool) error {
	result := map[string]any{
		"release_type": out.Type.String(),
		"last_version": out.LastRelease.Version,
		"commits":      len(out.Commits),
		"dry_run":      dryRun,
	}
	if out.NextRelease != nil {
		result["version"] = out.NextRelease.Version
		result["git_tag"] = out.NextRelease.GitTag
		result["notes"] = out.NextRelease.Notes
		result["tagged"] = out.Tagged
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printCommits lists commits as "<short hash> <subject>", dropping the hash
// for records that carry none.
func printCommits(w io.Writer, commits []internal.Commit) {
	for _, c := range commits {
		subject, _, _ := strings.Cut(c.Message, "\n")
		if short := c.ShortHash(); short != "" {
			fmt.Fprintf(w, "  %s %s\n", short, subject)
			continue
		}
		fmt.Fprintf(w, "  %s\n", subject)
	}
}
