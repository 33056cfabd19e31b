package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Tagger records a finished release in version control.
type Tagger interface {
	CreateTag(ctx context.Context, name, message string) error
}

// BranchReader reports the branch a release is cut from.
type BranchReader interface {
	Branch(ctx context.Context) (string, error)
}

type ReleaseInput struct {
	Root   string
	Config *Config
	DryRun bool
	// Commits overrides the commit source when non-nil.
	Commits []Commit
}

type ReleaseOutput struct {
	LastRelease LastRelease
	Type        ReleaseType
	Commits     []Commit
	NextRelease *NextRelease
	// Preview holds the version file diff for dry runs.
	Preview string
	Tagged  bool
}

// ReleaseUseCase drives the hooks in lifecycle order and stops at the first
// failure or when no release is needed.
type ReleaseUseCase struct {
	source  CommitSource
	tagger  Tagger
	log     *ZapLogger
	verify  *VerifyConditionsUseCase
	analyze *AnalyzeCommitsUseCase
	notes   *GenerateNotesUseCase
	prepare *PrepareUseCase
	publish *PublishUseCase
}

func NewReleaseUseCase(source CommitSource, tagger Tagger, log *ZapLogger) *ReleaseUseCase {
	if log == nil {
		log = NewZapLogger(nil)
	}
	return &ReleaseUseCase{
		source:  source,
		tagger:  tagger,
		log:     log,
		verify:  NewVerifyConditionsUseCase(),
		analyze: NewAnalyzeCommitsUseCase(),
		notes:   NewGenerateNotesUseCase(),
		prepare: NewPrepareUseCase(),
		publish: NewPublishUseCase(),
	}
}

func (uc *ReleaseUseCase) Execute(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	cfg := input.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := uc.verify.Execute(ctx, VerifyConditionsInput{
		Logger: uc.log.Named(PhaseVerify),
		Checks: uc.checks(cfg),
	}); err != nil {
		return nil, err
	}

	last, err := uc.source.LastRelease(ctx, cfg.TagPrefix)
	if err != nil {
		return nil, err
	}
	uc.log.Zap().Debug("last release", zap.String("version", last.Version), zap.String("tag", last.GitTag))

	commits := input.Commits
	if commits == nil {
		commits, err = uc.source.CommitsSince(ctx, last)
		if err != nil {
			return nil, err
		}
	}

	typ, err := uc.analyze.Execute(ctx, AnalyzeCommitsInput{
		Commits: commits,
		Logger:  uc.log.Named(PhaseAnalyze),
	})
	if err != nil {
		return nil, err
	}

	out := &ReleaseOutput{LastRelease: last, Type: typ, Commits: commits}
	if typ == ReleaseNone {
		return out, nil
	}

	next, err := PlanNextRelease(last, typ, cfg.TagPrefix)
	if err != nil {
		return nil, fmt.Errorf("plan next release: %w", err)
	}
	out.NextRelease = next

	next.Notes, err = uc.notes.Execute(ctx, GenerateNotesInput{
		Commits:     commits,
		NextRelease: next,
		Logger:      uc.log.Named(PhaseNotes),
	})
	if err != nil {
		return nil, err
	}

	versionFile := cfg.VersionFilePath(input.Root)
	if input.DryRun {
		out.Preview, err = PreviewVersionFile(versionFile, next.Version)
		if err != nil {
			return nil, err
		}
		uc.log.Zap().Info("dry run, skipping prepare and publish", zap.String("version", next.Version))
		return out, nil
	}

	if err := uc.prepare.Execute(ctx, PrepareInput{
		NextRelease:         next,
		VersionFile:         versionFile,
		SummaryPath:         cfg.SummaryPath(),
		PlainSummaryVersion: !cfg.EscapeSummary(),
		Logger:              uc.log.Named(PhasePrepare),
	}); err != nil {
		return nil, err
	}

	if err := uc.publish.Execute(ctx, PublishInput{
		NextRelease: next,
		Logger:      uc.log.Named(PhasePublish),
	}); err != nil {
		return nil, err
	}

	if cfg.CreateTag && uc.tagger != nil {
		if err := uc.tagger.CreateTag(ctx, next.GitTag, next.Notes); err != nil {
			return nil, err
		}
		out.Tagged = true
	}

	return out, nil
}

func (uc *ReleaseUseCase) checks(cfg *Config) []Check {
	checks := []Check{{
		Name: "config",
		Run:  func(context.Context) error { return cfg.Validate() },
	}}

	br, ok := uc.source.(BranchReader)
	if !ok || cfg.Branch == "" {
		return checks
	}

	return append(checks, Check{
		Name: "branch",
		Run: func(ctx context.Context) error {
			current, err := br.Branch(ctx)
			if err != nil {
				return err
			}
			if current != cfg.Branch {
				return fmt.Errorf("on branch %q, releases are cut from %q", current, cfg.Branch)
			}
			return nil
		},
	})
}
