package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	summaryHeader        = "### ✅ Semantic Release\n\n"
	summaryVersionFormat = "**Released Version:** \\%s\n"
	summaryVersionPlain  = "**Released Version:** %s\n"
)

// Hook input DTOs

// Check is a named precondition evaluated by VerifyConditions.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

type VerifyConditionsInput struct {
	Logger Logger
	Checks []Check
}

type AnalyzeCommitsInput struct {
	Commits []Commit
	Logger  Logger
}

type GenerateNotesInput struct {
	Commits     []Commit
	NextRelease *NextRelease
	Logger      Logger
}

type PrepareInput struct {
	NextRelease *NextRelease
	// VersionFile is overwritten with the version and a newline.
	VersionFile string
	// SummaryPath is appended to when non-empty.
	SummaryPath string
	// PlainSummaryVersion drops the backslash before the version in the
	// summary line.
	PlainSummaryVersion bool
	Logger              Logger
}

type PublishInput struct {
	NextRelease *NextRelease
	Logger      Logger
}

// Hooks

type VerifyConditionsUseCase struct{}

func NewVerifyConditionsUseCase() *VerifyConditionsUseCase {
	return &VerifyConditionsUseCase{}
}

func (uc *VerifyConditionsUseCase) Execute(ctx context.Context, input VerifyConditionsInput) error {
	log := loggerOrNop(input.Logger)
	log.Log("🔍 Verifying conditions for release...")

	for _, check := range input.Checks {
		if err := check.Run(ctx); err != nil {
			log.Error("❌ Failed to verify conditions.")
			return newHookError(PhaseVerify, KindVerifyFailure, fmt.Errorf("%s: %w", check.Name, err))
		}
	}

	log.Log("✔ Conditions verified.")
	return nil
}

type AnalyzeCommitsUseCase struct{}

func NewAnalyzeCommitsUseCase() *AnalyzeCommitsUseCase {
	return &AnalyzeCommitsUseCase{}
}

func (uc *AnalyzeCommitsUseCase) Execute(ctx context.Context, input AnalyzeCommitsInput) (ReleaseType, error) {
	log := loggerOrNop(input.Logger)
	log.Log("🔍 Analyzing commits...")

	if err := ctx.Err(); err != nil {
		log.Error("❌ Error analyzing commits.")
		return ReleaseNone, newHookError(PhaseAnalyze, KindUnknown, err)
	}

	analysis := Classify(input.Commits)
	for _, line := range analysis.Lines {
		log.Log(line)
	}
	return analysis.Type, nil
}

type GenerateNotesUseCase struct{}

func NewGenerateNotesUseCase() *GenerateNotesUseCase {
	return &GenerateNotesUseCase{}
}

func (uc *GenerateNotesUseCase) Execute(ctx context.Context, input GenerateNotesInput) (string, error) {
	log := loggerOrNop(input.Logger)
	log.Log("📝 Generating release notes...")

	version, err := requireVersion(input.NextRelease)
	if err != nil {
		log.Error("❌ Failed to generate release notes.")
		return "", newHookError(PhaseNotes, KindMissingVersion, err)
	}

	notes := RenderNotes(version, input.Commits)
	log.Log("✔ Release notes generated.")
	return notes, nil
}

// RenderNotes formats the markdown body: a version header, a blank line,
// then one bullet per commit in input order.
func RenderNotes(version string, commits []Commit) string {
	bullets := make([]string, 0, len(commits))
	for _, c := range commits {
		bullets = append(bullets, "- "+c.Message)
	}
	return "## " + version + "\n\n" + strings.Join(bullets, "\n")
}

type PrepareUseCase struct{}

func NewPrepareUseCase() *PrepareUseCase {
	return &PrepareUseCase{}
}

func (uc *PrepareUseCase) Execute(ctx context.Context, input PrepareInput) error {
	log := loggerOrNop(input.Logger)
	log.Log("⚙️ Preparing release...")

	if err := uc.prepare(ctx, input); err != nil {
		log.Error("❌ Failed to prepare release.")
		return err
	}

	log.Log(fmt.Sprintf("✔ VERSION file updated to %s", input.NextRelease.Version))
	return nil
}

func (uc *PrepareUseCase) prepare(ctx context.Context, input PrepareInput) error {
	version, err := requireVersion(input.NextRelease)
	if err != nil {
		return newHookError(PhasePrepare, KindMissingVersion, err)
	}
	if input.VersionFile == "" {
		return newHookError(PhasePrepare, KindConfig, fmt.Errorf("version file path is empty"))
	}
	if err := ctx.Err(); err != nil {
		return newHookError(PhasePrepare, KindUnknown, err)
	}

	if err := os.WriteFile(input.VersionFile, []byte(version+"\n"), 0644); err != nil {
		return newHookError(PhasePrepare, KindWriteFailure, fmt.Errorf("write version file: %w", err))
	}

	if input.SummaryPath == "" {
		return nil
	}

	line := fmt.Sprintf(summaryVersionFormat, version)
	if input.PlainSummaryVersion {
		line = fmt.Sprintf(summaryVersionPlain, version)
	}
	for _, chunk := range []string{summaryHeader, line} {
		if err := appendFile(input.SummaryPath, chunk); err != nil {
			return newHookError(PhasePrepare, KindWriteFailure, fmt.Errorf("append summary: %w", err))
		}
	}
	return nil
}

type PublishUseCase struct{}

func NewPublishUseCase() *PublishUseCase {
	return &PublishUseCase{}
}

func (uc *PublishUseCase) Execute(ctx context.Context, input PublishInput) error {
	log := loggerOrNop(input.Logger)

	version, err := requireVersion(input.NextRelease)
	if err != nil {
		log.Error("❌ Publish failed.")
		return newHookError(PhasePublish, KindMissingVersion, err)
	}

	log.Log(fmt.Sprintf("🚀 Publishing release: %s", version))
	log.Log("✔ Publish step completed.")
	return nil
}

// helpers

func requireVersion(next *NextRelease) (string, error) {
	if next == nil || next.Version == "" {
		return "", ErrMissingVersion
	}
	return next.Version, nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type nopLogger struct{}

func (nopLogger) Log(string)   {}
func (nopLogger) Error(string) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
