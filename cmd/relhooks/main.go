package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/4thel00z/relhooks/internal"
	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd(version, newApp())
	if err := fang.Execute(ctx, rootCmd); err != nil {
		stop()
		os.Exit(1)
	}
}

type app struct {
	verify  *internal.VerifyConditionsUseCase
	analyze *internal.AnalyzeCommitsUseCase
	notes   *internal.GenerateNotesUseCase
	prepare *internal.PrepareUseCase
	publish *internal.PublishUseCase
}

func newApp() *app {
	return &app{
		verify:  internal.NewVerifyConditionsUseCase(),
		analyze: internal.NewAnalyzeCommitsUseCase(),
		notes:   internal.NewGenerateNotesUseCase(),
		prepare: internal.NewPrepareUseCase(),
		publish: internal.NewPublishUseCase(),
	}
}
