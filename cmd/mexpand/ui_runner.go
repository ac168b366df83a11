package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mexpand/internal/driver"
	"mexpand/internal/ui"
)

type expandOutcome struct {
	result *driver.Result
	err    error
}

// runExpandWithUI runs the expansion in the background and renders its
// progress events until the driver finishes. Quitting the UI early cancels
// the run.
func runExpandWithUI(ctx context.Context, title, baseDir string, paths []string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = driver.DisplayPath(baseDir, p)
	}

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ExpandFiles(ctx, baseDir, paths, opts)
		outcomeCh <- expandOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if uiErr != nil || !ui.Completed(final) {
		cancel()
	}
	// модель больше не читает канал
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if outcome.err == nil && uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
