package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"recforge/internal/driver"
	"recforge/internal/ui"
)

type runOutcome struct {
	report *driver.Report
	err    error
}

func runWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		o := opts
		o.Sink = driver.ChannelSink{Ch: events}
		rep, err := driver.Run(ctx, files, o)
		outcomeCh <- runOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep the driver from blocking on a view that is gone.
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
