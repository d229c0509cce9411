package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"reweave/internal/driver"
	"reweave/internal/source"
	"reweave/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runDirWithUI executes a directory run in the background while a progress
// model consumes per-file events on the terminal.
func runDirWithUI(title string, files []string, run func(driver.Progress) (*source.FileSet, []driver.FileResult, error)) (*source.FileSet, []driver.FileResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		fileSet, results, err := run(func(res driver.FileResult) {
			events <- ui.Event{File: res.Path, Status: statusFor(res)}
		})
		outcomeCh <- dirOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}

func statusFor(res driver.FileResult) ui.Status {
	switch {
	case res.Changed:
		return ui.StatusChanged
	case res.Bag != nil && res.Bag.HasErrors():
		return ui.StatusError
	default:
		return ui.StatusClean
	}
}
