package cliapp

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	coreapp "cminify/internal/core/app"
	"cminify/internal/core/config"
)

// runUI shows the watch dashboard until the user quits or ctx is cancelled.
// first is the result of the run that preceded watching.
func runUI(ctx context.Context, app *coreapp.App, cfg *config.Config, first coreapp.Update) error {
	m := initialModel(cfg.Input.Path, cfg.Output.IR, cfg.Output.Minified)
	p := tea.NewProgram(m, tea.WithAltScreen())

	app.SetUpdateCallback(func(update coreapp.Update) {
		p.Send(updateMsg{outcome: update.Outcome, err: update.Err})
	})
	if err := app.StartWatcher(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		p.Send(updateMsg{outcome: first.Outcome, err: first.Err})
	}()
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	_, err := p.Run()
	return err
}
