// Package tui implements a command-line user interface using [tea]. It
// displays the live topology snapshot alongside program logs and lets the
// user request refreshes interactively.
package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/voidwatch/blockd/internal/topology"
)

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	program *tea.Program
	refresh func()

	LogWriter *TeaLogWriter

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler]. The refresh
// function is invoked whenever the user requests a topology refresh; it must
// be safe for concurrent use.
func NewHandler(ctx context.Context, cancel context.CancelFunc, refresh func()) *Handler {
	handler := &Handler{
		refresh: refresh,
	}

	model := NewTeaModel(handler, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(tui) %w", err)
	}

	return nil
}

// Push sends a fresh topology snapshot into the running [tea.Program].
func (uiHandler *Handler) Push(snap *topology.Snapshot) {
	uiHandler.program.Send(SnapshotMsg{Snapshot: snap})
}

// PushError sends a failed refresh outcome into the running [tea.Program].
func (uiHandler *Handler) PushError(err error) {
	uiHandler.program.Send(RefreshErrMsg{Err: err})
}
