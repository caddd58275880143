package scanprogress

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRunReturnsWorkerError(t *testing.T) {
	wantErr := errors.New("scan failed")

	err := Run("Scanning addons", func(report func(int, int, string)) error {
		report(1, 2, "WeakAuras")
		report(2, 2, "Details")
		return wantErr
	}, tea.WithInput(strings.NewReader("")), tea.WithOutput(io.Discard))

	if err != wantErr {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestRunWaitsForWorkerAfterEarlyQuit(t *testing.T) {
	wantErr := errors.New("late failure")
	finished := make(chan struct{})

	// The q keypress quits the display almost immediately, long before
	// the worker is done. Run must still block until the worker returns
	// so callers never read half-written results.
	err := Run("Installing detected addons", func(report func(int, int, string)) error {
		time.Sleep(150 * time.Millisecond)
		close(finished)
		return wantErr
	}, tea.WithInput(strings.NewReader("q")), tea.WithOutput(io.Discard))

	select {
	case <-finished:
	default:
		t.Fatal("Run returned before the worker finished")
	}
	if err != wantErr {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
}
