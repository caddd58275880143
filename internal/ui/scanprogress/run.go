package scanprogress

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run executes worker while rendering the progress display. The report
// callback handed to the worker feeds the display. Workers are not
// cancellable, so Run always waits for the worker to finish before
// returning, even when the display is quit early with q or ctrl+c.
func Run(title string, worker func(report func(current, total int, name string)) error, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(title), opts...)

	done := make(chan error, 1)
	go func() {
		err := worker(func(current, total int, name string) {
			p.Send(ItemMsg{Current: current, Total: total, Name: name})
		})
		done <- err
		p.Send(DoneMsg{})
	}()

	_, runErr := p.Run()
	workerErr := <-done
	if runErr != nil {
		return runErr
	}
	return workerErr
}
