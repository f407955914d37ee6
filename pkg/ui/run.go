package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treepick/pkg/store"
)

// Run shows the picker until the user quits or ctx is cancelled, and returns
// the ids selected at exit.
func Run(ctx context.Context, s *store.Store, opts Options) ([]string, error) {
	p := tea.NewProgram(NewModel(ctx, s, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	// Observers run on the mutating goroutine, which may be the update loop
	// itself; Send from there would block.
	unsubscribe := s.Subscribe(func() {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("running ui: %w", err)
	}
	return s.SelectedIDs(), nil
}
