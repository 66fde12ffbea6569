package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devpath/internal/ui/layout"
)

// Screen is one view of the terminal UI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	Title() string
	KeyHints() []layout.KeyHint
}

// pushScreenMsg puts a screen on top of the stack.
type pushScreenMsg struct{ screen Screen }

// popScreenMsg returns to the previous screen.
type popScreenMsg struct{}

// resetScreenMsg makes screen the only one on the stack.
type resetScreenMsg struct{ screen Screen }

func push(s Screen) tea.Cmd    { return func() tea.Msg { return pushScreenMsg{screen: s} } }
func pop() tea.Msg             { return popScreenMsg{} }
func resetTo(s Screen) tea.Cmd { return func() tea.Msg { return resetScreenMsg{screen: s} } }

// stack routes messages to the top screen.
type stack struct {
	screens []Screen
}

func newStack(initial Screen) *stack {
	return &stack{screens: []Screen{initial}}
}

func (s *stack) active() Screen {
	return s.screens[len(s.screens)-1]
}

func (s *stack) depth() int {
	return len(s.screens)
}

func (s *stack) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pushScreenMsg:
		s.screens = append(s.screens, msg.screen)
		return msg.screen.Init()
	case popScreenMsg:
		if len(s.screens) > 1 {
			s.screens = s.screens[:len(s.screens)-1]
		}
		return nil
	case resetScreenMsg:
		s.screens = []Screen{msg.screen}
		return msg.screen.Init()
	}

	updated, cmd := s.active().Update(msg)
	s.screens[len(s.screens)-1] = updated
	return cmd
}
