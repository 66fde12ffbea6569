// Package app is the interactive terminal UI.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/ui/components"
	"github.com/abhisek/devpath/internal/ui/layout"
	"github.com/abhisek/devpath/internal/ui/theme"
)

const toastDuration = 4 * time.Second

// Service is the part of progress.Service the UI drives.
type Service interface {
	State(ctx context.Context) (progress.State, error)
	Snapshot(ctx context.Context, hoursPerWeek int) (progress.Snapshot, error)
	Toggle(ctx context.Context, stage, item int) ([]progress.Notification, error)
	GenerateRoadmap(ctx context.Context, goal string) (*roadmap.Roadmap, []progress.Notification, error)
	Challenges(ctx context.Context, tech string) (*roadmap.ChallengeSet, bool, error)
}

// session is shared by every screen.
type session struct {
	ctx   context.Context
	svc   Service
	hours int
}

// changedMsg reports that a screen changed the learner's progress.
type changedMsg struct {
	notes []progress.Notification
}

type clearToastMsg struct{ seq int }

// Model is the root Bubble Tea model.
type Model struct {
	sess    *session
	stack   *stack
	profile progress.Profile

	toasts   []progress.Notification
	toastSeq int
	err      string

	width, height int
}

// New creates the root model. It opens on the roadmap when one exists and
// on the goal prompt otherwise, or always on the goal prompt with askGoal.
func New(ctx context.Context, svc Service, hoursPerWeek int, askGoal bool) Model {
	sess := &session{ctx: ctx, svc: svc, hours: hoursPerWeek}
	m := Model{sess: sess}

	var first Screen = newGoalScreen(sess)
	if st, err := svc.State(ctx); err != nil {
		m.err = err.Error()
	} else {
		m.profile = st.Profile
		if st.Roadmap != nil && !askGoal {
			first = newRoadmapScreen(sess, st.Roadmap)
		}
	}
	m.stack = newStack(first)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.stack.active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.stack.depth() > 1 {
				return m, pop
			}
		}

	case changedMsg:
		if st, err := m.sess.svc.State(m.sess.ctx); err == nil {
			m.profile = st.Profile
		}
		if len(msg.notes) == 0 {
			return m, nil
		}
		m.toasts = msg.notes
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toasts = nil
		}
		return m, nil
	}

	return m, m.stack.update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m Model) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.stack.active()
	header := layout.RenderHeader(active.Title(), m.profile.Level, m.profile.XP, m.profile.Streak, m.width)

	hints := active.KeyHints()
	if m.stack.depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Voltar"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Sair"})
	footer := layout.RenderFooter(hints, m.width)

	var extra string
	for _, n := range m.toasts {
		extra += components.RenderNotification(n) + "\n"
	}
	if m.err != "" {
		extra += theme.ErrorText.Render(m.err) + "\n"
	}

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(extra), 0)
	content := extra + active.View(m.width-4, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, svc Service, hoursPerWeek int, askGoal bool) error {
	_, err := tea.NewProgram(New(ctx, svc, hoursPerWeek, askGoal)).Run()
	return err
}
