package app

import (
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devpath/internal/llm"
	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/ui/components"
	"github.com/abhisek/devpath/internal/ui/layout"
	"github.com/abhisek/devpath/internal/ui/theme"
)

type roadmapReadyMsg struct {
	roadmap *roadmap.Roadmap
	notes   []progress.Notification
	err     error
}

// goalScreen asks for a career goal and generates its roadmap.
type goalScreen struct {
	sess    *session
	input   components.TextInput
	spinner spinner.Model
	loading bool
	err     string
}

func newGoalScreen(sess *session) *goalScreen {
	return &goalScreen{
		sess:    sess,
		input:   components.NewTextInput("Qual é o seu objetivo?", "ex: Desenvolvedor Backend Go", false, 120),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (g *goalScreen) Init() tea.Cmd {
	return g.input.Init()
}

func (g *goalScreen) Title() string { return "Novo roadmap" }

func (g *goalScreen) KeyHints() []layout.KeyHint {
	if g.loading {
		return nil
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Gerar"}}
}

func (g *goalScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roadmapReadyMsg:
		g.loading = false
		if msg.err != nil && msg.roadmap == nil {
			g.err = describeError(msg.err)
			return g, nil
		}
		changed := func() tea.Msg { return changedMsg{notes: msg.notes} }
		return g, tea.Batch(changed, resetTo(newRoadmapScreen(g.sess, msg.roadmap)))

	case spinner.TickMsg:
		if !g.loading {
			return g, nil
		}
		var cmd tea.Cmd
		g.spinner, cmd = g.spinner.Update(msg)
		return g, cmd

	case tea.KeyPressMsg:
		if g.loading {
			return g, nil
		}
		if msg.String() == "enter" {
			goal := g.input.Value()
			if goal == "" {
				g.input.SetError("Digite um objetivo.")
				return g, nil
			}
			g.loading = true
			g.err = ""
			return g, tea.Batch(g.spinner.Tick, g.generate(goal))
		}
	}

	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

func (g *goalScreen) generate(goal string) tea.Cmd {
	sess := g.sess
	return func() tea.Msg {
		r, notes, err := sess.svc.GenerateRoadmap(sess.ctx, goal)
		return roadmapReadyMsg{roadmap: r, notes: notes, err: err}
	}
}

func (g *goalScreen) View(width, height int) string {
	out := g.input.View()
	if g.loading {
		out += "\n\n" + g.spinner.View() + theme.Body.Render(" Gerando seu roadmap...")
	}
	if g.err != "" {
		out += "\n\n" + theme.ErrorText.Render(g.err)
	}
	return out
}

// describeError turns a service error into a short message for the user.
func describeError(err error) string {
	var failed *llm.ErrGenerationFailed
	var verr *roadmap.ValidationError
	switch {
	case errors.As(err, &failed):
		return "Falha ao gerar: " + failed.LastMessage()
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, progress.ErrGenerationUnavailable):
		return "Geração indisponível: configure GEMINI_API_KEY."
	default:
		return err.Error()
	}
}
