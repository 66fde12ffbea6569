package app

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/ui/components"
	"github.com/abhisek/devpath/internal/ui/layout"
	"github.com/abhisek/devpath/internal/ui/theme"
)

type toggledMsg struct {
	notes []progress.Notification
	err   error
}

// roadmapScreen lists the roadmap and lets the learner check items off.
type roadmapScreen struct {
	sess    *session
	roadmap *roadmap.Roadmap
	cursor  components.Cursor
	err     string
}

func newRoadmapScreen(sess *session, r *roadmap.Roadmap) *roadmapScreen {
	s := &roadmapScreen{sess: sess, roadmap: r, cursor: components.NoCursor}
	s.cursor = s.first()
	return s
}

func (s *roadmapScreen) Init() tea.Cmd { return nil }

func (s *roadmapScreen) Title() string { return "Roadmap" }

func (s *roadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Espaço", Description: "Concluir"},
		{Key: "d", Description: "Desafios"},
		{Key: "s", Description: "Stats"},
		{Key: "n", Description: "Novo"},
	}
}

func (s *roadmapScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case toggledMsg:
		if msg.err != nil {
			s.err = describeError(msg.err)
		} else {
			s.err = ""
		}
		s.refresh()
		return s, func() tea.Msg { return changedMsg{notes: msg.notes} }

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.cursor = s.prev()
		case "down", "j":
			s.cursor = s.next()
		case "space", " ", "enter":
			if s.cursor != components.NoCursor {
				return s, s.toggle(s.cursor)
			}
		case "d":
			if it, ok := s.selected(); ok {
				return s, push(newChallengesScreen(s.sess, it.Name))
			}
		case "s":
			return s, push(newStatsScreen(s.sess))
		case "n":
			return s, push(newGoalScreen(s.sess))
		}
	}
	return s, nil
}

func (s *roadmapScreen) toggle(c components.Cursor) tea.Cmd {
	sess := s.sess
	return func() tea.Msg {
		notes, err := sess.svc.Toggle(sess.ctx, c.Stage, c.Item)
		return toggledMsg{notes: notes, err: err}
	}
}

// refresh reloads the roadmap so the view reflects persisted completion.
func (s *roadmapScreen) refresh() {
	st, err := s.sess.svc.State(s.sess.ctx)
	if err != nil || st.Roadmap == nil {
		return
	}
	s.roadmap = st.Roadmap
}

func (s *roadmapScreen) selected() (roadmap.Item, bool) {
	c := s.cursor
	if c == components.NoCursor {
		return roadmap.Item{}, false
	}
	return s.roadmap.Stages[c.Stage].Items[c.Item], true
}

func (s *roadmapScreen) first() components.Cursor {
	for si, st := range s.roadmap.Stages {
		if len(st.Items) > 0 {
			return components.Cursor{Stage: si, Item: 0}
		}
	}
	return components.NoCursor
}

func (s *roadmapScreen) next() components.Cursor {
	c := s.cursor
	if c == components.NoCursor {
		return c
	}
	if c.Item+1 < len(s.roadmap.Stages[c.Stage].Items) {
		return components.Cursor{Stage: c.Stage, Item: c.Item + 1}
	}
	for si := c.Stage + 1; si < len(s.roadmap.Stages); si++ {
		if len(s.roadmap.Stages[si].Items) > 0 {
			return components.Cursor{Stage: si, Item: 0}
		}
	}
	return c
}

func (s *roadmapScreen) prev() components.Cursor {
	c := s.cursor
	if c == components.NoCursor {
		return c
	}
	if c.Item > 0 {
		return components.Cursor{Stage: c.Stage, Item: c.Item - 1}
	}
	for si := c.Stage - 1; si >= 0; si-- {
		if n := len(s.roadmap.Stages[si].Items); n > 0 {
			return components.Cursor{Stage: si, Item: n - 1}
		}
	}
	return c
}

func (s *roadmapScreen) View(width, height int) string {
	out := components.RenderRoadmap(s.roadmap, s.cursor, width)
	if s.err != "" {
		out = theme.ErrorText.Render(s.err) + "\n" + out
	}
	return out
}

// challengesReadyMsg carries practice projects for one technology.
type challengesReadyMsg struct {
	set    *roadmap.ChallengeSet
	cached bool
	err    error
}

// challengesScreen shows practice projects for the selected technology.
type challengesScreen struct {
	sess    *session
	tech    string
	set     *roadmap.ChallengeSet
	cached  bool
	spinner spinner.Model
	err     string
}

func newChallengesScreen(sess *session, tech string) *challengesScreen {
	return &challengesScreen{
		sess:    sess,
		tech:    tech,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (c *challengesScreen) Init() tea.Cmd {
	sess, tech := c.sess, c.tech
	load := func() tea.Msg {
		set, cached, err := sess.svc.Challenges(sess.ctx, tech)
		return challengesReadyMsg{set: set, cached: cached, err: err}
	}
	return tea.Batch(c.spinner.Tick, load)
}

func (c *challengesScreen) Title() string { return "Desafios" }

func (c *challengesScreen) KeyHints() []layout.KeyHint { return nil }

func (c *challengesScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case challengesReadyMsg:
		if msg.err != nil {
			c.err = describeError(msg.err)
			return c, nil
		}
		c.set, c.cached = msg.set, msg.cached
	case spinner.TickMsg:
		if c.set != nil || c.err != "" {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *challengesScreen) View(width, height int) string {
	switch {
	case c.err != "":
		return theme.ErrorText.Render(c.err)
	case c.set == nil:
		return c.spinner.View() + theme.Body.Render(" Buscando desafios para "+c.tech+"...")
	}
	out := components.RenderChallenges(c.tech, c.set)
	if c.cached {
		out += "\n" + theme.Hint.Render("(do cache)")
	}
	return out
}

// statsScreen shows level, XP, streak and achievements.
type statsScreen struct {
	sess *session
	snap progress.Snapshot
	err  string
}

func newStatsScreen(sess *session) *statsScreen {
	s := &statsScreen{sess: sess}
	snap, err := sess.svc.Snapshot(sess.ctx, sess.hours)
	if err != nil {
		s.err = err.Error()
	}
	s.snap = snap
	return s
}

func (s *statsScreen) Init() tea.Cmd                    { return nil }
func (s *statsScreen) Title() string                    { return "Estatísticas" }
func (s *statsScreen) KeyHints() []layout.KeyHint       { return nil }
func (s *statsScreen) Update(tea.Msg) (Screen, tea.Cmd) { return s, nil }

func (s *statsScreen) View(width, height int) string {
	if s.err != "" {
		return theme.ErrorText.Render(s.err)
	}
	return components.RenderStats(s.snap, width)
}
