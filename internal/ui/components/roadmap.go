package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/ui/theme"
)

// Cursor addresses one item of a roadmap. Indices are zero-based.
type Cursor struct {
	Stage, Item int
}

// NoCursor renders a roadmap without a highlighted item.
var NoCursor = Cursor{Stage: -1, Item: -1}

// RenderRoadmap renders every stage with its items. The item under cursor
// is highlighted. Item numbers are shown one-based.
func RenderRoadmap(r *roadmap.Roadmap, cursor Cursor, width int) string {
	if r == nil {
		return theme.Hint.Render("Nenhum roadmap gerado ainda.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(r.Goal))
	b.WriteString(theme.Subtitle.Render("  ·  " + r.TotalEstimatedDuration))
	b.WriteString("\n\n")
	b.WriteString(NewProgressBar("Progresso", r.Percentage(), width).View())
	b.WriteString("\n")

	for si, st := range r.Stages {
		b.WriteString("\n")
		header := fmt.Sprintf("%d. %s", si+1, st.Name)
		if st.Done() {
			header += " ✓"
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary).Render(header))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d/%d", st.Completed(), len(st.Items))))
		b.WriteString("\n")
		if st.Description != "" {
			b.WriteString(theme.Hint.Render("   "+st.Description) + "\n")
		}
		for ii, it := range st.Items {
			b.WriteString(renderItem(it, ii, cursor == Cursor{Stage: si, Item: ii}))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderItem(it roadmap.Item, index int, selected bool) string {
	box := "[ ]"
	name := theme.Pending.Render(it.Name)
	if it.Completed {
		box = "[x]"
		name = theme.Done.Render(it.Name)
	}

	prefix := "   "
	if selected {
		prefix = theme.Selected.Render(" ▸ ")
		if !it.Completed {
			name = theme.Selected.Render(it.Name)
		}
	}

	badge := lipgloss.NewStyle().Foreground(theme.ImportanceColor(it.Importance)).Render(string(it.Importance))
	line := fmt.Sprintf("%s%s %d. %s  %s  %s", prefix, box, index+1, name, badge,
		theme.Subtitle.Render(it.EstimatedDuration))
	if selected && it.Description != "" {
		line += "\n" + theme.Hint.Render("        "+it.Description)
	}
	return line
}

// RenderStats renders the level, XP, streak and unlocked achievements.
func RenderStats(s progress.Snapshot, width int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Nível %d", s.Level.Level)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  ·  %d XP  ·  🔥 %d dia(s)", s.XP, s.Streak)))
	b.WriteString("\n")

	levelPct := 0
	if s.Level.LevelSpan > 0 {
		levelPct = s.Level.IntoLevel * 100 / s.Level.LevelSpan
	}
	b.WriteString(NewProgressBar("Próximo nível", levelPct, width).View())
	b.WriteString("\n")

	if s.HasRoadmap {
		b.WriteString(fmt.Sprintf("\n%s %d/%d itens (%d%%)\n",
			theme.Body.Render("Roadmap:"), s.Completed, s.Total, s.Percentage))
		if s.Estimate != nil {
			b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Estimativa: %d semanas (~%.1f meses) a %dh/semana",
				s.Estimate.Weeks, s.Estimate.Months, s.Estimate.HoursPerWeek)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + theme.Body.Bold(true).Render("Conquistas") + "\n")
	unlocked := make(map[progress.AchievementID]bool, len(s.Achievements))
	for _, a := range s.Achievements {
		unlocked[a.ID] = true
	}
	for _, a := range progress.Catalog() {
		if unlocked[a.ID] {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", a.Icon, theme.Body.Render(a.Name),
				theme.Subtitle.Render(fmt.Sprintf("+%d XP", a.XPReward))))
		} else {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  🔒 %s  %s", a.Name, a.Description)) + "\n")
		}
	}
	return b.String()
}

// RenderNotification renders a toast for a level-up or achievement.
func RenderNotification(n progress.Notification) string {
	text := fmt.Sprintf("%s %s", n.Icon(), lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(n.Title()))
	if n.XP() > 0 {
		text += theme.Subtitle.Render(fmt.Sprintf("  +%d XP", n.XP()))
	}
	text += "\n" + theme.Body.Render(n.Message())
	return theme.Toast.Render(text)
}

// RenderChallenges renders the practice projects for one technology.
func RenderChallenges(tech string, cs *roadmap.ChallengeSet) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Desafios: "+tech) + "\n")
	for i, p := range cs.Projects {
		b.WriteString(fmt.Sprintf("\n%d. %s  %s\n", i+1, theme.Body.Bold(true).Render(p.Name),
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(p.Level)))
		b.WriteString(theme.Hint.Render("   "+p.Description) + "\n")
	}
	return b.String()
}
