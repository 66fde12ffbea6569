package progress

import "github.com/abhisek/devpath/internal/roadmap"

// StageProgress summarizes one stage.
type StageProgress struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Done      bool   `json:"done"`
}

// Snapshot is a read-only view derived from a State.
type Snapshot struct {
	HasRoadmap   bool              `json:"hasRoadmap"`
	Percentage   int               `json:"percentage"`
	Completed    int               `json:"completed"`
	Total        int               `json:"total"`
	Stages       []StageProgress   `json:"stages"`
	Level        LevelProgress     `json:"level"`
	XP           int               `json:"xp"`
	Streak       int               `json:"streak"`
	Achievements []Achievement     `json:"achievements"`
	Estimate     *roadmap.Estimate `json:"estimate,omitempty"`
}

// TakeSnapshot derives a Snapshot. The estimate is computed for
// hoursPerWeek when a roadmap is present.
func TakeSnapshot(s State, hoursPerWeek int) Snapshot {
	snap := Snapshot{
		HasRoadmap:   s.Roadmap != nil,
		Stages:       []StageProgress{},
		Level:        ProgressFor(s.Profile.XP),
		XP:           s.Profile.XP,
		Streak:       s.Profile.Streak,
		Achievements: []Achievement{},
	}

	for _, id := range s.Profile.UnlockedAchievements {
		if a, ok := LookupAchievement(id); ok {
			snap.Achievements = append(snap.Achievements, a)
		}
	}

	if s.Roadmap == nil {
		return snap
	}

	snap.Completed, snap.Total = s.Roadmap.Counts()
	snap.Percentage = s.Roadmap.Percentage()
	for _, st := range s.Roadmap.Stages {
		snap.Stages = append(snap.Stages, StageProgress{
			ID:        st.ID,
			Name:      st.Name,
			Completed: st.Completed(),
			Total:     len(st.Items),
			Done:      st.Done(),
		})
	}
	est := roadmap.Recalc(s.Roadmap.TotalEstimatedDuration, hoursPerWeek)
	snap.Estimate = &est
	return snap
}
