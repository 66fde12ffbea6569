package progress

import "slices"

// MaxHistory is the number of days kept in the XP history.
const MaxHistory = 14

// DateLayout formats calendar dates in profiles and history.
const DateLayout = "2006-01-02"

// XPPoint is the XP total at the end of one calendar day.
type XPPoint struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

// Profile is the learner's gamification state.
type Profile struct {
	XP                   int             `json:"xp"`
	Level                int             `json:"level"`
	Streak               int             `json:"streak"`
	LastLoginDate        string          `json:"lastLoginDate,omitempty"`
	UnlockedAchievements []AchievementID `json:"unlockedAchievements"`
	XPHistory            []XPPoint       `json:"xpHistory"`
}

// NewProfile returns a fresh level-1 profile.
func NewProfile() Profile {
	return Profile{
		Level:                1,
		UnlockedAchievements: []AchievementID{},
		XPHistory:            []XPPoint{},
	}
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	p.UnlockedAchievements = append([]AchievementID{}, p.UnlockedAchievements...)
	p.XPHistory = append([]XPPoint{}, p.XPHistory...)
	return p
}

// HasAchievement reports whether id has been unlocked.
func (p Profile) HasAchievement(id AchievementID) bool {
	return slices.Contains(p.UnlockedAchievements, id)
}

// sanitize repairs documents written by older versions or by hand: XP is
// floored at zero, the level is derived from XP, duplicate achievements
// and history dates are dropped and history is trimmed.
func (p Profile) sanitize() Profile {
	p = p.Clone()
	p.XP = max(p.XP, 0)
	p.Level = LevelFor(p.XP)
	p.Streak = max(p.Streak, 0)

	seen := make(map[AchievementID]bool, len(p.UnlockedAchievements))
	ach := p.UnlockedAchievements[:0]
	for _, id := range p.UnlockedAchievements {
		if !seen[id] {
			seen[id] = true
			ach = append(ach, id)
		}
	}
	p.UnlockedAchievements = ach

	hist := []XPPoint{}
	for _, pt := range p.XPHistory {
		hist = recordHistory(hist, pt.Date, pt.XP)
	}
	p.XPHistory = hist
	return p
}

// recordHistory sets the XP for date. An entry for the same date is
// overwritten; otherwise a new entry is appended and the oldest entries
// beyond MaxHistory are dropped.
func recordHistory(hist []XPPoint, date string, xp int) []XPPoint {
	for i := range hist {
		if hist[i].Date == date {
			hist[i].XP = xp
			return hist
		}
	}
	hist = append(hist, XPPoint{Date: date, XP: xp})
	if len(hist) > MaxHistory {
		hist = append([]XPPoint{}, hist[len(hist)-MaxHistory:]...)
	}
	return hist
}
