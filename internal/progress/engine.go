package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/devpath/internal/roadmap"
)

// ItemXP is the XP gained by completing an item and lost by un-completing it.
const ItemXP = 20

// State is the live (roadmap, profile) pair. A nil Roadmap means none has
// been generated yet.
type State struct {
	Roadmap *roadmap.Roadmap `json:"roadmap"`
	Profile Profile          `json:"profile"`
}

// NewState returns an empty state with a fresh profile.
func NewState() State {
	return State{Profile: NewProfile()}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{Roadmap: s.Roadmap.Clone(), Profile: s.Profile.Clone()}
}

// Event is a command consumed by Apply.
type Event interface {
	apply(t *transition) error
}

// ToggleItem flips the completion flag of one item. Indices are zero-based.
type ToggleItem struct {
	Stage int
	Item  int
}

// ApplyXP adds Delta (which may be negative) to the profile XP.
type ApplyXP struct {
	Delta int
}

// UnlockAchievement unlocks a catalog entry and grants its reward once.
type UnlockAchievement struct {
	ID AchievementID
}

// CheckStreak updates the daily streak for the transition time.
type CheckStreak struct{}

// ReplaceRoadmap installs a freshly generated roadmap.
type ReplaceRoadmap struct {
	Roadmap *roadmap.Roadmap
}

// Notification is a user-visible side effect of a transition.
type Notification interface {
	Title() string
	Message() string
	Icon() string
	XP() int
}

// LevelUp is emitted when XP crosses into a higher level.
type LevelUp struct {
	Level int
}

func (n LevelUp) Title() string   { return "Level Up!" }
func (n LevelUp) Message() string { return fmt.Sprintf("Você alcançou o nível %d!", n.Level) }
func (n LevelUp) Icon() string    { return "🆙" }
func (n LevelUp) XP() int         { return 0 }

// AchievementUnlocked is emitted the first time an achievement unlocks.
type AchievementUnlocked struct {
	Achievement Achievement
}

func (n AchievementUnlocked) Title() string   { return n.Achievement.Name }
func (n AchievementUnlocked) Message() string { return n.Achievement.Description }
func (n AchievementUnlocked) Icon() string    { return n.Achievement.Icon }
func (n AchievementUnlocked) XP() int         { return n.Achievement.XPReward }

// Apply runs event against state and returns the resulting state together
// with the notifications to show. state is never modified. On error the
// returned state is state itself and no notification is emitted.
func Apply(state State, event Event, now time.Time) (State, []Notification, error) {
	t := &transition{state: state.Clone(), now: now}
	if err := event.apply(t); err != nil {
		return state, nil, err
	}
	return t.state, t.notes, nil
}

type transition struct {
	state State
	now   time.Time
	notes []Notification
}

func (t *transition) today() string {
	return t.now.Format(DateLayout)
}

func (t *transition) addXP(delta int) {
	p := &t.state.Profile
	prev := p.Level

	p.XP = max(0, p.XP+delta)
	p.Level = LevelFor(p.XP)
	if p.Level > prev {
		t.notes = append(t.notes, LevelUp{Level: p.Level})
	}
	p.XPHistory = recordHistory(p.XPHistory, t.today(), p.XP)
}

func (t *transition) unlock(id AchievementID) error {
	a, ok := LookupAchievement(id)
	if !ok {
		return &ErrUnknownAchievement{ID: id}
	}
	p := &t.state.Profile
	if p.HasAchievement(id) {
		return nil
	}
	p.UnlockedAchievements = append(p.UnlockedAchievements, id)
	t.addXP(a.XPReward)
	t.notes = append(t.notes, AchievementUnlocked{Achievement: a})
	return nil
}

// mustUnlock unlocks a catalog constant, which cannot fail.
func (t *transition) mustUnlock(id AchievementID) {
	if err := t.unlock(id); err != nil {
		panic(err)
	}
}

func (e ToggleItem) apply(t *transition) error {
	r := t.state.Roadmap
	if r == nil {
		return ErrNoRoadmap
	}
	if e.Stage < 0 || e.Stage >= len(r.Stages) || e.Item < 0 || e.Item >= len(r.Stages[e.Stage].Items) {
		return &ErrItemOutOfRange{Stage: e.Stage, Item: e.Item}
	}

	item := &r.Stages[e.Stage].Items[e.Item]
	item.Completed = !item.Completed
	if !item.Completed {
		t.addXP(-ItemXP)
		return nil
	}

	t.addXP(ItemXP)
	t.mustUnlock(AchFirstItem)

	for _, s := range r.Stages {
		if s.Done() {
			t.mustUnlock(AchStageDone)
			break
		}
	}

	pct := r.Percentage()
	if pct >= 50 {
		t.mustUnlock(AchHalfway)
	}
	if pct >= 100 {
		t.mustUnlock(AchCompleted)
	}
	return nil
}

func (e ApplyXP) apply(t *transition) error {
	t.addXP(e.Delta)
	return nil
}

func (e UnlockAchievement) apply(t *transition) error {
	return t.unlock(e.ID)
}

func (CheckStreak) apply(t *transition) error {
	p := &t.state.Profile
	today := t.today()
	if p.LastLoginDate == today {
		return nil
	}

	yesterday := t.now.AddDate(0, 0, -1).Format(DateLayout)
	if p.LastLoginDate == yesterday {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastLoginDate = today

	if p.Streak >= 3 {
		t.mustUnlock(AchStreak3)
	}
	return nil
}

func (e ReplaceRoadmap) apply(t *transition) error {
	if e.Roadmap == nil {
		return ErrNoRoadmap
	}
	r := e.Roadmap.Clone()
	for i := range r.Stages {
		for j := range r.Stages[i].Items {
			r.Stages[i].Items[j].Completed = false
		}
	}
	t.state.Roadmap = r
	t.mustUnlock(AchFirstRoadmap)
	return nil
}
