package roadmap

import "math"

// Importance ranks an item within its stage.
type Importance string

const (
	ImportanceEssential      Importance = "Essencial"
	ImportanceImportant      Importance = "Importante"
	ImportanceDifferentiator Importance = "Diferencial"
)

// Importances lists every valid Importance in display order.
var Importances = []Importance{ImportanceEssential, ImportanceImportant, ImportanceDifferentiator}

// Item is a single technology or concept to learn.
type Item struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	EstimatedDuration string     `json:"estimatedDuration"`
	Importance        Importance `json:"importance"`
	Completed         bool       `json:"completed"`
}

// Stage is one progressive phase of a roadmap. Item order is meaningful.
type Stage struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Done reports whether the stage has items and all of them are completed.
func (s Stage) Done() bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, it := range s.Items {
		if !it.Completed {
			return false
		}
	}
	return true
}

// Completed returns how many items of the stage are completed.
func (s Stage) Completed() int {
	n := 0
	for _, it := range s.Items {
		if it.Completed {
			n++
		}
	}
	return n
}

// Roadmap is the generated curriculum together with its completion flags.
type Roadmap struct {
	Goal                   string  `json:"goal"`
	TotalEstimatedDuration string  `json:"totalEstimatedDuration"`
	Stages                 []Stage `json:"stages"`
}

// Clone returns a deep copy. Clone of nil is nil.
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	out := &Roadmap{
		Goal:                   r.Goal,
		TotalEstimatedDuration: r.TotalEstimatedDuration,
		Stages:                 make([]Stage, len(r.Stages)),
	}
	for i, s := range r.Stages {
		s.Items = append([]Item(nil), s.Items...)
		out.Stages[i] = s
	}
	return out
}

// Counts returns the number of completed items and the total item count
// across all stages.
func (r *Roadmap) Counts() (completed, total int) {
	if r == nil {
		return 0, 0
	}
	for _, s := range r.Stages {
		completed += s.Completed()
		total += len(s.Items)
	}
	return completed, total
}

// Percentage is round(100 * completed / total), computed from scratch.
// A roadmap without items is at 0%.
func (r *Roadmap) Percentage() int {
	completed, total := r.Counts()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Project is one practice project suggested for a technology.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

// ChallengeSet is the set of practice projects for one technology.
type ChallengeSet struct {
	Projects []Project `json:"projects"`
}
