package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Normalize turns raw generation output into a Roadmap ready to persist.
// Every item starts uncompleted whatever the output claims. A document
// without a goal, a total duration or at least one stage is rejected
// with *MalformedRoadmapError.
func Normalize(raw []byte) (*Roadmap, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &MalformedRoadmapError{Err: errors.New("not valid JSON")}
	}

	doc := gjson.ParseBytes(raw)
	var missing []string
	for _, field := range []string{"goal", "totalEstimatedDuration"} {
		if v := doc.Get(field); v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
			missing = append(missing, field)
		}
	}
	if stages := doc.Get("stages"); !stages.IsArray() || len(stages.Array()) == 0 {
		missing = append(missing, "stages")
	}
	if len(missing) > 0 {
		return nil, &MalformedRoadmapError{Missing: missing}
	}

	var r Roadmap
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &MalformedRoadmapError{Err: fmt.Errorf("decode: %w", err)}
	}

	for i := range r.Stages {
		if r.Stages[i].Items == nil {
			r.Stages[i].Items = []Item{}
		}
		for j := range r.Stages[i].Items {
			r.Stages[i].Items[j].Completed = false
		}
	}
	return &r, nil
}

// ParseChallenges decodes a challenge set and requires at least one
// named project.
func ParseChallenges(raw []byte) (*ChallengeSet, error) {
	projects := gjson.GetBytes(raw, "projects")
	if !projects.IsArray() || len(projects.Array()) == 0 {
		return nil, errors.New("challenge set has no projects")
	}

	var cs ChallengeSet
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, fmt.Errorf("decode challenge set: %w", err)
	}
	for i, p := range cs.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("project %d has no name", i+1)
		}
	}
	return &cs, nil
}
