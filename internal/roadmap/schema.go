package roadmap

import "github.com/abhisek/devpath/internal/llm"

// Purposes tag LLM calls for event logging.
const (
	PurposeRoadmap    = "roadmap"
	PurposeChallenges = "challenges"
)

func importanceEnum() []any {
	out := make([]any, len(Importances))
	for i, imp := range Importances {
		out[i] = string(imp)
	}
	return out
}

// RoadmapSchema constrains roadmap generation. Completion flags are not
// part of the output; Normalize adds them.
var RoadmapSchema = &llm.Schema{
	Name:        "learning-roadmap",
	Description: "A multi-stage learning roadmap towards a career goal",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"goal": map[string]any{
				"type":        "string",
				"description": "The learner's goal, restated",
			},
			"totalEstimatedDuration": map[string]any{
				"type":        "string",
				"description": "Total time to finish, e.g. \"6 meses\"",
			},
			"stages": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "integer"},
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"items": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"name":              map[string]any{"type": "string"},
									"description":       map[string]any{"type": "string"},
									"estimatedDuration": map[string]any{"type": "string"},
									"importance": map[string]any{
										"type": "string",
										"enum": importanceEnum(),
									},
								},
								"required":             []any{"name", "description", "estimatedDuration", "importance"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "name", "description", "items"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"goal", "totalEstimatedDuration", "stages"},
		"additionalProperties": false,
	},
}

// ChallengeSchema constrains practice-project generation.
var ChallengeSchema = &llm.Schema{
	Name:        "practice-projects",
	Description: "Practice projects for one technology, one per level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"projects": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"level":       map[string]any{"type": "string"},
					},
					"required":             []any{"name", "description", "level"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"projects"},
		"additionalProperties": false,
	},
}
