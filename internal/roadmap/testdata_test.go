package roadmap

import (
	"encoding/json"
	"strings"
)

// roadmapJSON is a two-stage roadmap with two items each. The first
// item claims to be completed, which Normalize must ignore.
func roadmapJSON() json.RawMessage {
	return json.RawMessage(`{
		"goal": "Desenvolvedor Backend Go",
		"totalEstimatedDuration": "6 meses",
		"stages": [
			{
				"id": 1,
				"name": "Fundamentos",
				"description": "Base da linguagem",
				"items": [
					{"name": "Go", "description": "Sintaxe e tipos", "estimatedDuration": "4 semanas", "importance": "Essencial", "completed": true},
					{"name": "Git", "description": "Versionamento", "estimatedDuration": "1 semana", "importance": "Essencial"}
				]
			},
			{
				"id": 2,
				"name": "Serviços",
				"description": "APIs e dados",
				"items": [
					{"name": "net/http", "description": "Servidores HTTP", "estimatedDuration": "3 semanas", "importance": "Importante"},
					{"name": "gRPC", "description": "RPC tipado", "estimatedDuration": "2 semanas", "importance": "Diferencial"}
				]
			}
		]
	}`)
}

func challengesJSON() json.RawMessage {
	return json.RawMessage(`{"projects": [
		{"name": "CLI de tarefas", "description": "Lista de tarefas no terminal", "level": "Iniciante"},
		{"name": "Encurtador de URL", "description": "API REST com SQLite", "level": "Intermediário"},
		{"name": "Fila distribuída", "description": "Workers com retry", "level": "Avançado"}
	]}`)
}

// generatedRoadmapJSON is roadmapJSON as a provider returns it under
// RoadmapSchema: no completion flags.
func generatedRoadmapJSON() json.RawMessage {
	return json.RawMessage(strings.Replace(string(roadmapJSON()), `, "completed": true`, "", 1))
}
