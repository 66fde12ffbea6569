package roadmap

import (
	"fmt"
	"strings"
)

const roadmapSystemPrompt = `Você é um mentor de carreira sênior na área de tecnologia.

Regras:
- Monte roadmaps completos, objetivos e em ordem progressiva, do básico ao avançado.
- Use de 3 a 5 etapas, cada uma com 3 a 5 tecnologias.
- Dê estimativas de tempo realistas para quem estuda cerca de 15 horas por semana.
- Classifique cada tecnologia como Essencial, Importante ou Diferencial.
- Responda apenas com JSON válido seguindo exatamente o schema.`

const challengeSystemPrompt = `Você é um mentor que propõe projetos práticos de programação.
Responda apenas com JSON válido seguindo exatamente o schema.`

func buildRoadmapMessage(goal string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um roadmap completo para: %q\n", goal)
	b.WriteString("- 3 a 5 etapas\n")
	b.WriteString("- 3 a 5 tecnologias por etapa\n")
	b.WriteString("- Estimativa total no campo totalEstimatedDuration (ex.: \"6 meses\")\n")
	return b.String()
}

func buildChallengeMessage(tech string) string {
	return fmt.Sprintf("Crie 3 projetos práticos para quem está aprendendo %s: "+
		"um Iniciante, um Intermediário e um Avançado. Use o nível no campo level.", tech)
}
