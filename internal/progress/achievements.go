package progress

// AchievementID identifies an entry in the achievement catalog. The values
// are persisted in the profile document.
type AchievementID string

const (
	AchFirstRoadmap AchievementID = "first_roadmap"
	AchFirstItem    AchievementID = "first_tech"
	AchStageDone    AchievementID = "step_master"
	AchHalfway      AchievementID = "halfway"
	AchCompleted    AchievementID = "completed"
	AchStreak3      AchievementID = "streak_3"
)

// Achievement is a one-time milestone with an XP reward.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	XPReward    int           `json:"xp"`
}

var catalog = []Achievement{
	{ID: AchFirstRoadmap, Name: "Visionário", Description: "Gerou seu primeiro roadmap", Icon: "🗺️", XPReward: 100},
	{ID: AchFirstItem, Name: "Hello World", Description: "Primeira tecnologia concluída", Icon: "👋", XPReward: 50},
	{ID: AchStageDone, Name: "Passo Firme", Description: "Concluiu uma etapa inteira", Icon: "👣", XPReward: 300},
	{ID: AchHalfway, Name: "Meio Caminho", Description: "50% do roadmap concluído", Icon: "🔥", XPReward: 500},
	{ID: AchCompleted, Name: "Lenda Tech", Description: "Roadmap 100% concluído", Icon: "🏆", XPReward: 1000},
	{ID: AchStreak3, Name: "Focado", Description: "3 dias seguidos de foco", Icon: "⚡", XPReward: 150},
}

// Catalog returns every achievement in display order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id AchievementID) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
