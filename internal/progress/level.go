package progress

import "math"

// LevelFor returns floor(1 + sqrt(xp/100)). Negative XP counts as zero.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(1 + math.Sqrt(float64(xp)/100)))
}

// LevelThreshold returns the XP at which level starts: 100 * (level-1)^2.
func LevelThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	return 100 * (level - 1) * (level - 1)
}

// LevelProgress reports how far xp is into its level.
type LevelProgress struct {
	Level     int `json:"level"`
	IntoLevel int `json:"xpIntoLevel"`
	LevelSpan int `json:"xpForNextLevel"`
}

// ProgressFor computes LevelProgress for xp.
func ProgressFor(xp int) LevelProgress {
	level := LevelFor(xp)
	start := LevelThreshold(level)
	return LevelProgress{
		Level:     level,
		IntoLevel: max(xp, 0) - start,
		LevelSpan: LevelThreshold(level+1) - start,
	}
}
