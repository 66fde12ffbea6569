package roadmap

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultHoursPerWeek is used when the weekly study time is missing or
	// not a positive number.
	DefaultHoursPerWeek = 10

	// StandardLoad is the weekly study time roadmap durations assume.
	StandardLoad = 15

	weeksPerMonth = 4
	weeksPerYear  = 52

	weeksWhenUnparsed = 6
	weeksWhenEmpty    = 8
)

var (
	firstNumber = regexp.MustCompile(`\d+`)
	monthTokens = []string{"mês", "meses", "month"}
	yearTokens  = []string{"ano", "year"}
)

// Estimate is a duration re-estimated for the learner's weekly hours.
type Estimate struct {
	Weeks        int     `json:"weeks"`
	Months       float64 `json:"months"`
	HoursPerWeek int     `json:"hoursPerWeek"`
}

// ParseWeeks converts free-form duration text ("6 meses", "1 ano",
// "12 semanas") to weeks. The first integer is taken; month and year
// words scale it. Text without a number counts as 6 weeks and empty
// text as 8.
func ParseWeeks(text string) int {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return weeksWhenEmpty
	}

	n := 0
	if m := firstNumber.FindString(s); m != "" {
		n, _ = strconv.Atoi(m)
	}
	if n <= 0 {
		n = weeksWhenUnparsed
	}

	switch {
	case containsAny(s, monthTokens):
		return n * weeksPerMonth
	case containsAny(s, yearTokens):
		return n * weeksPerYear
	default:
		return n
	}
}

// ParseHours reads a weekly-hours value, falling back to
// DefaultHoursPerWeek for anything that is not a positive integer.
func ParseHours(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultHoursPerWeek
	}
	return n
}

// Recalc re-estimates baseText for hoursPerWeek against StandardLoad.
func Recalc(baseText string, hoursPerWeek int) Estimate {
	return RecalcWithLoad(baseText, hoursPerWeek, StandardLoad)
}

// RecalcWithLoad computes weeks = ceil(baseWeeks * load / hoursPerWeek)
// and months = weeks / 4 rounded to one decimal.
func RecalcWithLoad(baseText string, hoursPerWeek, load int) Estimate {
	if hoursPerWeek <= 0 {
		hoursPerWeek = DefaultHoursPerWeek
	}
	if load <= 0 {
		load = StandardLoad
	}

	base := ParseWeeks(baseText)
	weeks := (base*load + hoursPerWeek - 1) / hoursPerWeek
	months := math.Round(float64(weeks)/weeksPerMonth*10) / 10

	return Estimate{Weeks: weeks, Months: months, HoursPerWeek: hoursPerWeek}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
