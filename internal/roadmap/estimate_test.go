package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeeks(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"6 meses", 24},
		{"1 mês", 4},
		{"3 months", 12},
		{"1 ano", 52},
		{"2 years", 104},
		{"12 semanas", 12},
		{"alguns meses", 24},
		{"indefinido", 6},
		{"0 semanas", 6},
		{"", 8},
		{"   ", 8},
		{"De 4 a 6 Meses", 16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseWeeks(tt.text), "ParseWeeks(%q)", tt.text)
	}
}

func TestRecalc(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		hours  int
		weeks  int
		months float64
	}{
		{"standard load", "6 meses", 15, 24, 6.0},
		{"double hours", "6 meses", 30, 12, 3.0},
		{"empty base", "", 10, 12, 3.0},
		{"rounds up", "1 mês", 7, 9, 2.3},
		{"zero hours falls back", "6 meses", 0, 36, 9.0},
		{"negative hours falls back", "6 meses", -5, 36, 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recalc(tt.base, tt.hours)
			assert.Equal(t, tt.weeks, got.Weeks)
			assert.InDelta(t, tt.months, got.Months, 1e-9)
			assert.Positive(t, got.HoursPerWeek)
		})
	}
}

func TestRecalcWithLoad_DefaultsLoad(t *testing.T) {
	assert.Equal(t, Recalc("6 meses", 10), RecalcWithLoad("6 meses", 10, 0))
	assert.Equal(t, 24, RecalcWithLoad("6 meses", 10, 10).Weeks)
}

func TestParseHours(t *testing.T) {
	assert.Equal(t, 20, ParseHours("20"))
	assert.Equal(t, 20, ParseHours(" 20 "))
	assert.Equal(t, DefaultHoursPerWeek, ParseHours(""))
	assert.Equal(t, DefaultHoursPerWeek, ParseHours("abc"))
	assert.Equal(t, DefaultHoursPerWeek, ParseHours("0"))
	assert.Equal(t, DefaultHoursPerWeek, ParseHours("-3"))
}
