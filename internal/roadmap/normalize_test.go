package roadmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ResetsCompletion(t *testing.T) {
	r, err := Normalize(roadmapJSON())
	require.NoError(t, err)

	assert.Equal(t, "Desenvolvedor Backend Go", r.Goal)
	assert.Equal(t, "6 meses", r.TotalEstimatedDuration)
	require.Len(t, r.Stages, 2)
	assert.Equal(t, ImportanceDifferentiator, r.Stages[1].Items[1].Importance)

	for _, s := range r.Stages {
		for _, it := range s.Items {
			assert.False(t, it.Completed, "item %q should start uncompleted", it.Name)
		}
	}
	assert.Equal(t, 0, r.Percentage())
}

func TestNormalize_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing []string
	}{
		{"no goal", `{"totalEstimatedDuration":"1 ano","stages":[{"id":1,"items":[]}]}`, []string{"goal"}},
		{"blank goal", `{"goal":"  ","totalEstimatedDuration":"1 ano","stages":[{"id":1}]}`, []string{"goal"}},
		{"no duration", `{"goal":"SRE","stages":[{"id":1}]}`, []string{"totalEstimatedDuration"}},
		{"empty stages", `{"goal":"SRE","totalEstimatedDuration":"1 ano","stages":[]}`, []string{"stages"}},
		{"stages not a list", `{"goal":"SRE","totalEstimatedDuration":"1 ano","stages":{}}`, []string{"stages"}},
		{"everything", `{}`, []string{"goal", "totalEstimatedDuration", "stages"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.raw))
			var malformed *MalformedRoadmapError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.missing, malformed.Missing)
		})
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"goal":`))
	var malformed *MalformedRoadmapError
	require.ErrorAs(t, err, &malformed)
	assert.Error(t, malformed.Err)
}

func TestNormalize_ToleratesEmptyStage(t *testing.T) {
	r, err := Normalize([]byte(`{"goal":"SRE","totalEstimatedDuration":"1 ano","stages":[{"id":1,"name":"Vazia"}]}`))
	require.NoError(t, err)
	require.Len(t, r.Stages, 1)
	assert.NotNil(t, r.Stages[0].Items)
	assert.False(t, r.Stages[0].Done())
	assert.Equal(t, 0, r.Percentage())
}

func TestParseChallenges(t *testing.T) {
	cs, err := ParseChallenges(challengesJSON())
	require.NoError(t, err)
	require.Len(t, cs.Projects, 3)
	assert.Equal(t, "Avançado", cs.Projects[2].Level)

	_, err = ParseChallenges([]byte(`{"projects":[]}`))
	assert.Error(t, err)

	_, err = ParseChallenges([]byte(`{"projects":[{"name":"","description":"x","level":"y"}]}`))
	assert.Error(t, err)
}

func TestRoadmap_CloneIsDeep(t *testing.T) {
	r, err := Normalize(roadmapJSON())
	require.NoError(t, err)

	c := r.Clone()
	c.Stages[0].Items[0].Completed = true
	c.Stages[1].Name = "Outra"

	assert.False(t, r.Stages[0].Items[0].Completed)
	assert.Equal(t, "Serviços", r.Stages[1].Name)
	assert.Nil(t, (*Roadmap)(nil).Clone())
}

func TestRoadmap_Percentage(t *testing.T) {
	r, err := Normalize(roadmapJSON())
	require.NoError(t, err)

	r.Stages[0].Items[0].Completed = true
	assert.Equal(t, 25, r.Percentage())

	r.Stages[0].Items[1].Completed = true
	assert.Equal(t, 50, r.Percentage())
	assert.True(t, r.Stages[0].Done())
	assert.False(t, r.Stages[1].Done())

	three := &Roadmap{Stages: []Stage{{Items: []Item{{Completed: true}, {Completed: true}, {}}}}}
	assert.Equal(t, 67, three.Percentage())
	assert.Equal(t, 0, (&Roadmap{}).Percentage())
}
