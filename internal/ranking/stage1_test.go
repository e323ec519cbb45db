package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Chenxi-dot/smartHR/internal/similarity"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

func TestScoreStage1_RangeAndBreakdown(t *testing.T) {
	model := similarity.Fit([]string{
		"golang backend engineer kubernetes",
		"frontend react developer",
	}, similarity.WordOptions())
	skillModel := similarity.Fit([]string{"golang kubernetes", "react css"}, similarity.CharOptions())

	cand := types.Candidate{
		ID:              "c1",
		LookingFor:      "remote golang backend role",
		ExperienceYears: 6,
		EnglishLevel:    types.EnglishUpper,
	}
	profile := &types.RequirementProfile{
		RoleKeywords:       []string{"golang", "backend"},
		RequiredSkills:     []string{"kubernetes"},
		MinExperienceYears: 5,
		EnglishLevel:       types.EnglishIntermediate,
	}

	query := queryVectors{
		text:  model.Vector("golang backend engineer"),
		skill: skillModel.Vector("golang kubernetes"),
	}
	textVec := model.Vector("golang backend engineer kubernetes")
	skillVec := skillModel.Vector("golang kubernetes")

	score, breakdown := ScoreStage1(cand, profile, textVec, skillVec, query)

	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	assert.Equal(t, score, breakdown.Stage1)
	assert.Equal(t, 1.0, breakdown.ExpScore, "6y meets a 5y minimum")
	assert.Equal(t, 1.0, breakdown.EngScore, "upper satisfies intermediate")
	assert.Equal(t, 1.0, breakdown.LFOverlap, "both keywords appear in looking-for")
	assert.Greater(t, breakdown.SoftSim, 0.0)
	assert.Greater(t, breakdown.SkillSim, 0.0)
}

func TestScoreStage1_NilVectorsZeroSimilarities(t *testing.T) {
	cand := types.Candidate{ExperienceYears: 3}
	profile := types.EmptyRequirementProfile()

	score, breakdown := ScoreStage1(cand, profile, nil, nil, queryVectors{})

	assert.Zero(t, breakdown.SoftSim)
	assert.Zero(t, breakdown.SkillSim)
	assert.Zero(t, breakdown.LFOverlap)
	assert.Equal(t, 1.0, breakdown.ExpScore, "no minimum means full credit")
	assert.Equal(t, 1.0, breakdown.EngScore, "no requirement means full credit")
	// Only the exp and eng weights contribute.
	assert.InDelta(t, 0.15, score, 1e-9)
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		minYears float64
		want     float64
	}{
		{"no minimum", 0, 0, 1.0},
		{"meets minimum", 5, 5, 1.0},
		{"exceeds minimum", 8, 5, 1.0},
		{"half credit", 2.5, 5, 0.5},
		{"zero years under bar", 0, 4, 0.0},
		{"fractional minimum uses floor of one", 0.3, 0.5, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, experienceScore(tt.years, tt.minYears), 1e-9)
		})
	}
}

func TestEnglishScore(t *testing.T) {
	assert.Equal(t, 1.0, englishScore(types.EnglishBasic, ""))
	assert.Equal(t, 1.0, englishScore(types.EnglishFluent, types.EnglishUpper))
	assert.Equal(t, 1.0, englishScore(types.EnglishUpper, types.EnglishUpper))
	assert.Equal(t, 0.0, englishScore(types.EnglishPre, types.EnglishUpper))
}

func TestLookingForOverlap(t *testing.T) {
	kw := []string{"golang", "backend", "grpc"}

	assert.InDelta(t, 2.0/3.0, lookingForOverlap(kw, "senior golang/backend position"), 1e-9)
	assert.Zero(t, lookingForOverlap(kw, "frontend react"))
	assert.Zero(t, lookingForOverlap(nil, "anything"))
	assert.Zero(t, lookingForOverlap(kw, ""))
	// Repeated keyword tokens count once.
	assert.InDelta(t, 1.0/3.0, lookingForOverlap(kw, "golang golang golang"), 1e-9)
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	p := NewProgress()

	p.Set(25, "a")
	p.Set(10, "b")
	snap := p.Snapshot()
	assert.Equal(t, 25, snap.Percentage, "percentage never decreases")
	assert.Equal(t, "b", snap.Status, "status still advances")

	p.Set(400, "c")
	assert.Equal(t, 100, p.Snapshot().Percentage)

	p.Fail("boom")
	snap = p.Snapshot()
	assert.Equal(t, "boom", snap.Error)
	assert.True(t, snap.Done)
	assert.Contains(t, snap.Logs, "a")
	assert.Contains(t, snap.Logs, "boom")
}
