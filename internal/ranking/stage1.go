// Package ranking implements the two-stage candidate ranking pipeline: a
// deterministic multi-signal stage-1 pass over the whole corpus followed by a
// budget-limited oracle rerank of the leaders.
package ranking

import (
	"strings"

	"github.com/Chenxi-dot/smartHR/internal/similarity"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// Stage-1 blend weights. The five signals are combined linearly and the
// result clamped to [0, 1].
const (
	weightSkillSim  = 0.35
	weightSoftSim   = 0.35
	weightLFOverlap = 0.15
	weightExpScore  = 0.10
	weightEngScore  = 0.05
)

// queryVectors carries the job-side vectors, computed once per run and
// read-only during stage-1.
type queryVectors struct {
	text  similarity.Vector
	skill similarity.Vector
}

// ScoreStage1 computes the blended stage-1 score for one candidate. textVec
// and skillVec are the candidate's precomputed snapshot vectors; either may
// be nil, which zeroes the corresponding similarity signal.
func ScoreStage1(cand types.Candidate, profile *types.RequirementProfile, textVec, skillVec similarity.Vector, query queryVectors) (float64, types.ScoreBreakdown) {
	softSim := similarity.Cosine(query.text, textVec)
	skillSim := similarity.Cosine(query.skill, skillVec)
	lfOverlap := lookingForOverlap(profile.RoleKeywords, cand.LookingFor)
	expScore := experienceScore(cand.ExperienceYears, profile.MinExperienceYears)
	engScore := englishScore(cand.EnglishLevel, profile.EnglishLevel)

	stage1 := weightSkillSim*skillSim +
		weightSoftSim*softSim +
		weightLFOverlap*lfOverlap +
		weightExpScore*expScore +
		weightEngScore*engScore
	stage1 = clampUnit(stage1)

	return stage1, types.ScoreBreakdown{
		SkillSim:  skillSim,
		SoftSim:   softSim,
		LFOverlap: lfOverlap,
		ExpScore:  expScore,
		EngScore:  engScore,
		Stage1:    stage1,
		ExpYears:  cand.ExperienceYears,
		MinYears:  profile.MinExperienceYears,
	}
}

// lookingForOverlap is the fraction of distinct role keywords that appear as
// tokens in the candidate's looking-for text.
func lookingForOverlap(roleKeywords []string, lookingFor string) float64 {
	if len(roleKeywords) == 0 {
		return 0
	}
	lfTokens := tokenizeLower(lookingFor)
	if len(lfTokens) == 0 {
		return 0
	}

	keywords := make(map[string]bool, len(roleKeywords))
	for _, kw := range roleKeywords {
		if k := strings.ToLower(strings.TrimSpace(kw)); k != "" {
			keywords[k] = true
		}
	}
	if len(keywords) == 0 {
		return 0
	}

	matched := make(map[string]bool, len(keywords))
	for _, tok := range lfTokens {
		if keywords[tok] {
			matched[tok] = true
		}
	}
	return float64(len(matched)) / float64(len(keywords))
}

// experienceScore gives full credit at or above the required minimum and
// linear partial credit below it. The partial-credit slope is a tunable
// policy, not a hard rule; the cap below 1.0 is deliberate.
func experienceScore(years, minYears float64) float64 {
	if years >= minYears {
		return 1.0
	}
	denom := minYears
	if denom < 1 {
		denom = 1
	}
	score := years / denom
	if score >= 1 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

// englishScore is pass/fail: full credit when no requirement exists or the
// candidate's ladder rank meets it, zero otherwise.
func englishScore(level, required types.EnglishLevel) float64 {
	if required == "" {
		return 1.0
	}
	if level.Satisfies(required) {
		return 1.0
	}
	return 0
}

// tokenizeLower splits on whitespace after mapping the common list
// separators to spaces.
func tokenizeLower(text string) []string {
	normalized := strings.NewReplacer("/", " ", ",", " ", ";", " ").Replace(text)
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
