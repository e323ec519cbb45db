package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chenxi-dot/smartHR/internal/llm"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// fakeClient returns a canned response or error for every GenerateJSON call.
type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastTier   llm.ModelTier
	calls      int
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastTier = tier
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func TestParseRequirements_Success(t *testing.T) {
	client := &fakeClient{response: `{
		"role_title": "Senior Go Engineer",
		"role_keywords": ["Go", "go", "  Backend  ", "grpc"],
		"hard_requirements": {
			"min_experience_years": 5,
			"required_skills": ["Go", "PostgreSQL", "postgresql"],
			"english_level": "B2"
		},
		"soft_requirements": {
			"traits": ["Ownership"],
			"preferred": ["Kubernetes"]
		}
	}`}

	oracle := NewGeminiOracle(client, nil)
	profile, err := oracle.ParseRequirements(context.Background(), "job text")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", profile.RoleTitle)
	assert.Equal(t, []string{"go", "backend", "grpc"}, profile.RoleKeywords)
	assert.Equal(t, []string{"go", "postgresql"}, profile.RequiredSkills)
	assert.Equal(t, 5.0, profile.MinExperienceYears)
	assert.Equal(t, types.EnglishUpper, profile.EnglishLevel)
	assert.Equal(t, []string{"ownership"}, profile.Traits)
	assert.Equal(t, llm.TierLite, client.lastTier)
	assert.Contains(t, client.lastPrompt, "job text")
}

func TestParseRequirements_NullFields(t *testing.T) {
	client := &fakeClient{response: `{
		"role_title": null,
		"role_keywords": ["python"],
		"hard_requirements": {
			"min_experience_years": null,
			"required_skills": null,
			"english_level": null
		},
		"soft_requirements": {}
	}`}

	oracle := NewGeminiOracle(client, nil)
	profile, err := oracle.ParseRequirements(context.Background(), "jd")
	require.NoError(t, err)

	assert.Empty(t, profile.RoleTitle)
	assert.Zero(t, profile.MinExperienceYears)
	assert.Empty(t, profile.EnglishLevel)
	assert.Empty(t, profile.RequiredSkills)
}

func TestParseRequirements_SchemaViolation(t *testing.T) {
	// role_keywords must be an array of strings.
	client := &fakeClient{response: `{"role_keywords": "go", "hard_requirements": {}, "soft_requirements": {}}`}

	oracle := NewGeminiOracle(client, nil)
	_, err := oracle.ParseRequirements(context.Background(), "jd")
	assert.Error(t, err)
}

func TestParseRequirements_ClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	oracle := NewGeminiOracle(client, nil)
	_, err := oracle.ParseRequirements(context.Background(), "jd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEvaluateFit_Success(t *testing.T) {
	client := &fakeClient{response: `{
		"fit_score": 82,
		"strengths": ["Strong Go background", "  "],
		"risks": ["No Kafka experience"],
		"verdict": " Solid fit. "
	}`}

	oracle := NewGeminiOracle(client, nil)
	eval, err := oracle.EvaluateFit(context.Background(), "jd", "summary")
	require.NoError(t, err)

	assert.Equal(t, 82.0, eval.FitScore)
	assert.Equal(t, []string{"Strong Go background"}, eval.Strengths)
	assert.Equal(t, []string{"No Kafka experience"}, eval.Risks)
	assert.Equal(t, "Solid fit.", eval.Verdict)
	assert.Equal(t, llm.TierStandard, client.lastTier)
}

func TestEvaluateFit_ClampsScore(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"above range", `{"fit_score": 140}`, 100},
		{"below range", `{"fit_score": -3}`, 0},
		{"in range", `{"fit_score": 55.5}`, 55.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := NewGeminiOracle(&fakeClient{response: tt.response}, nil)
			eval, err := oracle.EvaluateFit(context.Background(), "jd", "summary")
			require.NoError(t, err)
			assert.Equal(t, tt.want, eval.FitScore)
		})
	}
}

func TestEvaluateFit_MissingScore(t *testing.T) {
	client := &fakeClient{response: `{"verdict": "looks fine"}`}

	oracle := NewGeminiOracle(client, nil)
	_, err := oracle.EvaluateFit(context.Background(), "jd", "summary")
	assert.Error(t, err)
}

func TestDisabledOracle(t *testing.T) {
	var oracle Disabled

	assert.False(t, oracle.Available())

	profile, err := oracle.ParseRequirements(context.Background(), "jd")
	require.NoError(t, err)
	assert.Equal(t, types.EmptyRequirementProfile(), profile)

	eval, err := oracle.EvaluateFit(context.Background(), "jd", "summary")
	require.NoError(t, err)
	assert.Zero(t, eval.FitScore)
}
