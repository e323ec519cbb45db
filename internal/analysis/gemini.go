package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Chenxi-dot/smartHR/internal/llm"
	"github.com/Chenxi-dot/smartHR/internal/prompts"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// requirementsResponse mirrors the parse-requirements prompt schema.
type requirementsResponse struct {
	RoleTitle        *string  `json:"role_title"`
	RoleKeywords     []string `json:"role_keywords"`
	HardRequirements struct {
		MinExperienceYears *float64 `json:"min_experience_years"`
		RequiredSkills     []string `json:"required_skills"`
		EnglishLevel       *string  `json:"english_level"`
	} `json:"hard_requirements"`
	SoftRequirements struct {
		Traits    []string `json:"traits"`
		Preferred []string `json:"preferred"`
	} `json:"soft_requirements"`
}

// fitResponse mirrors the evaluate-fit prompt schema.
type fitResponse struct {
	FitScore  float64  `json:"fit_score"`
	Strengths []string `json:"strengths"`
	Risks     []string `json:"risks"`
	Verdict   string   `json:"verdict"`
}

// GeminiOracle implements Oracle on top of the Gemini client. Requirement
// parsing uses the lite tier; fit evaluation uses the standard tier.
type GeminiOracle struct {
	client llm.Client
	logger *zap.Logger
}

// NewGeminiOracle wraps an LLM client as an Oracle.
func NewGeminiOracle(client llm.Client, logger *zap.Logger) *GeminiOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiOracle{client: client, logger: logger}
}

// Available reports whether a backing client exists.
func (o *GeminiOracle) Available() bool {
	return o != nil && o.client != nil
}

// ParseRequirements extracts a structured RequirementProfile from raw job
// text. The response is schema-validated and post-processed: keywords and
// skills lowercased and deduplicated, english level normalized to the ladder.
func (o *GeminiOracle) ParseRequirements(ctx context.Context, jobText string) (*types.RequirementProfile, error) {
	if !o.Available() {
		return nil, fmt.Errorf("oracle is not available")
	}

	prompt := prompts.Format(prompts.MustGet("analysis.json", "parse-requirements"), map[string]string{
		"JobText": jobText,
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("requirement parsing failed: %w", err)
	}
	if err := validateResponse(requirementsSchema, raw); err != nil {
		o.logger.Warn("requirement parse response rejected", zap.Error(err))
		return nil, err
	}

	var resp requirementsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode requirements: %w", err)
	}

	profile := &types.RequirementProfile{
		RoleKeywords:   normalizeTerms(resp.RoleKeywords),
		RequiredSkills: normalizeTerms(resp.HardRequirements.RequiredSkills),
		Traits:         normalizeTerms(resp.SoftRequirements.Traits),
		Preferred:      normalizeTerms(resp.SoftRequirements.Preferred),
	}
	if resp.RoleTitle != nil {
		profile.RoleTitle = strings.TrimSpace(*resp.RoleTitle)
	}
	if resp.HardRequirements.MinExperienceYears != nil && *resp.HardRequirements.MinExperienceYears > 0 {
		profile.MinExperienceYears = *resp.HardRequirements.MinExperienceYears
	}
	if resp.HardRequirements.EnglishLevel != nil {
		profile.EnglishLevel = types.NormalizeEnglishLevel(*resp.HardRequirements.EnglishLevel)
	}

	return profile, nil
}

// EvaluateFit asks the oracle for a holistic 0-100 fit judgment of one
// candidate summary against the job text. Scores outside the range are
// clamped rather than rejected.
func (o *GeminiOracle) EvaluateFit(ctx context.Context, jobText, candidateSummary string) (*types.FitEvaluation, error) {
	if !o.Available() {
		return nil, fmt.Errorf("oracle is not available")
	}

	prompt := prompts.Format(prompts.MustGet("analysis.json", "evaluate-fit"), map[string]string{
		"JobText":          jobText,
		"CandidateSummary": candidateSummary,
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("fit evaluation failed: %w", err)
	}
	if err := validateResponse(fitSchema, raw); err != nil {
		o.logger.Warn("fit evaluation response rejected", zap.Error(err))
		return nil, err
	}

	var resp fitResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode fit evaluation: %w", err)
	}

	eval := &types.FitEvaluation{
		FitScore:  clamp(resp.FitScore, 0, 100),
		Strengths: trimList(resp.Strengths),
		Risks:     trimList(resp.Risks),
		Verdict:   strings.TrimSpace(resp.Verdict),
	}
	return eval, nil
}

// normalizeTerms lowercases, trims, and deduplicates a term list while
// preserving first-seen order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// trimList drops empty entries without changing case or order.
func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
