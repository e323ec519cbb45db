// Package analysis provides the Analysis Oracle: LLM-backed extraction of
// structured requirements from a job description and deep fit evaluation of
// individual candidates. Oracle failures are expected and non-fatal; callers
// degrade to an empty profile or a zero fit score.
package analysis

import (
	"context"

	"github.com/Chenxi-dot/smartHR/internal/types"
)

// Oracle is the capability interface for language-model judgments. It may be
// unavailable (no API key configured) or fail per call; neither condition is
// fatal to the ranking pipeline.
type Oracle interface {
	// Available reports whether the oracle can serve calls at all. When
	// false, the stage-2 rerank is skipped entirely.
	Available() bool
	// ParseRequirements extracts a RequirementProfile from job text.
	ParseRequirements(ctx context.Context, jobText string) (*types.RequirementProfile, error)
	// EvaluateFit scores one candidate summary against the job text.
	EvaluateFit(ctx context.Context, jobText, candidateSummary string) (*types.FitEvaluation, error)
}

// Disabled is the no-op oracle selected at startup when no API key is
// configured. Ranking still runs, stage-1 only.
type Disabled struct{}

// Available always reports false.
func (Disabled) Available() bool { return false }

// ParseRequirements returns the empty degraded profile.
func (Disabled) ParseRequirements(context.Context, string) (*types.RequirementProfile, error) {
	return types.EmptyRequirementProfile(), nil
}

// EvaluateFit returns a zero evaluation.
func (Disabled) EvaluateFit(context.Context, string, string) (*types.FitEvaluation, error) {
	return &types.FitEvaluation{}, nil
}
