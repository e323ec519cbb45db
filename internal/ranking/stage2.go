package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/Chenxi-dot/smartHR/internal/analysis"
)

// Reranker applies the oracle's deep fit evaluation to the stage-1 leaders
// under a wall-clock budget. The budget check is cooperative: it runs before
// each oracle call, so a slow in-flight call can overshoot the budget by at
// most its own duration.
type Reranker struct {
	oracle analysis.Oracle
	limit  int
	weight float64
	budget time.Duration
	now    func() time.Time
}

// NewReranker configures a reranker. weight is the share of the final score
// taken from the oracle's fit value.
func NewReranker(oracle analysis.Oracle, limit int, weight float64, budget time.Duration) *Reranker {
	return &Reranker{
		oracle: oracle,
		limit:  limit,
		weight: weight,
		budget: budget,
		now:    time.Now,
	}
}

// Rerank evaluates up to limit candidates from the stage-1 prefix in score
// order, mutating their results in place. It returns the number of
// candidates actually evaluated and whether the run stopped early on budget.
// Oracle failures degrade the candidate's fit to 0 and never abort the loop.
func (r *Reranker) Rerank(ctx context.Context, jobText string, prefix []*scoredCandidate, progress *Progress) (evaluated int, partial bool) {
	total := len(prefix)
	if total > r.limit {
		total = r.limit
	}
	if total == 0 {
		return 0, false
	}

	start := r.now()
	for i := 0; i < total; i++ {
		if r.now().Sub(start) > r.budget {
			progress.Set(95, "Stage-2 stopped early due to time budget; returning partial results.")
			return i, true
		}

		sc := prefix[i]
		progress.Set(65+(i+1)*30/total,
			fmt.Sprintf("Deep evaluation of candidate %s (%d/%d)...", sc.result.ID, i+1, total))

		fit := 0.0
		eval, err := r.oracle.EvaluateFit(ctx, jobText, sc.candidate.LongDescription)
		if err != nil {
			progress.Log(fmt.Sprintf("Fit evaluation failed for candidate %s: %v", sc.result.ID, err))
		} else {
			fit = eval.FitScore
			sc.result.LLMStrengths = eval.Strengths
			sc.result.LLMRisks = eval.Risks
			sc.result.LLMVerdict = eval.Verdict
		}

		combined := (1-r.weight)*sc.stage1*100 + r.weight*fit
		sc.result.TotalScore = round1(combined)
		fitRounded := round1(fit)
		sc.result.LLMFitScore = &fitRounded
	}
	return total, false
}
