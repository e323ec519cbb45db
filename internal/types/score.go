package types

// ScoreBreakdown holds the five raw stage-1 sub-signals for one candidate,
// each normalized to [0,1], plus the blended stage-1 score. Stage-2 fields
// live on MatchResult and are present only for reranked candidates.
type ScoreBreakdown struct {
	SkillSim  float64 `json:"skill_sim"`
	SoftSim   float64 `json:"soft_sim"`
	LFOverlap float64 `json:"lf_overlap"`
	ExpScore  float64 `json:"exp_score"`
	EngScore  float64 `json:"eng_score"`
	Stage1    float64 `json:"stage1"`

	ExpYears float64 `json:"exp_years"`
	MinYears float64 `json:"min_years"`
}

// FitEvaluation is the Analysis Oracle's deep judgment of one candidate
// against a job description.
type FitEvaluation struct {
	FitScore  float64  `json:"fit_score"`
	Strengths []string `json:"strengths"`
	Risks     []string `json:"risks"`
	Verdict   string   `json:"verdict"`
}

// MatchResult is one entry of the final ranked output. TotalScore is on the
// 0-100 scale, rounded to one decimal. LLM fields are nil/empty unless the
// candidate went through the stage-2 rerank.
type MatchResult struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Position     string       `json:"position"`
	EnglishLevel EnglishLevel `json:"english_level"`
	Skills       []string     `json:"skills"`
	TotalScore   float64      `json:"total_score"`
	HardPassRate float64      `json:"hard_pass_rate"`
	SoftScore    float64      `json:"soft_score"`
	Tags         []string     `json:"tags"`
	RawExpYears  float64      `json:"raw_exp_years"`

	Breakdown ScoreBreakdown `json:"breakdown"`

	LLMFitScore  *float64 `json:"llm_fit_score,omitempty"`
	LLMStrengths []string `json:"llm_strengths,omitempty"`
	LLMRisks     []string `json:"llm_risks,omitempty"`
	LLMVerdict   string   `json:"llm_verdict,omitempty"`
}
