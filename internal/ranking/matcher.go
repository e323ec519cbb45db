package ranking

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Chenxi-dot/smartHR/internal/analysis"
	"github.com/Chenxi-dot/smartHR/internal/corpus"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// Pipeline defaults, overridable through Options.
const (
	DefaultTopK         = 100
	DefaultStage1Limit  = 20
	DefaultStage2Limit  = 5
	DefaultStage2Weight = 0.4
	DefaultStage2Budget = 8 * time.Second
)

// InputError marks a rejected request, such as an empty job description. It
// is fatal to the call and surfaced verbatim.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// InitializationError marks a corpus load or model fit failure. Fatal to the
// call.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// Options tunes the pipeline cutoffs and budget.
type Options struct {
	TopK         int
	Stage1Limit  int
	Stage2Limit  int
	Stage2Weight float64
	Stage2Budget time.Duration
	Concurrency  int // stage-1 workers; 0 means one per CPU
}

// DefaultOptions returns the standard cutoffs.
func DefaultOptions() Options {
	return Options{
		TopK:         DefaultTopK,
		Stage1Limit:  DefaultStage1Limit,
		Stage2Limit:  DefaultStage2Limit,
		Stage2Weight: DefaultStage2Weight,
		Stage2Budget: DefaultStage2Budget,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopK <= 0 {
		o.TopK = d.TopK
	}
	if o.Stage1Limit <= 0 {
		o.Stage1Limit = d.Stage1Limit
	}
	if o.Stage2Limit <= 0 {
		o.Stage2Limit = d.Stage2Limit
	}
	if o.Stage2Weight <= 0 {
		o.Stage2Weight = d.Stage2Weight
	}
	if o.Stage2Budget <= 0 {
		o.Stage2Budget = d.Stage2Budget
	}
	return o
}

// scoredCandidate is one run's working record for a candidate: its corpus
// index, stage-1 score, and the result under construction. Each run owns its
// own slice; nothing here is shared across runs.
type scoredCandidate struct {
	index     int
	stage1    float64
	candidate types.Candidate
	result    types.MatchResult
}

// Run is one ranking request in flight or finished.
type Run struct {
	ID       string
	Progress *Progress

	mu      sync.Mutex
	results []types.MatchResult
	err     error
	done    bool
}

func (r *Run) finish(results []types.MatchResult, err error) {
	r.mu.Lock()
	r.results = results
	r.err = err
	r.done = true
	r.mu.Unlock()
}

// Results returns the run's output and whether it has completed.
func (r *Run) Results() ([]types.MatchResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results, r.done, r.err
}

// Matcher orchestrates ranking runs. Each run gets an isolated Progress and
// working buffers; the corpus snapshots behind the loader are the only shared
// state and are immutable once built.
type Matcher struct {
	loader   *corpus.Loader
	oracle   analysis.Oracle
	opts     Options
	logger   *zap.Logger
	reranker *Reranker

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMatcher wires the pipeline together.
func NewMatcher(loader *corpus.Loader, oracle analysis.Oracle, opts Options, logger *zap.Logger) *Matcher {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if oracle == nil {
		oracle = analysis.Disabled{}
	}
	return &Matcher{
		loader:   loader,
		oracle:   oracle,
		opts:     opts,
		logger:   logger,
		reranker: NewReranker(oracle, opts.Stage2Limit, opts.Stage2Weight, opts.Stage2Budget),
		runs:     make(map[string]*Run),
	}
}

// StartRun launches an asynchronous ranking run and returns its id. Progress
// and results are polled via Lookup.
func (m *Matcher) StartRun(query, roleFilter string) string {
	runID := uuid.NewString()
	run := &Run{
		ID:       runID,
		Progress: NewProgress().WithLogger(m.logger.With(zap.String("run_id", runID))),
	}

	m.mu.Lock()
	m.runs[run.ID] = run
	m.mu.Unlock()

	go func() {
		results, err := m.Match(context.Background(), query, roleFilter, run.Progress)
		run.finish(results, err)
		if err != nil {
			m.logger.Warn("ranking run failed", zap.String("run_id", run.ID), zap.Error(err))
			return
		}
		m.logger.Info("ranking run complete",
			zap.String("run_id", run.ID), zap.Int("results", len(results)))
	}()

	return run.ID
}

// Lookup returns the run for id, if any.
func (m *Matcher) Lookup(id string) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	return run, ok
}

// Match executes the full pipeline synchronously, reporting through progress.
// progress may be nil.
func (m *Matcher) Match(ctx context.Context, query, roleFilter string, progress *Progress) ([]types.MatchResult, error) {
	if progress == nil {
		progress = NewProgress().WithLogger(m.logger)
	}
	progress.Set(0, "Initializing...")

	if strings.TrimSpace(query) == "" {
		err := &InputError{Message: "job description is empty"}
		progress.Fail(err.Message)
		return nil, err
	}

	progress.Log("Loading candidates...")
	snap, err := m.loader.Load(ctx, roleFilter)
	if err != nil {
		initErr := &InitializationError{Err: err}
		progress.Fail(initErr.Error())
		return nil, initErr
	}
	progress.Log(fmt.Sprintf("Initialized %d candidates.", len(snap.Candidates)))

	progress.Set(10, "Step 1: Analyzing job description intent and requirements...")
	profile := m.parseRequirements(ctx, query, progress)

	query2 := queryVectors{
		text:  snap.TextModel.Vector(query),
		skill: snap.SkillModel.Vector(strings.Join(append(append([]string{}, profile.RoleKeywords...), profile.RequiredSkills...), " ")),
	}

	scored, err := m.runStage1(ctx, snap, profile, query2, progress)
	if err != nil {
		progress.Fail(err.Error())
		return nil, err
	}

	prefix := scored
	if len(prefix) > m.opts.Stage1Limit {
		prefix = prefix[:m.opts.Stage1Limit]
	}
	progress.Set(60, fmt.Sprintf("Stage-1 complete. Kept top %d for deep rerank.", len(prefix)))

	if m.oracle.Available() {
		progress.Set(65, fmt.Sprintf("Step 3: Stage-2 deep rerank on top %d candidates...", minInt(len(prefix), m.opts.Stage2Limit)))
		m.reranker.Rerank(ctx, query, prefix, progress)
	} else {
		progress.Log("Stage-2 skipped: analysis oracle unavailable. Returning Stage-1 scores only.")
	}

	final := make([]types.MatchResult, 0, len(prefix))
	for _, sc := range prefix {
		final = append(final, sc.result)
	}
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].TotalScore > final[j].TotalScore
	})
	if len(final) > m.opts.TopK {
		final = final[:m.opts.TopK]
	}

	progress.Set(100, fmt.Sprintf("Ranking complete. Returning top %d candidates.", len(final)))
	progress.Finish()
	return final, nil
}

// parseRequirements asks the oracle for a structured profile, degrading to
// the empty profile on any failure.
func (m *Matcher) parseRequirements(ctx context.Context, query string, progress *Progress) *types.RequirementProfile {
	if !m.oracle.Available() {
		progress.Log("Requirement parsing skipped: analysis oracle unavailable.")
		return types.EmptyRequirementProfile()
	}
	profile, err := m.oracle.ParseRequirements(ctx, query)
	if err != nil {
		progress.Log(fmt.Sprintf("Requirement parsing degraded to defaults: %v", err))
		return types.EmptyRequirementProfile()
	}
	return profile
}

// runStage1 scores every candidate concurrently and returns them sorted by
// stage-1 score descending, corpus order breaking ties.
func (m *Matcher) runStage1(ctx context.Context, snap *corpus.Snapshot, profile *types.RequirementProfile, query queryVectors, progress *Progress) ([]*scoredCandidate, error) {
	total := len(snap.Candidates)
	progress.Set(25, fmt.Sprintf("Step 2: Stage-1 scoring over %d candidates (intent + skills)...", total))
	if total == 0 {
		return nil, nil
	}

	scored := make([]*scoredCandidate, total)
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	if m.opts.Concurrency > 0 {
		g.SetLimit(m.opts.Concurrency)
	} else {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := range snap.Candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cand := snap.Candidates[i]
			stage1, breakdown := ScoreStage1(cand, profile, snap.TextVectors[i], snap.SkillVectors[i], query)
			scored[i] = &scoredCandidate{
				index:     i,
				stage1:    stage1,
				candidate: cand,
				result:    buildResult(cand, stage1, breakdown),
			}

			done := completed.Add(1)
			progress.Set(25+int(done)*35/total, fmt.Sprintf("Stage-1 scoring %d/%d", done, total))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stage-1 scoring aborted: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].stage1 > scored[j].stage1
	})
	return scored, nil
}

// buildResult fills the stage-1 view of a result. Stage-2 may later overwrite
// TotalScore and attach the LLM fields.
func buildResult(cand types.Candidate, stage1 float64, breakdown types.ScoreBreakdown) types.MatchResult {
	var tags []string
	if breakdown.MinYears > 0 {
		tags = []string{fmt.Sprintf("%d+ Years", int(breakdown.MinYears))}
	}
	return types.MatchResult{
		ID:           cand.ID,
		Name:         cand.Name,
		Position:     cand.Position,
		EnglishLevel: cand.EnglishLevel,
		Skills:       cand.SkillHints,
		TotalScore:   round1(stage1 * 100),
		HardPassRate: math.Round(breakdown.ExpScore * 100),
		SoftScore:    round3(breakdown.SoftSim),
		Tags:         tags,
		RawExpYears:  cand.ExperienceYears,
		Breakdown:    breakdown,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
