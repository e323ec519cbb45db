package corpus

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Chenxi-dot/smartHR/internal/cache"
	"github.com/Chenxi-dot/smartHR/internal/similarity"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// Snapshot is an immutable view of the corpus for one role filter: the
// filtered candidates in corpus order plus TF-IDF models fitted on them and
// their precomputed vectors. Snapshots are shared across runs and never
// mutated after construction.
type Snapshot struct {
	Candidates   []types.Candidate
	TextModel    *similarity.Model
	SkillModel   *similarity.Model
	TextVectors  []similarity.Vector
	SkillVectors []similarity.Vector
}

// Loader reads the candidate dataset once and serves per-filter snapshots.
// Snapshots are memoized; the map is replaced wholesale under the mutex
// rather than mutated in place.
type Loader struct {
	path          string
	maxCandidates int
	cache         *cache.Tiered
	logger        *zap.Logger

	mu        sync.Mutex
	all       []types.Candidate
	loaded    bool
	snapshots map[string]*Snapshot
}

// NewLoader creates a Loader over the CSV at path. The tiered cache is
// optional; pass nil to always derive records from source.
func NewLoader(path string, maxCandidates int, tc *cache.Tiered, logger *zap.Logger) *Loader {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		path:          path,
		maxCandidates: maxCandidates,
		cache:         tc,
		logger:        logger,
		snapshots:     make(map[string]*Snapshot),
	}
}

// Load returns the snapshot for roleFilter, building and memoizing it on
// first use. Role filtering is a case-insensitive substring match on the
// candidate's Position.
func (l *Loader) Load(ctx context.Context, roleFilter string) (*Snapshot, error) {
	key := strings.ToLower(strings.TrimSpace(roleFilter))

	l.mu.Lock()
	if snap, ok := l.snapshots[key]; ok {
		l.mu.Unlock()
		return snap, nil
	}
	if err := l.ensureLoadedLocked(ctx); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	all := l.all
	l.mu.Unlock()

	snap, err := buildSnapshot(ctx, filterByPosition(all, key))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	next := make(map[string]*Snapshot, len(l.snapshots)+1)
	for k, v := range l.snapshots {
		next[k] = v
	}
	next[key] = snap
	l.snapshots = next
	l.mu.Unlock()

	l.logger.Info("corpus snapshot ready",
		zap.String("role_filter", key),
		zap.Int("candidates", len(snap.Candidates)))
	return snap, nil
}

// Size returns the number of candidates in the full dataset, loading it if
// needed.
func (l *Loader) Size(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureLoadedLocked(ctx); err != nil {
		return 0, err
	}
	return len(l.all), nil
}

func (l *Loader) ensureLoadedLocked(ctx context.Context) error {
	if l.loaded {
		return nil
	}
	records, err := readRecords(l.path, l.maxCandidates)
	if err != nil {
		return err
	}
	l.all = normalizeAll(ctx, records, l.cache, l.logger)
	l.loaded = true
	return nil
}

func filterByPosition(all []types.Candidate, filter string) []types.Candidate {
	if filter == "" {
		return all
	}
	out := make([]types.Candidate, 0, len(all))
	for _, cand := range all {
		if strings.Contains(strings.ToLower(cand.Position), filter) {
			out = append(out, cand)
		}
	}
	return out
}

// buildSnapshot fits both TF-IDF models on the filtered candidates and
// precomputes every candidate vector with bounded concurrency.
func buildSnapshot(ctx context.Context, candidates []types.Candidate) (*Snapshot, error) {
	docs := make([]string, len(candidates))
	skillDocs := make([]string, len(candidates))
	for i, cand := range candidates {
		docs[i] = cand.LongDescription
		skillDocs[i] = strings.Join(cand.SkillHints, " ")
	}

	snap := &Snapshot{
		Candidates:   candidates,
		TextModel:    similarity.Fit(docs, similarity.WordOptions()),
		SkillModel:   similarity.Fit(skillDocs, similarity.CharOptions()),
		TextVectors:  make([]similarity.Vector, len(candidates)),
		SkillVectors: make([]similarity.Vector, len(candidates)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap.TextVectors[i] = snap.TextModel.Vector(docs[i])
			snap.SkillVectors[i] = snap.SkillModel.Vector(skillDocs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to vectorize corpus: %w", err)
	}
	return snap, nil
}
