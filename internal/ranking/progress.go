package ranking

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Chenxi-dot/smartHR/internal/types"
)

// Progress tracks one run's advancement. Every run owns its own Progress;
// nothing is shared between runs. Percentage updates are clamped to [0, 100]
// and never move backwards, so interleaved worker updates cannot make the
// reported progress regress.
type Progress struct {
	log *zap.Logger

	mu      sync.Mutex
	percent int
	status  string
	logs    []string
	err     string
	done    bool
}

// NewProgress returns an idle tracker.
func NewProgress() *Progress {
	return &Progress{log: zap.NewNop(), status: "Idle"}
}

// WithLogger mirrors every progress-log entry to the given logger at Info
// level. Call before the run starts.
func (p *Progress) WithLogger(log *zap.Logger) *Progress {
	if log != nil {
		p.log = log
	}
	return p
}

// Set advances the percentage and status, appending the status to the log.
// A percentage lower than the current one updates status and log only.
func (p *Progress) Set(percent int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent > 100 {
		percent = 100
	}
	if percent > p.percent {
		p.percent = percent
	}
	p.setStatusLocked(status)
}

// Log appends a message without touching the percentage.
func (p *Progress) Log(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg := strings.TrimSpace(message); msg != "" {
		p.logs = append(p.logs, msg)
		p.log.Info(msg)
	}
}

// Fail records a fatal error and marks the run finished.
func (p *Progress) Fail(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = message
	p.done = true
	p.setStatusLocked(message)
}

// Finish marks the run complete.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

func (p *Progress) setStatusLocked(status string) {
	status = strings.TrimSpace(status)
	if status == "" {
		return
	}
	p.status = status
	p.logs = append(p.logs, status)
	p.log.Info(status, zap.Int("percentage", p.percent))
}

// Snapshot returns a copy consistent with the last fully-applied update.
func (p *Progress) Snapshot() types.RunProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	logs := make([]string, len(p.logs))
	copy(logs, p.logs)
	return types.RunProgress{
		Percentage: p.percent,
		Status:     p.status,
		Logs:       logs,
		Error:      p.err,
		Done:       p.done,
	}
}
