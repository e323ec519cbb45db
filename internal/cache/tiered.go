package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Tiered consults a hot tier then a durable tier, validating the content
// fingerprint at each level. A durable hit is promoted back into the hot
// tier so subsequent reads are served hot.
type Tiered struct {
	hot     Tier // optional
	durable Tier
	logger  *zap.Logger
}

// NewTiered builds the cache. hot may be nil, in which case reads and writes
// go straight to the durable tier with no promotion step.
func NewTiered(hot, durable Tier, logger *zap.Logger) *Tiered {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tiered{hot: hot, durable: durable, logger: logger}
}

// Get returns the payload stored for (id, fingerprint). A stored entry whose
// fingerprint differs from the requested one is a miss at every tier: the
// caller recomputes and overwrites, the cache never repairs in place.
func (t *Tiered) Get(ctx context.Context, id, fingerprint string) ([]byte, bool) {
	if t.hot != nil {
		entry, err := t.hot.Get(ctx, id)
		if err != nil {
			t.logger.Warn("hot tier read failed",
				zap.String("tier", t.hot.Name()), zap.String("id", id), zap.Error(err))
		} else if entry != nil && entry.Fingerprint == fingerprint {
			return entry.Payload, true
		}
	}

	entry, err := t.durable.Get(ctx, id)
	if err != nil {
		t.logger.Warn("durable tier read failed",
			zap.String("tier", t.durable.Name()), zap.String("id", id), zap.Error(err))
		return nil, false
	}
	if entry == nil || entry.Fingerprint != fingerprint {
		return nil, false
	}

	// Promote so the next read is served hot.
	if t.hot != nil {
		if err := t.hot.Put(ctx, id, entry); err != nil {
			t.logger.Warn("hot tier promotion failed",
				zap.String("tier", t.hot.Name()), zap.String("id", id), zap.Error(err))
		}
	}
	return entry.Payload, true
}

// Put writes the payload to every available tier. Tier writes are
// independent best-effort: a failure in one tier is logged and does not
// prevent the other tier's write.
func (t *Tiered) Put(ctx context.Context, id, fingerprint string, payload []byte) {
	entry := &Entry{
		Fingerprint: fingerprint,
		Payload:     payload,
		StoredAt:    time.Now().UTC(),
	}
	if t.hot != nil {
		if err := t.hot.Put(ctx, id, entry); err != nil {
			t.logger.Warn("hot tier write failed",
				zap.String("tier", t.hot.Name()), zap.String("id", id), zap.Error(err))
		}
	}
	if err := t.durable.Put(ctx, id, entry); err != nil {
		t.logger.Warn("durable tier write failed",
			zap.String("tier", t.durable.Name()), zap.String("id", id), zap.Error(err))
	}
}
