// Package session implements the owning unit of a Vocabulary, a Component
// KB, and an HDC context — the concurrency boundary described throughout
// spec.md §5 — plus the external surface (`learn`, `query`, `prove`,
// `abduce`, `findAll`, `elaborate`) and the Statement DSL integration.
package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OutfinityResearch/AGISystem2-sub015/internal/obslog"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/encode"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/kb"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/meta"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/query"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/reason"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vector"
	"github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"
)

// Session owns a Vocabulary, a Component KB, an HDC context, and the
// reasoning stack built on top of them. It is not thread-safe (§5): a
// single reader-writer lock around the Session is the expected external
// synchronization pattern.
type Session struct {
	ID   string
	opts SessionOptions

	ctx      *vector.Context
	voc      *vocab.Vocabulary
	enc      *encode.Encoder
	store    *kb.Store
	reasoner *reason.Reasoner
	engine   *query.Engine
	meta     *meta.Dispatcher
	logger   *zap.Logger

	stats statsCounters
}

// New builds a Session from opts, preloading the Vocabulary's core position
// atoms, reserved operator markers, and (per ReasoningProfile) its declared
// operator pack.
func New(opts SessionOptions) (*Session, error) {
	opts.envOverrides()

	registry := vector.NewRegistry()
	id := uuid.NewString()

	logger, err := obslog.New(opts.Logging, id)
	if err != nil {
		return nil, err
	}
	sessLogger := obslog.For(logger, obslog.CategorySession)

	ctx, err := vector.NewContext(registry, opts.Strategy, opts.Geometry, id)
	if err != nil {
		return nil, err
	}
	theoryID := opts.TheoryID
	if theoryID == "" {
		theoryID = id
	}
	voc, err := vocab.New(ctx, theoryID, opts.AutoLoadCore)
	if err != nil {
		return nil, err
	}
	if opts.AutoLoadCore {
		if err := preloadOperatorPack(voc, opts.ReasoningProfile); err != nil {
			return nil, err
		}
	}

	enc := encode.New(ctx, voc)
	store := kb.New(opts.FactLimit, obslog.For(logger, obslog.CategoryKB))
	reasoner := reason.New(store, obslog.For(logger, obslog.CategoryReason))
	engine := query.New(store, voc, reasoner, opts.ClosedWorldAssumption, obslog.For(logger, obslog.CategoryQuery))
	metaDisp := meta.New(store, voc, reasoner, obslog.For(logger, obslog.CategoryMeta))
	engine.SetMetaDispatcher(metaDisp)

	sessLogger.Info("session created",
		zap.String("strategy", opts.Strategy),
		zap.Uint32("geometry", opts.Geometry),
		zap.String("profile", opts.ReasoningProfile))

	return &Session{
		ID:       id,
		opts:     opts,
		ctx:      ctx,
		voc:      voc,
		enc:      enc,
		store:    store,
		reasoner: reasoner,
		engine:   engine,
		meta:     metaDisp,
		logger:   sessLogger,
	}, nil
}

// queryConfig builds a query.Config from the session's defaults, applying a
// caller override for timeout/depth only when explicitly set (non-zero).
func (s *Session) queryConfig(opts *QueryOptions) query.Config {
	cfg := query.Config{
		TimeoutMs: s.opts.ReasoningTimeoutMs,
		MaxDepth:  s.opts.MaxProofDepth,
		TopK:      DefaultLimits.MetaTopK,
	}
	if opts != nil {
		if opts.TimeoutMs > 0 {
			cfg.TimeoutMs = opts.TimeoutMs
		}
		if opts.MaxDepth > 0 {
			cfg.MaxDepth = opts.MaxDepth
		}
		if opts.TopK > 0 {
			cfg.TopK = opts.TopK
		}
	}
	return cfg
}

// QueryOptions is the optional per-call override accepted by query/prove/
// findAll/abduce (the `opts?` parameter in §6's external interfaces).
type QueryOptions struct {
	TimeoutMs int
	MaxDepth  int
	TopK      int
}

type statsCounters struct {
	queriesRun  int
	timeouts    int
	maxDepthSeen int
	lastQueryDur time.Duration
}

// Stats summarizes a Session's KB and reasoning activity, grounded on the
// teacher's mangle.Stats (internal/mangle/engine.go).
type Stats struct {
	TotalFacts     int
	TotalRules     int
	OperatorCounts map[string]int
	QueriesRun     int
	Timeouts       int
	MaxDepthSeen   int
	LastQueryMs    int64
}

// Stats snapshots the Session's current statistics.
func (s *Session) Stats() Stats {
	kbStats := s.store.Stats()
	return Stats{
		TotalFacts:     kbStats.TotalFacts,
		TotalRules:     kbStats.TotalRules,
		OperatorCounts: kbStats.OperatorCounts,
		QueriesRun:     s.stats.queriesRun,
		Timeouts:       s.stats.timeouts,
		MaxDepthSeen:   s.stats.maxDepthSeen,
		LastQueryMs:    s.stats.lastQueryDur.Milliseconds(),
	}
}
