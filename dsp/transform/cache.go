package transform

import (
	"log/slog"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving plan lifecycle records at debug
// level. Records are discarded by default.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(cfg *cacheConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Cache shares one Plan per geometry between its users.
//
// Acquire hands out references; a plan leaves the cache when its last
// reference is released. A plan that was cleared explicitly is rebuilt
// on the next Acquire.
type Cache[C algofft.Complex] struct {
	planner Planner[C]
	logger  *slog.Logger

	mu    sync.Mutex
	plans map[Geometry]*Plan[C]
}

// NewCache returns an empty cache building plans with p. A nil p selects
// AlgoFFT.
func NewCache[C algofft.Complex](p Planner[C], opts ...CacheOption) *Cache[C] {
	if p == nil {
		p = AlgoFFT[C]{}
	}

	cfg := cacheConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Cache[C]{
		planner: p,
		logger:  cfg.logger,
		plans:   make(map[Geometry]*Plan[C]),
	}
}

// Planner returns the planner used for new plans.
func (c *Cache[C]) Planner() Planner[C] {
	return c.planner
}

// Acquire returns a plan for g holding one reference for the caller.
func (c *Cache[C]) Acquire(g Geometry) (*Plan[C], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if plan, ok := c.plans[g]; ok {
		if plan.Retain() == nil {
			c.logger.Debug("reusing transform plan", "geometry", g.String(), "refs", plan.Refs())
			return plan, nil
		}
		delete(c.plans, g)
	}

	plan, err := NewPlan(c.planner, g)
	if err != nil {
		return nil, err
	}
	plan.onRelease = c.forget
	c.plans[g] = plan
	c.logger.Debug("built transform plan", "geometry", g.String())
	return plan, nil
}

// forget removes plan from the cache if it is still the entry for its
// geometry.
func (c *Cache[C]) forget(plan *Plan[C]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.plans[plan.geom] == plan {
		delete(c.plans, plan.geom)
		c.logger.Debug("released transform plan", "geometry", plan.geom.String())
	}
}

// Len returns the number of cached geometries.
func (c *Cache[C]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.plans)
}

// Purge clears every cached plan and empties the cache. Holders of
// purged plans get ErrPlanCleared on their next execution.
func (c *Cache[C]) Purge() {
	c.mu.Lock()
	plans := c.plans
	c.plans = make(map[Geometry]*Plan[C])
	c.mu.Unlock()

	for _, plan := range plans {
		plan.Clear()
	}
	c.logger.Debug("purged transform plans", "count", len(plans))
}
