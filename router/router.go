// Package router implements the adaptive worker-routing policy: an ε-greedy
// multi-armed bandit over the registered worker set. Each worker is an arm;
// per-arm running statistics persist for the lifetime of the router, so
// verification outcomes on early steps shape selection on later ones.
package router

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/worker"
)

// Config defines the selection policy parameters.
type Config struct {
	// Epsilon is the probability of random exploration per score draw.
	Epsilon float64

	// CostWeight is the weight of mean cost in the exploitation score:
	// score = meanReward − CostWeight·meanCost.
	CostWeight float64
}

// DefaultConfig provides the baseline policy: occasional exploration,
// cost ignored.
var DefaultConfig = Config{Epsilon: 0.05, CostWeight: 0.0}

// ArmStat tracks the running statistics for one worker (arm).
// Means are exact arithmetic means of all updates applied so far.
type ArmStat struct {
	Pulls      int     `json:"pulls"`
	MeanReward float64 `json:"mean_reward"`
	MeanCost   float64 `json:"mean_cost"`
}

// Update applies one observation using the incremental mean formula.
func (s *ArmStat) Update(reward, cost float64) {
	s.Pulls++
	s.MeanReward += (reward - s.MeanReward) / float64(s.Pulls)
	s.MeanCost += (cost - s.MeanCost) / float64(s.Pulls)
}

// Options configures a Router.
type Options struct {
	Config Config

	// Seed seeds the router-owned random generator. Two routers constructed
	// with the same seed, worker set and call sequence make identical
	// decisions.
	Seed int64

	// Logger used for routing decisions (defaults to NoOp).
	Logger logging.Logger
}

// Router selects workers for plan steps and learns from step outcomes. The
// random generator is owned exclusively by the Router and never shared, which
// keeps exploration reproducible. Router is not safe for concurrent use; the
// orchestration loop is its single writer.
type Router struct {
	cfg    Config
	specs  []worker.Spec // registration order, the tie-break order for equal scores
	stats  map[string]*ArmStat
	rng    *rand.Rand
	logger logging.Logger
}

// New creates a Router over the given worker specs.
func New(specs []worker.Spec, optFns ...func(o *Options)) *Router {
	opts := Options{
		Config: DefaultConfig,
		Seed:   123,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	stats := make(map[string]*ArmStat, len(specs))
	for _, s := range specs {
		stats[s.Name] = &ArmStat{}
	}

	return &Router{
		cfg:    opts.Config,
		specs:  append([]worker.Spec(nil), specs...),
		stats:  stats,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: opts.Logger,
	}
}

// score computes the selection score for one worker. An exploration draw
// below ε, or a cold arm with zero pulls, yields a fresh uniform score;
// otherwise the arm is exploited via meanReward − CostWeight·meanCost.
func (r *Router) score(name string) float64 {
	s := r.stats[name]
	explore := r.rng.Float64() < r.cfg.Epsilon
	if explore || s.Pulls == 0 {
		return r.rng.Float64()
	}
	return s.MeanReward - r.cfg.CostWeight*s.MeanCost
}

// PickK selects up to max(1,k) worker names for a step, ordered by score
// descending. Workers are filtered to those whose tier satisfies tierHint
// (when given) and whose declared skills contain skill, are empty
// (generalist), or skill is unspecified. An empty filter result falls back to
// the full worker set. PickK fails with core.ErrEmptyWorkerSet only when no
// workers are registered at all.
func (r *Router) PickK(skill core.Skill, k int, tierHint *int) ([]string, error) {
	if len(r.specs) == 0 {
		return nil, fmt.Errorf("%w: no workers registered", core.ErrEmptyWorkerSet)
	}

	eligible := make([]worker.Spec, 0, len(r.specs))
	for _, s := range r.specs {
		if tierHint != nil && s.Tier < *tierHint {
			continue
		}
		if skill != "" && !s.HasSkill(skill) {
			continue
		}
		eligible = append(eligible, s)
	}
	if len(eligible) == 0 {
		eligible = append(eligible, r.specs...)
	}

	// Scores are drawn once per eligible worker, in registration order, so
	// the RNG consumption is independent of the sort implementation.
	type scored struct {
		name  string
		score float64
	}
	ranked := make([]scored, len(eligible))
	for i, s := range eligible {
		ranked[i] = scored{name: s.Name, score: r.score(s.Name)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := k
	if n < 1 {
		n = 1
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = ranked[i].name
	}

	r.logger.Debug("workers picked", "skill", skill.String(), "k", k, "selected", names)

	return names, nil
}

// Update applies a step outcome to the named worker's arm. Unknown names are
// ignored so escalation fallbacks outside the registered set cannot corrupt
// statistics.
func (r *Router) Update(name string, reward, cost float64) {
	s, ok := r.stats[name]
	if !ok {
		r.logger.Warn("update for unknown worker dropped", "worker", name)
		return
	}
	s.Update(reward, cost)
}

// Stat returns a copy of the named worker's arm statistics.
func (r *Router) Stat(name string) (ArmStat, bool) {
	s, ok := r.stats[name]
	if !ok {
		return ArmStat{}, false
	}
	return *s, true
}
