package router

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func testSpecs() []worker.Spec {
	return []worker.Spec{
		{Name: "A", Tier: 0, Skills: []core.Skill{core.SkillCode}},
		{Name: "B", Tier: 1, Skills: []core.Skill{core.SkillMath}},
		{Name: "C", Tier: 2}, // generalist
	}
}

func TestArmStat_Update(t *testing.T) {
	var s ArmStat

	s.Update(1.0, 0.02)
	assert.Equal(t, 1, s.Pulls)
	assert.InDelta(t, 1.0, s.MeanReward, 1e-12)
	assert.InDelta(t, 0.02, s.MeanCost, 1e-12)

	s.Update(0.0, 0.04)
	assert.Equal(t, 2, s.Pulls)
	assert.InDelta(t, 0.5, s.MeanReward, 1e-12)
	assert.InDelta(t, 0.03, s.MeanCost, 1e-12)
}

// The incremental update must track the exact arithmetic mean for any
// sequence of observations.
func TestArmStat_UpdateMatchesArithmeticMean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		var s ArmStat
		var sumReward, sumCost float64

		n := 1 + rng.Intn(200)
		for i := 0; i < n; i++ {
			reward := rng.Float64()
			cost := rng.Float64() * 0.1
			sumReward += reward
			sumCost += cost
			s.Update(reward, cost)
		}

		require.Equal(t, n, s.Pulls)
		assert.InDelta(t, sumReward/float64(n), s.MeanReward, 1e-9)
		assert.InDelta(t, sumCost/float64(n), s.MeanCost, 1e-9)
	}
}

func TestRouter_PickK_SkillAndTierFilter(t *testing.T) {
	r := New(testSpecs())

	names, err := r.PickK(core.SkillMath, 1, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names, "only B satisfies both skill and tier")
}

func TestRouter_PickK_GeneralistMatchesAnySkill(t *testing.T) {
	r := New(testSpecs())

	names, err := r.PickK(core.SkillSummarize, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, names, "C is the only generalist; no specialist declares summarize")
}

func TestRouter_PickK_FallbackToFullSet(t *testing.T) {
	r := New(testSpecs())

	// Tier 5 exists nowhere; the filter must fall back to the full set.
	names, err := r.PickK(core.SkillCode, 2, intPtr(5))
	require.NoError(t, err)
	assert.Len(t, names, 2)
	for _, n := range names {
		assert.Contains(t, []string{"A", "B", "C"}, n)
	}
}

func TestRouter_PickK_Bounds(t *testing.T) {
	r := New(testSpecs())

	// k=0 still yields one worker.
	names, err := r.PickK("", 0, nil)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	// k beyond the set size is capped.
	names, err = r.PickK("", 10, nil)
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestRouter_PickK_EmptyWorkerSet(t *testing.T) {
	r := New(nil)

	_, err := r.PickK(core.SkillCode, 1, nil)
	assert.ErrorIs(t, err, core.ErrEmptyWorkerSet)
}

func TestRouter_Reproducibility(t *testing.T) {
	mk := func() *Router {
		return New(testSpecs(), func(o *Options) {
			o.Seed = 99
			o.Config = Config{Epsilon: 0.5}
		})
	}
	r1 := mk()
	r2 := mk()

	for i := 0; i < 50; i++ {
		n1, err1 := r1.PickK("", 2, nil)
		n2, err2 := r2.PickK("", 2, nil)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, n1, n2, "same seed and call sequence must select identically")
	}
}

func TestRouter_UpdateShapesSelection(t *testing.T) {
	r := New(testSpecs(), func(o *Options) {
		o.Config = Config{Epsilon: 0} // pure exploitation once arms are warm
	})

	for i := 0; i < 5; i++ {
		r.Update("A", 0.0, 0.01)
		r.Update("B", 1.0, 0.01)
		r.Update("C", 0.5, 0.01)
	}

	names, err := r.PickK("", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, names)
}

func TestRouter_CostWeightPenalizesExpensiveArms(t *testing.T) {
	r := New(testSpecs(), func(o *Options) {
		o.Config = Config{Epsilon: 0, CostWeight: 10.0}
	})

	// Equal reward, very different cost.
	for i := 0; i < 3; i++ {
		r.Update("A", 1.0, 0.001)
		r.Update("B", 1.0, 0.09)
		r.Update("C", 1.0, 0.05)
	}

	names, err := r.PickK("", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names)
}

func TestRouter_UpdateUnknownWorkerIgnored(t *testing.T) {
	r := New(testSpecs())

	r.Update("nope", 1.0, 0.1)

	_, ok := r.Stat("nope")
	assert.False(t, ok)
}

func TestRouter_Stat(t *testing.T) {
	r := New(testSpecs())

	r.Update("A", 1.0, 0.02)

	s, ok := r.Stat("A")
	require.True(t, ok)
	assert.Equal(t, 1, s.Pulls)
	assert.InDelta(t, 1.0, s.MeanReward, 1e-12)
	assert.InDelta(t, 0.02, s.MeanCost, 1e-12)
}
