package debatemesh

import (
	"context"
	"testing"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/internal/testutil"
	"github.com/hupe1980/debatemesh/plan"
	"github.com/hupe1980/debatemesh/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresWorkers(t *testing.T) {
	_, err := New(func(o *Options) {
		o.Judge = &testutil.ScriptedJudge{}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	assert.ErrorIs(t, err, core.ErrEmptyWorkerSet)
}

func TestNew_RequiresJudgeAndVerifier(t *testing.T) {
	w := worker.NewMockWorker(worker.Spec{Name: "m"})

	_, err := New(func(o *Options) {
		o.Workers = []worker.Worker{w}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	assert.Error(t, err)

	_, err = New(func(o *Options) {
		o.Workers = []worker.Worker{w}
		o.Judge = &testutil.ScriptedJudge{}
	})
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateWorkerNames(t *testing.T) {
	_, err := New(func(o *Options) {
		o.Workers = []worker.Worker{
			worker.NewMockWorker(worker.Spec{Name: "same"}),
			worker.NewMockWorker(worker.Spec{Name: "same"}),
		}
		o.Judge = &testutil.ScriptedJudge{}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	assert.Error(t, err)
}

func TestDebateMesh_RunWithPlan(t *testing.T) {
	w := worker.NewMockWorker(worker.Spec{Name: "m", CostPer1KInput: 1.0, CostPer1KOutput: 1.0})
	w.AddResponse("what are tides?", "the pull of the moon")

	mesh, err := New(func(o *Options) {
		o.Workers = []worker.Worker{w}
		o.Judge = &testutil.ScriptedJudge{}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	require.NoError(t, err)

	p := &plan.Plan{
		Steps:         []plan.Step{{Skill: core.SkillReason, Fanout: 1}},
		HardBudgetUSD: 1.0,
	}

	rt, err := mesh.RunWithPlan(context.Background(), "what are tides?", p)
	require.NoError(t, err)
	assert.Equal(t, "the pull of the moon", rt.FinalText)
	assert.True(t, rt.Steps[0].Verified)

	stat, ok := mesh.WorkerStat("m")
	require.True(t, ok)
	assert.Equal(t, 1, stat.Pulls)
}

func TestDebateMesh_Run_PlansThenExecutes(t *testing.T) {
	w := worker.NewMockWorker(worker.Spec{Name: "m"})

	mesh, err := New(func(o *Options) {
		o.Workers = []worker.Worker{w}
		o.Planner = &plan.StaticPlanner{Steps: []plan.Step{
			{Skill: core.SkillAnalyze, Fanout: 1},
			{Skill: core.SkillSummarize, Fanout: 1},
		}}
		o.Judge = &testutil.ScriptedJudge{}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	require.NoError(t, err)

	rt, err := mesh.Run(context.Background(), "explain tides", 0.50, nil)
	require.NoError(t, err)
	assert.Len(t, rt.Steps, 2)
}

func TestDebateMesh_Run_WithoutPlanner(t *testing.T) {
	w := worker.NewMockWorker(worker.Spec{Name: "m"})

	mesh, err := New(func(o *Options) {
		o.Workers = []worker.Worker{w}
		o.Judge = &testutil.ScriptedJudge{}
		o.Verifier = &testutil.ScriptedVerifier{}
	})
	require.NoError(t, err)

	_, err = mesh.Run(context.Background(), "task", 1.0, nil)
	assert.ErrorIs(t, err, core.ErrPlanGeneration)
}
