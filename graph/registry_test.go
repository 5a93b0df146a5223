package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-dataflow/handoff"
)

func noopContext() Context { return fakeContext{} }

type fakeContext struct{}

func (fakeContext) Tick() uint64             { return 0 }
func (fakeContext) Stratum() uint32          { return 0 }
func (fakeContext) Schedule(SubgraphID)      {}
func (fakeContext) ScheduleExternal(SubgraphID) {}

func TestAddSubgraphAppliesImmediatelyWhenNotDriving(t *testing.T) {
	r := NewRegistry()
	id, err := r.AddSubgraph("noop", 0, false, nil, nil, func(ctx Context) error { return nil })
	require.NoError(t, err)

	sg, ok := r.Subgraph(id)
	require.True(t, ok)
	assert.Equal(t, "noop", sg.Name)
}

func TestAddSubgraphQueuesWhileDriving(t *testing.T) {
	r := NewRegistry()
	r.SetDriving(true)

	id, err := r.AddSubgraph("dynamic", 0, false, nil, nil, func(ctx Context) error { return nil })
	require.NoError(t, err)

	_, ok := r.Subgraph(id)
	assert.False(t, ok, "pending addition shouldn't be visible before drain")

	n := r.DrainPending()
	assert.Equal(t, 1, n)

	sg, ok := r.Subgraph(id)
	require.True(t, ok)
	assert.Equal(t, "dynamic", sg.Name)
}

func TestAddStateAndTickHook(t *testing.T) {
	r := NewRegistry()
	id := r.AddState(0, func(tick uint64, v any) any {
		return v.(int) + 1
	})

	v, ok := r.State(id)
	require.True(t, ok)
	assert.Equal(t, 0, v)

	r.RunTickHooks(1)
	v, _ = r.State(id)
	assert.Equal(t, 1, v)

	r.SetState(id, 100)
	v, _ = r.State(id)
	assert.Equal(t, 100, v)
}

func TestBindAcceptsMatchingElementType(t *testing.T) {
	vec := handoff.NewVec[int](1)
	p, err := Bind[int]("sink", "in", vec)
	require.NoError(t, err)
	assert.Equal(t, "in", p.Name)
}

// Even a same-stratum cycle between two subgraphs must be rejected: a
// fixpoint loop is driven by a StateCell across repeated RunTick
// calls, never by a handoff back-edge within one tick.
func TestCheckStratumCyclesRejectsSingleStratumCycle(t *testing.T) {
	r := NewRegistry()
	a := handoff.NewVec[int](r.NextHandoffID())
	b := handoff.NewVec[int](r.NextHandoffID())

	outA, _ := Bind[int]("producer", "out", a)
	inB, _ := Bind[int]("producer", "in", b)
	outB, _ := Bind[int]("consumer", "out", b)
	inA, _ := Bind[int]("consumer", "in", a)

	_, err := r.AddSubgraph("producer", 0, false, []Port{inB}, []Port{outA}, func(ctx Context) error { return nil })
	require.NoError(t, err)
	_, err = r.AddSubgraph("consumer", 0, false, []Port{inA}, []Port{outB}, func(ctx Context) error { return nil })
	require.NoError(t, err)

	err = r.CheckStratumCycles()
	require.Error(t, err)
	var cycleErr *StratumCycleError
	require.ErrorAs(t, err, &cycleErr)
}

// A cycle that spans strata (consumer in a later stratum feeding back
// into the producer's own stratum) can never quiesce within one tick
// and must be rejected at construction time.
func TestCheckStratumCyclesRejectsCrossStratumCycle(t *testing.T) {
	r := NewRegistry()
	a := handoff.NewVec[int](r.NextHandoffID())
	b := handoff.NewVec[int](r.NextHandoffID())

	outA, _ := Bind[int]("stratum0", "out", a)
	inB, _ := Bind[int]("stratum0", "in", b)
	outB, _ := Bind[int]("stratum1", "out", b)
	inA, _ := Bind[int]("stratum1", "in", a)

	_, err := r.AddSubgraph("stratum0", 0, false, []Port{inB}, []Port{outA}, func(ctx Context) error { return nil })
	require.NoError(t, err)
	_, err = r.AddSubgraph("stratum1", 1, false, []Port{inA}, []Port{outB}, func(ctx Context) error { return nil })
	require.NoError(t, err)

	err = r.CheckStratumCycles()
	require.Error(t, err)
	var cycleErr *StratumCycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestMetaGraphReflectsBindings(t *testing.T) {
	r := NewRegistry()
	h := handoff.NewVec[int](r.NextHandoffID())
	out, _ := Bind[int]("source", "out", h)
	in, _ := Bind[int]("sink", "in", h)

	_, err := r.AddSubgraph("source", 0, false, nil, []Port{out}, func(ctx Context) error { return nil })
	require.NoError(t, err)
	_, err = r.AddSubgraph("sink", 0, false, []Port{in}, nil, func(ctx Context) error { return nil })
	require.NoError(t, err)

	view := r.MetaGraph()
	require.Len(t, view.Subgraphs, 2)
	require.Len(t, view.Handoffs, 1)
	assert.Equal(t, []string{"out"}, view.Subgraphs[0].Outputs)
	assert.Equal(t, []string{"in"}, view.Subgraphs[1].Inputs)
}

func TestClosureReceivesContext(t *testing.T) {
	r := NewRegistry()
	var gotTick uint64
	_, err := r.AddSubgraph("uses-context", 0, false, nil, nil, func(ctx Context) error {
		gotTick = ctx.Tick()
		return nil
	})
	require.NoError(t, err)

	sg, _ := r.Subgraph(1)
	require.NoError(t, sg.Closure(noopContext()))
	assert.Equal(t, uint64(0), gotTick)
}
