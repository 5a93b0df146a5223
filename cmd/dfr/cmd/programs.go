package cmd

import (
	"fmt"
	"sort"

	dataflow "github.com/joeycumines/go-dataflow"
	"github.com/joeycumines/go-dataflow/graph"
	"github.com/joeycumines/go-dataflow/scheduler"
)

// program is a self-contained built-in dataflow graph the CLI can
// build and drive, selected by name via --program. Real deployments
// would instead be driven by whatever front-end compiles surface
// syntax into Runtime constructions (spec §6's operator surface API is
// exactly what this builds against); dfr's own built-ins exist only so
// the run-available/run-tick/run-async subcommands have something
// concrete to demonstrate against without a surface-syntax compiler in
// scope (spec §1 names that as an external collaborator).
type program struct {
	name  string
	build func(opts ...scheduler.Option) (rt *dataflow.Runtime, seed func(), err error)
}

var programs = map[string]program{
	"double": {
		name: "double",
		build: func(opts ...scheduler.Option) (*dataflow.Runtime, func(), error) {
			rt, err := dataflow.New(opts...)
			if err != nil {
				return nil, nil, err
			}
			srcToMap, _ := dataflow.AddVecHandoff[int](rt)
			mapToSink, _ := dataflow.AddVecHandoff[int](rt)

			srcOut, err := graph.Bind[int]("source", "out", srcToMap)
			if err != nil {
				return nil, nil, err
			}
			mapIn, err := graph.Bind[int]("double", "in", srcToMap)
			if err != nil {
				return nil, nil, err
			}
			mapOut, err := graph.Bind[int]("double", "out", mapToSink)
			if err != nil {
				return nil, nil, err
			}
			sinkIn, err := graph.Bind[int]("sink", "in", mapToSink)
			if err != nil {
				return nil, nil, err
			}

			srcID, err := rt.AddSubgraph("source", 0, true, nil, []graph.Port{srcOut}, func(ctx graph.Context) error {
				srcToMap.GiveVec([]int{1, 2, 3})
				return nil
			})
			if err != nil {
				return nil, nil, err
			}
			if _, err := rt.AddSubgraph("double", 1, false, []graph.Port{mapIn}, []graph.Port{mapOut}, func(ctx graph.Context) error {
				for _, v := range srcToMap.TakeInner() {
					mapToSink.Give(v * 2)
				}
				return nil
			}); err != nil {
				return nil, nil, err
			}
			if _, err := rt.AddSubgraph("sink", 2, false, []graph.Port{sinkIn}, nil, func(ctx graph.Context) error {
				for _, v := range mapToSink.TakeInner() {
					fmt.Println(v)
				}
				return nil
			}); err != nil {
				return nil, nil, err
			}

			return rt, func() { rt.Schedule(srcID) }, nil
		},
	},
	"teeout": {
		name: "teeout",
		build: func(opts ...scheduler.Option) (*dataflow.Runtime, func(), error) {
			rt, err := dataflow.New(opts...)
			if err != nil {
				return nil, nil, err
			}
			tee, r1 := dataflow.AddTeeHandoff[int](rt)
			r2 := tee.AddReader()

			teeOut, err := graph.Bind[int]("source", "out", tee)
			if err != nil {
				return nil, nil, err
			}
			in1, err := graph.Bind[int]("sink1", "in", r1)
			if err != nil {
				return nil, nil, err
			}
			in2, err := graph.Bind[int]("sink2", "in", r2)
			if err != nil {
				return nil, nil, err
			}

			srcID, err := rt.AddSubgraph("source", 0, true, nil, []graph.Port{teeOut}, func(ctx graph.Context) error {
				tee.GiveVec([]int{10, 20, 30})
				return nil
			})
			if err != nil {
				return nil, nil, err
			}
			if _, err := rt.AddSubgraph("sink1", 1, false, []graph.Port{in1}, nil, func(ctx graph.Context) error {
				for _, v := range r1.TakeInner() {
					fmt.Println("sink1:", v)
				}
				return nil
			}); err != nil {
				return nil, nil, err
			}
			if _, err := rt.AddSubgraph("sink2", 1, false, []graph.Port{in2}, nil, func(ctx graph.Context) error {
				for _, v := range r2.TakeInner() {
					fmt.Println("sink2:", v)
				}
				return nil
			}); err != nil {
				return nil, nil, err
			}

			return rt, func() { rt.Schedule(srcID) }, nil
		},
	},
}

func programNames() []string {
	names := make([]string, 0, len(programs))
	for n := range programs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func buildProgram(name string, opts ...scheduler.Option) (*dataflow.Runtime, func(), error) {
	p, ok := programs[name]
	if !ok {
		return nil, nil, fmt.Errorf("dfr: unknown program %q (available: %v)", name, programNames())
	}
	return p.build(opts...)
}
