package scheduler

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-dataflow/graph"
)

// Sentinel errors, in the teacher's style (errors.go), for use with
// errors.Is/errors.As across the scheduler's error surface.
var (
	// ErrShutdown is returned by RunAvailable/RunAsync once the
	// scheduler has started terminating.
	ErrShutdown = errors.New("scheduler: shut down")

	// ErrStratumCycle is wrapped, together with the
	// *graph.StratumCycleError, into the error New returns when the
	// registry contains a stratum cycle.
	ErrStratumCycle = errors.New("scheduler: stratum cycle")
)

// OperatorPanic wraps a panic recovered from a subgraph's closure,
// preserving the originating subgraph and tick/stratum so callers can
// log or retry with full context, the way the teacher's PanicError
// preserves a promisified goroutine's panic value (eventloop/errors.go).
type OperatorPanic struct {
	Subgraph graph.SubgraphID
	Name     string
	Tick     uint64
	Stratum  uint32
	Value    any
}

func (e *OperatorPanic) Error() string {
	return fmt.Sprintf("scheduler: subgraph %q (id=%d) panicked at tick=%d stratum=%d: %v",
		e.Name, e.Subgraph, e.Tick, e.Stratum, e.Value)
}

// Unwrap exposes the panic value for errors.Is/As when it is itself an
// error, mirroring PanicError.Unwrap.
func (e *OperatorPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
