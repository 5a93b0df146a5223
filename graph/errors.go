package graph

import "fmt"

// ConstructionError reports a problem Bind discovers while a port is
// being bound, before any tick has run: a handoff whose element type
// differs from the port's, or an interface element type. Stratum
// cycles are reported separately, as StratumCycleError, by
// Registry.CheckStratumCycles (which scheduler.New runs). No check
// looks for a handoff that has no subgraph bound on its other side.
type ConstructionError struct {
	Subgraph string
	Port     string
	Reason   string
}

func (e *ConstructionError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("graph: construction error in subgraph %q: %s", e.Subgraph, e.Reason)
	}
	return fmt.Sprintf("graph: construction error in subgraph %q, port %q: %s", e.Subgraph, e.Port, e.Reason)
}

// StratumCycleError reports a set of subgraphs whose handoff edges form
// a cycle that isn't resolvable by running later strata within the
// same tick.
type StratumCycleError struct {
	Subgraphs []string
}

func (e *StratumCycleError) Error() string {
	return fmt.Sprintf("graph: stratum cycle detected among subgraphs %v", e.Subgraphs)
}
