// Package render turns a graph.TopologyView into a diagram: Graphviz
// dot for the common case, and Mermaid for embedding in markdown docs.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joeycumines/go-dataflow/graph"
)

// Dot renders a Graphviz digraph: one node per subgraph, clustered by
// stratum, one edge per handoff producer/consumer pair.
func Dot(view graph.TopologyView) string {
	var b strings.Builder
	b.WriteString("digraph dataflow {\n")
	b.WriteString("  rankdir=LR;\n")

	byStratum := map[graph.Stratum][]graph.SubgraphView{}
	for _, sg := range view.Subgraphs {
		byStratum[sg.Stratum] = append(byStratum[sg.Stratum], sg)
	}
	strata := make([]graph.Stratum, 0, len(byStratum))
	for s := range byStratum {
		strata = append(strata, s)
	}
	sort.Slice(strata, func(i, j int) bool { return strata[i] < strata[j] })

	for _, s := range strata {
		fmt.Fprintf(&b, "  subgraph cluster_stratum_%d {\n", s)
		fmt.Fprintf(&b, "    label = \"stratum %d\";\n", s)
		for _, sg := range byStratum[s] {
			shape := "box"
			if sg.Lazy {
				shape = "box, style=dashed"
			}
			fmt.Fprintf(&b, "    sg_%d [label=%q, shape=%q];\n", sg.ID, sg.Name, shape)
		}
		b.WriteString("  }\n")
	}

	for _, h := range view.Handoffs {
		for _, p := range h.Producers {
			for _, c := range h.Consumers {
				fmt.Fprintf(&b, "  sg_%d -> sg_%d [label=%q];\n", p, c, h.Name)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the same topology as a Mermaid flowchart.
func Mermaid(view graph.TopologyView) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	for _, sg := range view.Subgraphs {
		shape := fmt.Sprintf("sg_%d[%q]", sg.ID, fmt.Sprintf("%s (s%d)", sg.Name, sg.Stratum))
		if sg.Lazy {
			shape = fmt.Sprintf("sg_%d(%q)", sg.ID, fmt.Sprintf("%s (s%d, lazy)", sg.Name, sg.Stratum))
		}
		fmt.Fprintf(&b, "  %s\n", shape)
	}
	for _, h := range view.Handoffs {
		for _, p := range h.Producers {
			for _, c := range h.Consumers {
				fmt.Fprintf(&b, "  sg_%d -- %s --> sg_%d\n", p, h.Name, c)
			}
		}
	}
	return b.String()
}
