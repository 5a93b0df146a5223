package graph

// TopologyView is the JSON-serializable snapshot returned by
// Registry.MetaGraph: enough to render or inspect the graph's shape
// without exposing closures or live handoff buffers.
type TopologyView struct {
	Subgraphs []SubgraphView `json:"subgraphs"`
	Handoffs  []HandoffView  `json:"handoffs"`
}

// SubgraphView describes one subgraph's static shape.
type SubgraphView struct {
	ID      SubgraphID `json:"id"`
	Name    string     `json:"name"`
	Stratum Stratum    `json:"stratum"`
	Lazy    bool       `json:"lazy"`
	Inputs  []string   `json:"inputs"`
	Outputs []string   `json:"outputs"`
}

// HandoffView describes one handoff binding: which subgraphs write to
// it and which read from it.
type HandoffView struct {
	Name      string       `json:"name"`
	Producers []SubgraphID `json:"producers"`
	Consumers []SubgraphID `json:"consumers"`
}

// MetaGraph renders the registry's current structure as a
// TopologyView, suitable for json.Marshal or graph/render's
// dot/mermaid exporters.
func (r *Registry) MetaGraph() TopologyView {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := TopologyView{}
	for _, id := range r.order {
		sg := r.subgraphs[id]
		sv := SubgraphView{ID: sg.ID, Name: sg.Name, Stratum: sg.Stratum, Lazy: sg.Lazy}
		for _, p := range sg.Inputs {
			sv.Inputs = append(sv.Inputs, p.Name)
		}
		for _, p := range sg.Outputs {
			sv.Outputs = append(sv.Outputs, p.Name)
		}
		view.Subgraphs = append(view.Subgraphs, sv)
	}
	for _, e := range r.edges {
		view.Handoffs = append(view.Handoffs, HandoffView{
			Name:      e.name,
			Producers: append([]SubgraphID{}, e.producers...),
			Consumers: append([]SubgraphID{}, e.consumers...),
		})
	}
	return view
}
