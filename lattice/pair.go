package lattice

// Pair merges two lattices componentwise. Compare follows the usual
// product order: Equal when both sides are equal, Less when both
// sides are ≤ with at least one strict, Greater symmetrically, and
// incomparable otherwise.
type Pair[A, B any, PA interface {
	*A
	Merger[A]
}, PB interface {
	*B
	Merger[B]
}] struct {
	First  A
	Second B
}

func (p *Pair[A, B, PA, PB]) Merge(delta Pair[A, B, PA, PB]) bool {
	a := PA(&p.First).Merge(delta.First)
	b := PB(&p.Second).Merge(delta.Second)
	return a || b
}

// Compare requires both components to implement Comparer against
// themselves; components that don't are treated as incomparable.
func (p Pair[A, B, PA, PB]) Compare(other Pair[A, B, PA, PB]) (Ordering, bool) {
	aOrd, aOk := compareAny(p.First, other.First)
	bOrd, bOk := compareAny(p.Second, other.Second)
	if !aOk || !bOk {
		return 0, false
	}
	switch {
	case aOrd == Equal && bOrd == Equal:
		return Equal, true
	case (aOrd == Less || aOrd == Equal) && (bOrd == Less || bOrd == Equal):
		return Less, true
	case (aOrd == Greater || aOrd == Equal) && (bOrd == Greater || bOrd == Equal):
		return Greater, true
	default:
		return 0, false
	}
}

func compareAny[T any](a, b T) (Ordering, bool) {
	c, ok := any(a).(Comparer[T])
	if !ok {
		return 0, false
	}
	return c.Compare(b)
}

// DomPair is a dominating-key/value lattice: a strictly dominating
// incoming key replaces the value outright; a strictly dominated
// incoming key is discarded; equal keys merge the value. For
// incomparable keys only the values are merged: the receiver keeps its
// own key, which is never merged (PK only needs Comparer, not Merger).
type DomPair[K any, V any, PK interface {
	*K
	Comparer[K]
}, PV interface {
	*V
	Merger[V]
}] struct {
	Key   K
	Value V
}

func (d *DomPair[K, V, PK, PV]) Merge(delta DomPair[K, V, PK, PV]) bool {
	ord, ok := PK(&d.Key).Compare(delta.Key)
	if !ok {
		// Incomparable keys: merge the values, keeping the receiver's key.
		return PV(&d.Value).Merge(delta.Value)
	}
	switch ord {
	case Less:
		d.Key = delta.Key
		d.Value = delta.Value
		return true
	case Greater:
		return false
	default: // Equal
		return PV(&d.Value).Merge(delta.Value)
	}
}
