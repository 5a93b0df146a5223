package lattice

// WithBottom adds a distinguished "no value yet" element below an
// inner lattice L: bottom compares less than every present value, and
// merging a present delta into bottom adopts it outright.
type WithBottom[L any, PL interface {
	*L
	Merger[L]
}] struct {
	// Value is nil at bottom, non-nil once any delta has merged.
	Value *L
}

// Bottom constructs the bottom element.
func Bottom[L any, PL interface {
	*L
	Merger[L]
}]() WithBottom[L, PL] {
	return WithBottom[L, PL]{}
}

// NewWithBottom wraps a present value.
func NewWithBottom[L any, PL interface {
	*L
	Merger[L]
}](val L) WithBottom[L, PL] {
	return WithBottom[L, PL]{Value: &val}
}

func (b *WithBottom[L, PL]) Merge(delta WithBottom[L, PL]) bool {
	switch {
	case delta.Value == nil:
		return false
	case b.Value == nil:
		v := *delta.Value
		b.Value = &v
		return true
	default:
		return PL(b.Value).Merge(*delta.Value)
	}
}

func (b WithBottom[L, PL]) Compare(other WithBottom[L, PL]) (Ordering, bool) {
	switch {
	case b.Value == nil && other.Value == nil:
		return Equal, true
	case b.Value == nil:
		return Less, true
	case other.Value == nil:
		return Greater, true
	default:
		c, ok := any(*b.Value).(Comparer[L])
		if !ok {
			return 0, false
		}
		return c.Compare(*other.Value)
	}
}

func (b WithBottom[L, PL]) IsBottom() bool {
	return b.Value == nil
}
