package ast

// BoolType is the type of boolean variables.
type BoolType struct{}

// NatType is the type of natural numbers, optionally restricted to Bounds.
// A nil Bounds means the type is unbounded.
type NatType struct {
	Bounds *Bounds
}

// RealType is the (unbounded) type of real numbers.
type RealType struct{}

// Bounds restricts a NatType to [Lower, Upper].  A nil Upper marks the
// interval as unbounded above.
type Bounds struct {
	Lower int64
	Upper *int64
}

// NewBounds validates that both limits are non negative and that Lower does
// not exceed a finite Upper.
func NewBounds(lower int64, upper *int64) (*Bounds, error) {
	if lower < 0 {
		return nil, malformed("Bounds", "Lower", "lower bound %d is negative", lower)
	}
	if upper != nil {
		if *upper < 0 {
			return nil, malformed("Bounds", "Upper", "upper bound %d is negative", *upper)
		}
		if lower > *upper {
			return nil, malformed("Bounds", "Upper", "lower bound %d exceeds upper bound %d", lower, *upper)
		}
		hi := *upper
		upper = &hi
	}
	return &Bounds{Lower: lower, Upper: upper}, nil
}

// NewNatType builds a bounded nat type.  Use &NatType{} for the unbounded one.
func NewNatType(lower int64, upper *int64) (*NatType, error) {
	b, err := NewBounds(lower, upper)
	if err != nil {
		return nil, err
	}
	return &NatType{Bounds: b}, nil
}

// Unbounded tells whether the bounds have no finite upper limit.
func (b *Bounds) Unbounded() bool { return b.Upper == nil }

// Contains reports whether v lies within the bounds.
func (b *Bounds) Contains(v int64) bool {
	return v >= b.Lower && (b.Upper == nil || v <= *b.Upper)
}

func (b *Bounds) Equal(other *Bounds) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Lower != other.Lower {
		return false
	}
	if b.Upper == nil || other.Upper == nil {
		return b.Upper == nil && other.Upper == nil
	}
	return *b.Upper == *other.Upper
}

func (t *BoolType) typeNode() {}
func (t *NatType) typeNode()  {}
func (t *RealType) typeNode() {}

func (t *BoolType) String() string { return Render(t) }
func (t *NatType) String() string  { return Render(t) }
func (t *RealType) String() string { return Render(t) }

func (t *BoolType) Hash() uint64 { return hashNode(familyType, t) }
func (t *NatType) Hash() uint64  { return hashNode(familyType, t) }
func (t *RealType) Hash() uint64 { return hashNode(familyType, t) }

func (t *BoolType) Equal(o Node) bool { return Equal(t, o) }
func (t *NatType) Equal(o Node) bool  { return Equal(t, o) }
func (t *RealType) Equal(o Node) bool { return Equal(t, o) }
