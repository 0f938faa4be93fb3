package document

// BBox is a bounding box in pixel coordinates with the origin at the top
// left of the page, so Top < Bottom for any visible box.
type BBox struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// VCenter returns the vertical center of the box.
func (b BBox) VCenter() float64 { return (b.Top + b.Bottom) / 2 }

// HCenter returns the horizontal center of the box.
func (b BBox) HCenter() float64 { return (b.Left + b.Right) / 2 }

// Axis selects a table axis for alignment predicates and context extractors.
type Axis int

const (
	// AxisRow selects row alignment.
	AxisRow Axis = iota
	// AxisCol selects column alignment.
	AxisCol
	// AxisAny selects alignment along either axis.
	AxisAny
)

// Other returns the orthogonal axis. AxisAny maps to itself.
func (a Axis) Other() Axis {
	switch a {
	case AxisRow:
		return AxisCol
	case AxisCol:
		return AxisRow
	default:
		return AxisAny
	}
}

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisCol:
		return "col"
	default:
		return "any"
	}
}

// Gridded is anything positioned on a table grid: cells, and phrases that
// live inside cells. Bounds are inclusive index ranges; -1 means the value
// is unassigned (the carrier is outside any table).
type Gridded interface {
	ParentTable() *Table
	RowBounds() (int, int)
	ColBounds() (int, int)
}

// RowAligned reports whether a and b are in the same table with overlapping
// row ranges. Unassigned ranges never align. The predicate is symmetric but
// not transitive across tables.
func RowAligned(a, b Gridded) bool {
	if !sameTable(a, b) {
		return false
	}
	as, ae := a.RowBounds()
	bs, be := b.RowBounds()
	return rangesOverlap(as, ae, bs, be)
}

// ColAligned reports whether a and b are in the same table with overlapping
// column ranges.
func ColAligned(a, b Gridded) bool {
	if !sameTable(a, b) {
		return false
	}
	as, ae := a.ColBounds()
	bs, be := b.ColBounds()
	return rangesOverlap(as, ae, bs, be)
}

// AxisAligned reports alignment along the given axis. AxisAny is satisfied
// by alignment along either axis.
func AxisAligned(axis Axis, a, b Gridded) bool {
	switch axis {
	case AxisRow:
		return RowAligned(a, b)
	case AxisCol:
		return ColAligned(a, b)
	default:
		return RowAligned(a, b) || ColAligned(a, b)
	}
}

// MinRowDiff returns the signed, magnitude-minimal difference between the
// row ranges of a and b: zero when the ranges overlap, positive when a lies
// below b, negative when a lies above b. Unassigned ranges yield zero.
func MinRowDiff(a, b Gridded) int {
	as, ae := a.RowBounds()
	bs, be := b.RowBounds()
	return minRangeDiff(as, ae, bs, be)
}

// MinColDiff is MinRowDiff for column ranges: positive when a lies to the
// right of b, negative when a lies to the left.
func MinColDiff(a, b Gridded) int {
	as, ae := a.ColBounds()
	bs, be := b.ColBounds()
	return minRangeDiff(as, ae, bs, be)
}

// MinRowDiffAbs returns the absolute value of MinRowDiff.
func MinRowDiffAbs(a, b Gridded) int {
	return abs(MinRowDiff(a, b))
}

// MinColDiffAbs returns the absolute value of MinColDiff.
func MinColDiffAbs(a, b Gridded) int {
	return abs(MinColDiff(a, b))
}

func sameTable(a, b Gridded) bool {
	ta := a.ParentTable()
	tb := b.ParentTable()
	return ta != nil && tb != nil && ta == tb
}

func rangesOverlap(as, ae, bs, be int) bool {
	if as < 0 || ae < 0 || bs < 0 || be < 0 {
		return false
	}
	return as <= be && bs <= ae
}

// minRangeDiff computes the element of {i-j : i in [as,ae], j in [bs,be]}
// with minimal magnitude. Overlapping or unassigned ranges give zero.
func minRangeDiff(as, ae, bs, be int) int {
	if as < 0 || ae < 0 || bs < 0 || be < 0 {
		return 0
	}
	if as <= be && bs <= ae {
		return 0
	}
	if as > be {
		return as - be
	}
	return ae - bs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
