package render

import "fmt"

// Cell addresses one panel in the figure grid.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Layout is the panel grid for a trace: CV channels fill the first CVRows rows,
// MV channels the next MVRows rows.
type Layout struct {
	CVRows  int
	MVRows  int
	Columns int

	numCV int
	numMV int
}

// bandRows returns the number of grid rows a group of n channels occupies.
func bandRows(n int) int {
	if n == 1 {
		return 1
	}
	return (n + 1) / 2
}

// NewLayout sizes the grid for nCV controlled and nMV manipulated channels.
// Two columns are used unless there is exactly one channel of each kind.
func NewLayout(nCV, nMV int) (Layout, error) {
	if nCV < 0 || nMV < 0 {
		return Layout{}, fmt.Errorf("%w: negative channel count (n_CV=%d, n_MV=%d)", ErrLayout, nCV, nMV)
	}
	if nCV == 0 && nMV == 0 {
		return Layout{}, fmt.Errorf("%w: no channels to render", ErrLayout)
	}
	l := Layout{
		CVRows:  bandRows(nCV),
		MVRows:  bandRows(nMV),
		Columns: 2,
		numCV:   nCV,
		numMV:   nMV,
	}
	if nCV == 1 && nMV == 1 {
		l.Columns = 1
	}
	return l, nil
}

// Rows returns the total number of grid rows.
func (l Layout) Rows() int { return l.CVRows + l.MVRows }

// Place maps channel k of a row band starting at rowOffset to its cell.
// With two columns successive channels toggle between column 0 and 1.
func Place(k, rowOffset, columns int) Cell {
	return Cell{Row: rowOffset + k/columns, Col: k % columns}
}

// CVCell returns the cell of CV channel k.
func (l Layout) CVCell(k int) (Cell, error) {
	if k < 0 || k >= l.numCV {
		return Cell{}, fmt.Errorf("%w: CV channel %d of %d", ErrChannelIndex, k, l.numCV)
	}
	return l.checked(Place(k, 0, l.Columns))
}

// MVCell returns the cell of MV channel k.
func (l Layout) MVCell(k int) (Cell, error) {
	if k < 0 || k >= l.numMV {
		return Cell{}, fmt.Errorf("%w: MV channel %d of %d", ErrChannelIndex, k, l.numMV)
	}
	return l.checked(Place(k, l.CVRows, l.Columns))
}

func (l Layout) checked(c Cell) (Cell, error) {
	if c.Row < 0 || c.Row >= l.Rows() || c.Col < 0 || c.Col >= l.Columns {
		return Cell{}, fmt.Errorf("%w: cell %s outside %dx%d grid", ErrChannelIndex, c, l.Rows(), l.Columns)
	}
	return c, nil
}
