package dither

import "fmt"

// MaxBayerOrder is the largest accepted order (a 256x256 matrix).
const MaxBayerOrder = 8

// Matrix is an immutable square Bayer threshold matrix of side 2^order.
//
// Its values are a permutation of 0..side²-1, so every threshold level is
// used exactly once per tile.
type Matrix struct {
	order int
	side  int
	cells []uint
}

// quadrantRank gives the visiting rank of a quadrant, indexed by the
// quadrant's y bit then x bit: top-left 0, bottom-right 1, top-right 2,
// bottom-left 3. This ordering produces the dispersed-dot pattern.
var quadrantRank = [2][2]uint{
	{0, 2},
	{3, 1},
}

// Bayer builds the recursive Bayer matrix of the given order.
//
// The classic construction splits a square into quadrants visited in the
// order top-left, bottom-right, top-right, bottom-left, adding rank*step to
// the base value and multiplying step by 4 at each level. The same values
// are computed here per cell from the bits of x and y: the most significant
// bit pair selects the coarsest quadrant, whose rank has weight 1, the next
// pair has weight 4, and so on.
//
// Parameters:
//   - order: non-negative exponent; the matrix side is 2^order. Order 0
//     yields the 1x1 matrix [[0]].
//
// Returns ErrInvalidOrder when order is negative or above MaxBayerOrder.
//
// # Example
//
//	m, _ := dither.Bayer(1)
//	m.Rows() // [[0 2] [3 1]]
func Bayer(order int) (*Matrix, error) {
	if order < 0 || order > MaxBayerOrder {
		return nil, fmt.Errorf("order %d outside [0,%d]: %w", order, MaxBayerOrder, ErrInvalidOrder)
	}

	side := 1 << order
	cells := make([]uint, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			var value uint
			step := uint(1)
			for bit := order - 1; bit >= 0; bit-- {
				value += quadrantRank[(y>>bit)&1][(x>>bit)&1] * step
				step *= 4
			}
			cells[y*side+x] = value
		}
	}

	return &Matrix{order: order, side: side, cells: cells}, nil
}

// Order returns the exponent the matrix was built with.
func (m *Matrix) Order() int { return m.order }

// Side returns the matrix width (and height).
func (m *Matrix) Side() int { return m.side }

// At returns the raw matrix value for (x, y), tiling the matrix over the
// plane with modulo indexing. Negative coordinates wrap as well.
func (m *Matrix) At(x, y int) uint {
	return m.cells[wrap(y, m.side)*m.side+wrap(x, m.side)]
}

// Threshold returns At(x, y) / side², a value in [0, 1).
func (m *Matrix) Threshold(x, y int) float64 {
	return float64(m.At(x, y)) / float64(m.side*m.side)
}

// Rows returns a copy of the matrix as nested slices.
func (m *Matrix) Rows() [][]uint {
	rows := make([][]uint, m.side)
	for y := range rows {
		rows[y] = make([]uint, m.side)
		copy(rows[y], m.cells[y*m.side:(y+1)*m.side])
	}
	return rows
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
