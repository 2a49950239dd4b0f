package pente

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, Cells, b.OpenCount())
	assert.Len(t, b.OpenCells(), Cells)
	assert.Equal(t, strings.Repeat("-", Cells), b.String())
	assert.Zero(t, b.Captured(X))
	assert.Zero(t, b.Captured(O))
}

func TestBoardBounds(t *testing.T) {
	b := NewBoard()
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {19, 0}, {0, 19}, {19, 19}} {
		_, err := b.Get(rc[0], rc[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "get %v", rc)
		assert.ErrorIs(t, b.Set(rc[0], rc[1], StoneX), ErrOutOfBounds, "set %v", rc)
		assert.ErrorIs(t, b.PlaceStone(rc[0], rc[1], X), ErrOutOfBounds, "place %v", rc)
		assert.False(t, b.IsOpen(rc[0], rc[1]))
	}
	assert.Equal(t, Cells, b.OpenCount())
}

func TestPlaceStoneRemovesFromOpenSet(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.PlaceStone(3, 4, O))

	c, err := b.Get(3, 4)
	require.NoError(t, err)
	assert.Equal(t, StoneO, c)
	assert.False(t, b.IsOpen(3, 4))
	assert.Equal(t, Cells-1, b.OpenCount())
	assert.NotContains(t, b.OpenCells(), Coord{Row: 3, Col: 4})

	assert.ErrorIs(t, b.PlaceStone(3, 4, X), ErrCellOccupied)
	c, _ = b.Get(3, 4)
	assert.Equal(t, StoneO, c)
	assert.Equal(t, Cells-1, b.OpenCount())
}

func TestClearAndReopen(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.PlaceStone(0, 0, X))
	b.ClearAndReopen(0, 0)
	assert.True(t, b.IsOpen(0, 0))
	assert.Equal(t, Cells, b.OpenCount())

	// clearing an empty cell must not double count
	b.ClearAndReopen(0, 0)
	assert.Equal(t, Cells, b.OpenCount())
	b.ClearAndReopen(-1, 40)
	assert.Equal(t, Cells, b.OpenCount())
}

func TestSetKeepsOpenSetConsistent(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.Set(1, 1, StoneX))
	require.NoError(t, b.Set(1, 1, StoneO))
	assert.Equal(t, Cells-1, b.OpenCount())
	require.NoError(t, b.Set(1, 1, Empty))
	assert.Equal(t, Cells, b.OpenCount())
	assert.True(t, b.IsOpen(1, 1))
}

func TestSetRejectsUnknownCell(t *testing.T) {
	b := NewBoard()
	for _, v := range []Cell{0, 'x', '.', 'Z'} {
		assert.ErrorIs(t, b.Set(2, 2, v), ErrInvalidCell, "cell %q", byte(v))
	}
	assert.True(t, b.IsOpen(2, 2))
	assert.Equal(t, Cells, b.OpenCount())
	assert.NotContains(t, b.String(), "Z")
}

func TestBoardStringIsRowMajor(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.PlaceStone(0, 1, X))
	require.NoError(t, b.PlaceStone(1, 0, O))
	require.NoError(t, b.PlaceStone(18, 18, X))

	s := b.String()
	require.Len(t, s, Cells)
	assert.Equal(t, byte('X'), s[1])
	assert.Equal(t, byte('O'), s[Size])
	assert.Equal(t, byte('X'), s[Cells-1])
	assert.Equal(t, 2, b.Count(StoneX))
	assert.Equal(t, 1, b.Count(StoneO))
}

func TestOpenCellsOrder(t *testing.T) {
	b := NewBoard()
	require.NoError(t, b.PlaceStone(0, 0, X))
	open := b.OpenCells()
	require.NotEmpty(t, open)
	assert.Equal(t, Coord{Row: 0, Col: 1}, open[0])
	assert.Equal(t, Coord{Row: 18, Col: 18}, open[len(open)-1])
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" X ")
	require.NoError(t, err)
	assert.Equal(t, X, s)
	s, err = ParseSide("O")
	require.NoError(t, err)
	assert.Equal(t, O, s)
	for _, bad := range []string{"", "x", "o", "XO", "-"} {
		_, err := ParseSide(bad)
		assert.ErrorIs(t, err, ErrInvalidSide, bad)
	}
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
}
