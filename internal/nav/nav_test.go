package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Deck shape [1,3,1]: a plain slide A, a group B of three leaves, a plain
// slide C.
var abcShape = []int{1, 3, 1}

func TestNextWalksGroupsDepthFirst(t *testing.T) {
	c := NewController(abcShape, false)

	want := []Position{
		{H: 0, V: 0}, // A
		{H: 1, V: 0}, // B1
		{H: 1, V: 1}, // B2
		{H: 1, V: 2}, // B3
		{H: 2, V: 0}, // C
	}

	got := []Position{c.Pos()}
	for c.Next() {
		got = append(got, c.Pos())
	}
	require.Equal(t, want, got)

	// Further next calls at the end of the deck stay on C.
	for i := 0; i < 3; i++ {
		require.False(t, c.Next())
		require.Equal(t, Position{H: 2, V: 0}, c.Pos())
	}
}

func TestPrevIsIdempotentAtFirstSlide(t *testing.T) {
	c := NewController(abcShape, false)
	for i := 0; i < 5; i++ {
		require.False(t, c.Prev())
		require.Equal(t, Position{}, c.Pos())
	}
}

func TestPrevEntersGroupAtLastLeaf(t *testing.T) {
	c := NewController(abcShape, false)
	c.GoTo(2, 0)
	require.True(t, c.Prev())
	require.Equal(t, Position{H: 1, V: 2}, c.Pos())
}

func TestNextThenPrevReturnsToOrigin(t *testing.T) {
	c := NewController(abcShape, false)

	// Every interior position: next followed by prev restores it.
	for {
		origin := c.Pos()
		if !c.Next() {
			break
		}
		require.True(t, c.Prev())
		require.Equal(t, origin, c.Pos())
		require.True(t, c.Next())
	}
}

func TestWrapAtBoundaries(t *testing.T) {
	c := NewController(abcShape, true)

	require.True(t, c.Prev())
	require.Equal(t, Position{H: 2, V: 0}, c.Pos())

	require.True(t, c.Next())
	require.Equal(t, Position{}, c.Pos())
}

func TestWrapSingleLeafDeckIsStable(t *testing.T) {
	c := NewController([]int{1}, true)
	require.False(t, c.Next())
	require.False(t, c.Prev())
	require.Equal(t, Position{}, c.Pos())
}

func TestGoToClamps(t *testing.T) {
	c := NewController(abcShape, false)

	require.True(t, c.GoTo(99, 99))
	require.Equal(t, Position{H: 2, V: 0}, c.Pos())

	require.True(t, c.GoTo(1, 99))
	require.Equal(t, Position{H: 1, V: 2}, c.Pos())

	require.True(t, c.GoTo(-5, -5))
	require.Equal(t, Position{}, c.Pos())

	// Moving to the current position reports no change.
	require.False(t, c.GoTo(0, 0))
}

func TestFirstAndLast(t *testing.T) {
	c := NewController(abcShape, false)

	require.True(t, c.Last())
	require.Equal(t, Position{H: 2, V: 0}, c.Pos())

	require.True(t, c.First())
	require.Equal(t, Position{}, c.Pos())
	require.False(t, c.First())
}

func TestEmptyShapeIsInert(t *testing.T) {
	c := NewController(nil, false)
	require.False(t, c.Next())
	require.False(t, c.Prev())
	require.False(t, c.GoTo(3, 3))
	require.False(t, c.First())
	require.Equal(t, Position{}, c.Pos())
}

func TestLeafIndexFlattensDeck(t *testing.T) {
	c := NewController(abcShape, false)
	require.Equal(t, 5, c.LeafTotal())

	indices := []int{c.LeafIndex()}
	for c.Next() {
		indices = append(indices, c.LeafIndex())
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, indices)
}
