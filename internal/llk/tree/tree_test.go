package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSample(t *testing.T) Tree {
	t.Helper()

	// S (#0)
	//  +-- 'a'
	//  \-- B (#1)
	//       \-- 'b'
	b, root := NewBuilder('S')
	b.SetProductionID(root, 0)
	b.PushLeaf(root, 'a')
	nodeB := b.PushNode(root, 'B')
	b.SetProductionID(nodeB, 1)
	b.PushLeaf(nodeB, 'b')

	return b.Build(root)
}

func TestTree_LRN(t *testing.T) {
	assert := assert.New(t)

	tr := buildSample(t)

	steps := tr.LRN()

	assert.Equal([]Step{
		{Symbol: 'S', ProductionID: 0, HasProdID: true},
		{Symbol: 'a'},
		{Symbol: 'B', ProductionID: 1, HasProdID: true},
		{Symbol: 'b'},
	}, steps)
}

func TestTree_Leaves(t *testing.T) {
	assert := assert.New(t)

	tr := buildSample(t)

	assert.Equal("ab", tr.Leaves())
}

func TestTree_RootSymbol(t *testing.T) {
	assert := assert.New(t)

	tr := buildSample(t)

	assert.Equal('S', tr.RootSymbol())
}

func TestTree_PrettyPrint(t *testing.T) {
	assert := assert.New(t)

	tr := buildSample(t)

	out := tr.PrettyPrint(0)

	assert.Contains(out, "S (#0)")
	assert.Contains(out, "B (#1)")
	assert.Contains(out, `'a'`)
	assert.Contains(out, `'b'`)
}

func TestBuilder_PanicsOnLeafMutation(t *testing.T) {
	b, root := NewBuilder('S')
	b.PushLeaf(root, 'a')

	leafHandle := Handle(1)

	assert.Panics(t, func() { b.PushLeaf(leafHandle, 'x') })
	assert.Panics(t, func() { b.PushNode(leafHandle, 'X') })
	assert.Panics(t, func() { b.SetProductionID(leafHandle, 0) })
}
