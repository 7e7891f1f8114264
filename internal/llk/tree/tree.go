// Package tree implements the derivation tree produced by a predictive
// parse: a tagged variant of internal Node and leaf Leaf cases, built
// incrementally by an arena-backed Builder so that the parser's
// tree-cursor stack can hold stable, non-aliasing handles into a tree
// that is still growing (§9 design notes).
package tree

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// kind distinguishes the two cases of the tagged variant.
type kind int

const (
	kindNode kind = iota
	kindLeaf
)

// entry is one slot of the arena. A Leaf uses only symbol; children,
// prodID and hasProd are meaningful only for a Node, as selected by kind.
type entry struct {
	kind     kind
	symbol   rune
	prodID   int
	hasProd  bool
	children []int
}

// Tree is a derivation tree: a Node { symbol, production id, children }
// or a Leaf { symbol }, per §4.7. It is built once by a Builder and
// thereafter read-only.
type Tree struct {
	arena []entry
	root  int
}

// Handle is an opaque, stable reference to a Node still under
// construction. It indexes into the Builder's arena rather than aliasing
// a Go pointer, so it stays valid across further appends to the arena.
type Handle int

// Builder incrementally constructs a Tree. The zero value is not usable;
// use NewBuilder.
type Builder struct {
	arena []entry
}

// NewBuilder creates a Builder whose tree is rooted at a single Node for
// the given symbol, and returns the builder along with a Handle to that
// root node.
func NewBuilder(rootSymbol rune) (*Builder, Handle) {
	b := &Builder{arena: []entry{{kind: kindNode, symbol: rootSymbol}}}
	return b, Handle(0)
}

// SetProductionID records the production a Node handle's symbol was
// expanded with. Panics if h does not refer to a Node: assigning a
// production id to a Leaf is a programmer error, not a recoverable
// condition.
func (b *Builder) SetProductionID(h Handle, id int) {
	e := &b.arena[h]
	if e.kind != kindNode {
		panic("tree: cannot set a production id on a leaf")
	}
	e.prodID = id
	e.hasProd = true
}

// PushNode appends a new Node child with the given symbol to h's children
// and returns a Handle to the new child. Panics if h refers to a Leaf.
func (b *Builder) PushNode(h Handle, symbol rune) Handle {
	if b.arena[h].kind != kindNode {
		panic("tree: cannot push children onto a leaf")
	}
	b.arena = append(b.arena, entry{kind: kindNode, symbol: symbol})
	child := Handle(len(b.arena) - 1)
	b.arena[h].children = append(b.arena[h].children, int(child))
	return child
}

// PushLeaf appends a new Leaf child for the given terminal symbol to h's
// children. Panics if h refers to a Leaf.
func (b *Builder) PushLeaf(h Handle, symbol rune) {
	if b.arena[h].kind != kindNode {
		panic("tree: cannot push children onto a leaf")
	}
	b.arena = append(b.arena, entry{kind: kindLeaf, symbol: symbol})
	child := len(b.arena) - 1
	b.arena[h].children = append(b.arena[h].children, child)
}

// Build freezes the Builder into a Tree rooted at root.
func (b *Builder) Build(root Handle) Tree {
	return Tree{arena: append([]entry(nil), b.arena...), root: int(root)}
}

// RootSymbol returns the symbol at the tree's root.
func (t Tree) RootSymbol() rune {
	return t.arena[t.root].symbol
}

// Step is one entry of an LRN traversal: the symbol at a node, and,
// for internal nodes, the production id that was taken there (absent
// for leaves).
type Step struct {
	Symbol       rune
	ProductionID int
	HasProdID    bool
}

// LRN returns a left-root-then-children traversal of the tree: for each
// node, in pre-order, the pair (symbol, production id), with production
// id present only for Nodes.
func (t Tree) LRN() []Step {
	var out []Step
	var visit func(idx int)
	visit = func(idx int) {
		e := t.arena[idx]
		out = append(out, Step{Symbol: e.symbol, ProductionID: e.prodID, HasProdID: e.kind == kindNode})
		for _, c := range e.children {
			visit(c)
		}
	}
	visit(t.root)
	return out
}

// Leaves returns the left-to-right concatenation of the tree's terminal
// leaves, i.e. the input string the tree derives.
func (t Tree) Leaves() string {
	var sb strings.Builder
	var visit func(idx int)
	visit = func(idx int) {
		e := t.arena[idx]
		if e.kind == kindLeaf {
			sb.WriteRune(e.symbol)
			return
		}
		for _, c := range e.children {
			visit(c)
		}
	}
	visit(t.root)
	return sb.String()
}

// PrettyPrint renders the tree as a human-readable ASCII diagram, word
// wrapped at width columns via rosed. This is the only part of the core
// that renders text for display rather than returning data; per scope,
// an actual pretty-printer tool is an external collaborator, so this
// stays a small, optional convenience rather than the primary interface
// to the tree's shape (use LRN for that).
func (t Tree) PrettyPrint(width int) string {
	var lines []string
	var visit func(idx int, prefix string, last bool, depth int)
	visit = func(idx int, prefix string, last bool, depth int) {
		e := t.arena[idx]
		connector := "+-- "
		if depth == 0 {
			connector = ""
		} else if last {
			connector = "\\-- "
		}
		var label string
		if e.kind == kindLeaf {
			label = fmt.Sprintf("%q", e.symbol)
		} else if e.hasProd {
			label = fmt.Sprintf("%c (#%d)", e.symbol, e.prodID)
		} else {
			label = fmt.Sprintf("%c", e.symbol)
		}
		lines = append(lines, prefix+connector+label)

		childPrefix := prefix
		if depth > 0 {
			if last {
				childPrefix += "    "
			} else {
				childPrefix += "|   "
			}
		}
		for i, c := range e.children {
			visit(c, childPrefix, i == len(e.children)-1, depth+1)
		}
	}
	visit(t.root, "", true, 0)

	joined := strings.Join(lines, "\n")
	if width <= 0 {
		return joined
	}
	return rosed.Edit(joined).Wrap(width).String()
}
