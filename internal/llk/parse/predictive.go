package parse

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/google/uuid"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
	"github.com/dekarrin/llkgram/internal/llk/icerr"
	"github.com/dekarrin/llkgram/internal/llk/tree"
)

// Parser is a predictive parser compiled from a frozen Grammar: a
// one-time LUT compilation followed by any number of Parse calls. Parser
// is immutable after construction and may be shared across goroutines;
// each Parse call allocates its own stacks and its own result tree and
// never mutates the Parser or the underlying Grammar.
type Parser struct {
	// ID uniquely identifies this compiled parser instance, for
	// correlating log lines and cache entries across a process's
	// lifetime; it carries no semantic weight and two Parsers compiled
	// from identical grammars will still have distinct IDs.
	ID uuid.UUID

	g   *grammar.Grammar
	lut lut
}

// New compiles a Parser from a validated Grammar. g must already be
// LL(k); New performs no additional validation, since Grammar's own
// constructor already ran the full validator of §4.3 (including the
// LL(k) disjointness check that guarantees the LUT below has no
// colliding keys).
func New(g *grammar.Grammar) (*Parser, error) {
	table, err := buildLUT(g)
	if err != nil {
		return nil, err
	}
	return &Parser{ID: uuid.New(), g: g, lut: table}, nil
}

// Grammar returns the grammar the Parser was compiled from.
func (p *Parser) Grammar() *grammar.Grammar { return p.g }

// Parse runs the predictive stack machine of §4.6 over input (a string
// of terminals, without the end marker) and returns the resulting
// derivation tree. input must consist only of terminals of the grammar;
// any other character yields icerr.ErrUnknownSymbol. A string that
// cannot be derived from the start symbol yields
// icerr.ErrDerivationFailed.
func (p *Parser) Parse(input string) (tree.Tree, error) {
	for _, r := range input {
		if !p.g.IsTerm(r) || r == grammar.EOF {
			return tree.Tree{}, icerr.UnknownSymbol(r)
		}
	}

	runes := []rune(input)
	k := p.g.Lookahead()

	symStack := arraystack.New()
	symStack.Push(p.g.Start())

	builder, rootHandle := tree.NewBuilder(p.g.Start())
	cursorStack := arraystack.New()
	cursorStack.Push(rootHandle)

	// The end marker is never pushed onto the symbol stack, and never
	// appears literally inside a lookahead window either: CHOICE_k is
	// built purely from FIRST_k/FOLLOW_k strings over T, which by
	// construction never contain it (FOLLOW_k(start) is empty by
	// design rather than augmented with it, per §4.4). A window is
	// therefore always just the next up-to-k REAL input characters,
	// shorter than k (down to the empty string) once input runs out;
	// a non-terminal can still legally reduce via an ε-production at
	// that point, selected by the empty window. The loop is driven by
	// the symbol stack rather than by the input position so that such
	// trailing reductions still happen; a terminal on top with no
	// input left is simply a failed derivation, not a loop exit.
	i := 0
	for !symStack.Empty() {
		topVal, _ := symStack.Peek()
		top := topVal.(rune)

		if p.g.IsTerm(top) {
			if i >= len(runes) {
				return tree.Tree{}, icerr.Wrap(icerr.ErrDerivationFailed,
					fmt.Sprintf("expected %q but input was exhausted", top))
			}
			if top != runes[i] {
				return tree.Tree{}, icerr.Wrap(icerr.ErrDerivationFailed,
					fmt.Sprintf("expected %q at input position %d, found %q", top, i, runes[i]))
			}
			symStack.Pop()
			i++
			continue
		}

		end := i + k
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[i:end])

		entry, ok := p.lut.get(top, window)
		if !ok {
			return tree.Tree{}, icerr.Wrap(icerr.ErrDerivationFailed,
				fmt.Sprintf("no production for non-terminal %q with lookahead %q", top, window))
		}

		symStack.Pop()
		rhs := []rune(entry.RHS)
		for j := len(rhs) - 1; j >= 0; j-- {
			symStack.Push(rhs[j])
		}

		cursorVal, _ := cursorStack.Pop()
		cursor := cursorVal.(tree.Handle)
		builder.SetProductionID(cursor, entry.ID)

		for _, sym := range rhs {
			if p.g.IsNTerm(sym) {
				child := builder.PushNode(cursor, sym)
				cursorStack.Push(child)
			} else if sym != grammar.EOF {
				builder.PushLeaf(cursor, sym)
			}
		}
	}

	if i < len(runes) {
		return tree.Tree{}, icerr.Wrap(icerr.ErrDerivationFailed, "symbol stack emptied before input was exhausted")
	}

	return builder.Build(rootHandle), nil
}
