// Package grammar implements the symbol classifier, derivation index,
// validator, and FIRST_k/FOLLOW_k/CHOICE_k engine for LL(k) grammars over
// single-character terminal and non-terminal alphabets.
package grammar

import (
	"fmt"
	"sort"

	"github.com/dekarrin/llkgram/internal/llk/icerr"
)

// EOF is the end marker appended to input before a predictive parse. It is
// reserved by the grammar and may never appear in T, N, or any production's
// right-hand side; a Grammar that declares it as a terminal or non-terminal
// fails construction.
const EOF rune = '\u0003'

// Production is a single rule lhs -> rhs. A Production with Epsilon set
// represents lhs -> ε; RHS is then meaningless and ignored.
type Production struct {
	LHS     rune
	RHS     string
	Epsilon bool
}

// NewProduction builds a non-ε production. rhs must be non-empty; use
// NewEpsilonProduction for an ε production.
func NewProduction(lhs rune, rhs string) Production {
	return Production{LHS: lhs, RHS: rhs}
}

// NewEpsilonProduction builds an ε production lhs -> ε.
func NewEpsilonProduction(lhs rune) Production {
	return Production{LHS: lhs, Epsilon: true}
}

func (p Production) String() string {
	if p.Epsilon {
		return fmt.Sprintf("%c -> ε", p.LHS)
	}
	return fmt.Sprintf("%c -> %s", p.LHS, p.RHS)
}

// Grammar is a validated, frozen LL(k) grammar descriptor. Once returned by
// New, it is never mutated and may be shared across goroutines for
// read-only use: First, Follow, and Choice all allocate their own
// working state and never write to the Grammar.
type Grammar struct {
	term  map[rune]bool
	nterm map[rune]bool
	start rune
	k     int
	prods []Production

	byLHS map[rune][]int
}

// New constructs a Grammar from its raw parts and validates it. term and
// nterm are iterated as runes; every other parameter matches §3 of the
// data model exactly. The returned error, if non-nil, is an icerr.Error
// wrapping icerr.ErrInvalidGrammar.
func New(term, nterm string, start rune, k int, prods []Production) (*Grammar, error) {
	g := &Grammar{
		term:  map[rune]bool{},
		nterm: map[rune]bool{},
		start: start,
		k:     k,
		prods: append([]Production(nil), prods...),
		byLHS: map[rune][]int{},
	}
	for _, r := range term {
		g.term[r] = true
	}
	for _, r := range nterm {
		g.nterm[r] = true
	}
	for i, p := range g.prods {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], i)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Lookahead returns the grammar's fixed lookahead k.
func (g *Grammar) Lookahead() int { return g.k }

// Start returns the grammar's start symbol.
func (g *Grammar) Start() rune { return g.start }

// Terminals returns the grammar's terminal alphabet T, in ascending order.
func (g *Grammar) Terminals() []rune { return sortedRunes(g.term) }

// NonTerminals returns the grammar's non-terminal alphabet N, in ascending
// order.
func (g *Grammar) NonTerminals() []rune { return sortedRunes(g.nterm) }

// Productions returns the grammar's productions in input (and therefore
// production-id) order. The slice is a defensive copy.
func (g *Grammar) Productions() []Production {
	return append([]Production(nil), g.prods...)
}

// IsTerm returns whether sym is a terminal of the grammar, or the end
// marker.
func (g *Grammar) IsTerm(sym rune) bool {
	return g.term[sym] || sym == EOF
}

// IsNTerm returns whether sym is a non-terminal of the grammar.
func (g *Grammar) IsNTerm(sym rune) bool {
	return g.nterm[sym]
}

// DerivesEpsilon returns whether sym is a non-terminal with some production
// sym -> ε.
func (g *Grammar) DerivesEpsilon(sym rune) bool {
	if !g.IsNTerm(sym) {
		return false
	}
	for _, idx := range g.byLHS[sym] {
		if g.prods[idx].Epsilon {
			return true
		}
	}
	return false
}

// derive returns, for a non-terminal, the ordered list of its non-ε
// right-hand-side alternatives as rune slices (ε alternatives are omitted,
// as callers of derive in this package always special-case DerivesEpsilon
// separately). For a terminal, it returns the singleton alternative
// containing just that symbol.
func (g *Grammar) derive(sym rune) [][]rune {
	if !g.IsNTerm(sym) {
		return [][]rune{{sym}}
	}
	var alts [][]rune
	for _, idx := range g.byLHS[sym] {
		p := g.prods[idx]
		if p.Epsilon {
			continue
		}
		alts = append(alts, []rune(p.RHS))
	}
	return alts
}

// ProductionsFor returns the indices (stable production ids) of every
// production whose LHS is nterm, in input order.
func (g *Grammar) ProductionsFor(nterm rune) []int {
	return append([]int(nil), g.byLHS[nterm]...)
}

func sortedRunes(m map[rune]bool) []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// assertAlphabet returns icerr.ErrUnknownSymbol if s contains a code point
// outside T ∪ N ∪ {EOF}, or if EOF appears anywhere but as the sole final
// character.
func (g *Grammar) assertAlphabet(s string) error {
	runes := []rune(s)
	for i, r := range runes {
		if !g.IsTerm(r) && !g.IsNTerm(r) {
			return icerr.UnknownSymbol(r)
		}
		if r == EOF && i != len(runes)-1 {
			return icerr.Wrap(icerr.ErrUnknownSymbol, "end marker may only appear as the final character")
		}
	}
	count := 0
	for _, r := range runes {
		if r == EOF {
			count++
		}
	}
	if count > 1 {
		return icerr.Wrap(icerr.ErrUnknownSymbol, "end marker may appear at most once")
	}
	return nil
}

func illegalOperation(sym rune) error {
	return icerr.Wrap(icerr.ErrIllegalOperation, fmt.Sprintf("FOLLOW is only defined for non-terminals, got %q", sym))
}
