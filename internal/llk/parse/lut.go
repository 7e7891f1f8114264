// Package parse compiles a validated LL(k) grammar into a lookahead table
// (LUT) and drives the table with a predictive stack machine to produce a
// derivation tree.
package parse

import (
	"github.com/cnf/structhash"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
	"github.com/dekarrin/llkgram/internal/llk/icerr"
)

// lutKey is the compiled table's key: a non-terminal paired with a
// lookahead window of up to k terminals.
type lutKey struct {
	NTerm  rune
	Window string
}

// lutEntry is the compiled table's value: the right-hand side to expand
// to, and the stable id of the production that produced it.
type lutEntry struct {
	RHS     string
	Epsilon bool
	ID      int
}

// lut is the compiled (non-terminal, lookahead window) -> (rhs,
// production id) mapping of §4.5. Grammar validation already proved
// CHOICE_k sets are pairwise disjoint for same-lhs productions, so
// insertion can never legitimately collide; buildLUT still treats a
// collision as an invariant violation rather than silently overwriting,
// per the "fail loudly" spirit of §4.7's note on programmer errors.
type lut map[lutKey]lutEntry

func buildLUT(g *grammar.Grammar) (lut, error) {
	table := lut{}

	for _, n := range g.NonTerminals() {
		for _, id := range g.ProductionsFor(n) {
			choice := g.Choice(id)
			prod := g.Productions()[id]
			for _, w := range choice.Strings() {
				key := lutKey{NTerm: n, Window: w}
				if _, exists := table[key]; exists {
					return nil, icerr.Wrap(icerr.ErrInvalidGrammar, "LUT collision on an already-validated grammar; this indicates a CHOICE_k computation bug")
				}
				table[key] = lutEntry{RHS: prod.RHS, Epsilon: prod.Epsilon, ID: id}
			}
		}
	}

	return table, nil
}

func (t lut) get(ntop rune, window string) (lutEntry, bool) {
	e, ok := t[lutKey{NTerm: ntop, Window: window}]
	return e, ok
}

// CacheKey returns the structural hash that two structurally identical
// grammars share, letting a caller check a compiled-parser cache for a
// grammar before handing it to New.
func CacheKey(g *grammar.Grammar) (string, error) {
	return cacheKey(g)
}

// cacheKey returns a structural hash of g suitable for keying a compiled
// parser cache: two Grammar values built from structurally identical
// descriptions hash identically, so a decoded-then-rebuilt grammar can
// reuse a previously compiled LUT instead of recompiling it.
func cacheKey(g *grammar.Grammar) (string, error) {
	type shape struct {
		Term  []rune
		NTerm []rune
		Start rune
		K     int
		Prods []grammar.Production
	}
	s := shape{
		Term:  g.Terminals(),
		NTerm: g.NonTerminals(),
		Start: g.Start(),
		K:     g.Lookahead(),
		Prods: g.Productions(),
	}
	hash, err := structhash.Hash(s, 1)
	if err != nil {
		return "", icerr.New("failed to compute grammar cache key", err)
	}
	return hash, nil
}
