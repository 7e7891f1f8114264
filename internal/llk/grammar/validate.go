package grammar

import (
	"fmt"

	"github.com/dekarrin/llkgram/internal/llk/icerr"
)

// validate runs every rule of §4.3 in order and returns the first
// violation encountered.
func (g *Grammar) validate() error {
	if err := g.validateSymbols(); err != nil {
		return err
	}
	if err := g.validateProductions(); err != nil {
		return err
	}
	if err := g.validateLookahead(); err != nil {
		return err
	}
	if err := g.validateNoLeftRecursion(); err != nil {
		return err
	}
	reachable := g.reachableNonTerminals()
	resolvable := g.resolvableNonTerminals()
	if err := g.validateReachableAndResolvable(reachable, resolvable); err != nil {
		return err
	}
	if err := g.validateLLkDisjointness(); err != nil {
		return err
	}
	return nil
}

func (g *Grammar) validateSymbols() error {
	if len(g.term) == 0 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, "terminal set T must not be empty")
	}
	if len(g.nterm) == 0 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, "non-terminal set N must not be empty")
	}
	if !g.IsNTerm(g.start) {
		return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("start symbol %q is not in N", g.start))
	}
	for r := range g.term {
		if g.nterm[r] {
			return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("symbol %q is in both T and N", r))
		}
	}
	if g.term[EOF] || g.nterm[EOF] {
		return icerr.Wrap(icerr.ErrInvalidGrammar, "end marker must not be declared as a grammar symbol")
	}
	return nil
}

func (g *Grammar) validateProductions() error {
	if len(g.prods) == 0 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, "production list P must not be empty")
	}
	for _, p := range g.prods {
		if !g.IsNTerm(p.LHS) {
			return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("production lhs %q is not in N", p.LHS))
		}
		if !p.Epsilon {
			for _, r := range p.RHS {
				if !g.term[r] && !g.nterm[r] {
					return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("symbol %q in rhs of %s is not in T or N", r, p))
				}
			}
		}
	}
	if len(g.byLHS[g.start]) == 0 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("start symbol %q has no productions", g.start))
	}
	for n := range g.nterm {
		if len(g.byLHS[n]) == 0 {
			return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("non-terminal %q never appears as a production lhs", n))
		}
	}
	return nil
}

func (g *Grammar) validateLookahead() error {
	if g.k < 1 || g.k > 16 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("lookahead %d is outside the allowed range [1, 16]", g.k))
	}
	return nil
}

// validateNoLeftRecursion rejects A =>+ Aα for any non-terminal A. Rather
// than the spec's two-step heuristic (a production's single leftmost
// non-terminal deriving, one more step, a string starting with the
// original lhs), this computes the full transitive left-corner closure: a
// production A -> Bβ makes B a direct left-corner of A, and the relation
// is closed to a fixed point. A is left-recursive iff A is in its own
// closure. This strictly generalizes both the direct (A -> Aα) and
// indirect cases the spec names, since it catches chains of any length
// rather than only two hops.
func (g *Grammar) validateNoLeftRecursion() error {
	direct := map[rune]map[rune]bool{}
	for n := range g.nterm {
		direct[n] = map[rune]bool{}
	}
	for _, p := range g.prods {
		if p.Epsilon || len(p.RHS) == 0 {
			continue
		}
		first := []rune(p.RHS)[0]
		if g.IsNTerm(first) {
			direct[p.LHS][first] = true
		}
	}

	closure := map[rune]map[rune]bool{}
	for n := range g.nterm {
		closure[n] = map[rune]bool{}
		for b := range direct[n] {
			closure[n][b] = true
		}
	}
	changed := true
	for changed {
		changed = false
		for n := range g.nterm {
			for b := range closure[n] {
				for c := range closure[b] {
					if !closure[n][c] {
						closure[n][c] = true
						changed = true
					}
				}
			}
		}
	}

	for n := range g.nterm {
		if closure[n][n] {
			return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("non-terminal %q is left-recursive", n))
		}
	}
	return nil
}

// reachableNonTerminals computes the fixed point of rule 6: start from
// {s}, add every non-terminal appearing in the rhs of a production whose
// lhs is already reachable.
func (g *Grammar) reachableNonTerminals() map[rune]bool {
	reachable := map[rune]bool{g.start: true}
	changed := true
	for changed {
		changed = false
		for n := range reachable {
			for _, idx := range g.byLHS[n] {
				p := g.prods[idx]
				if p.Epsilon {
					continue
				}
				for _, r := range p.RHS {
					if g.IsNTerm(r) && !reachable[r] {
						reachable[r] = true
						changed = true
					}
				}
			}
		}
	}
	return reachable
}

// resolvableNonTerminals computes the fixed point of rule 7: start from
// non-terminals with an all-terminal (or ε) alternative, add non-terminals
// with an alternative whose every symbol is a terminal or already
// resolvable.
func (g *Grammar) resolvableNonTerminals() map[rune]bool {
	resolvable := map[rune]bool{}
	changed := true
	for changed {
		changed = false
		for n := range g.nterm {
			if resolvable[n] {
				continue
			}
			for _, idx := range g.byLHS[n] {
				p := g.prods[idx]
				if p.Epsilon {
					resolvable[n] = true
					changed = true
					break
				}
				ok := true
				for _, r := range p.RHS {
					if g.IsNTerm(r) && !resolvable[r] {
						ok = false
						break
					}
				}
				if ok {
					resolvable[n] = true
					changed = true
					break
				}
			}
		}
	}
	return resolvable
}

func (g *Grammar) validateReachableAndResolvable(reachable, resolvable map[rune]bool) error {
	var offending []rune
	for n := range g.nterm {
		if !reachable[n] || !resolvable[n] {
			offending = append(offending, n)
		}
	}
	if len(offending) > 0 {
		return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf("non-terminal(s) %v are unreachable from the start symbol or can never derive a terminal string", offending))
	}
	return nil
}

// validateLLkDisjointness enforces rule 9: for every pair of distinct
// productions sharing a lhs, their CHOICE_k sets must be disjoint.
func (g *Grammar) validateLLkDisjointness() error {
	for n := range g.nterm {
		ids := g.byLHS[n]
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				ci := g.Choice(ids[i])
				cj := g.Choice(ids[j])
				for _, w := range ci.Strings() {
					if cj.Has(w) {
						return icerr.Wrap(icerr.ErrInvalidGrammar, fmt.Sprintf(
							"productions #%d (%s) and #%d (%s) are not LL(k)-disjoint: both choose on %q",
							ids[i], g.prods[ids[i]], ids[j], g.prods[ids[j]], w))
					}
				}
			}
		}
	}
	return nil
}
