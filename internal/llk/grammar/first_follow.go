package grammar

// First computes FIRST_k(alpha): the set of k-length terminal prefixes of
// strings derivable from alpha, plus ε if alpha can derive the empty
// string. alpha must consist only of symbols known to the grammar (plus,
// optionally, a single trailing end marker); any other character yields
// icerr.ErrUnknownSymbol.
func (g *Grammar) First(alpha string) (FirstSet, error) {
	if err := g.assertAlphabet(alpha); err != nil {
		return FirstSet{}, err
	}
	return g.first([]rune(alpha)), nil
}

// first is the unchecked, structurally-recursive implementation of
// FIRST_k, used both by First and internally by Follow/Choice on strings
// that are already known to be well-formed. FIRST_k(ε) = {ε}; for a
// non-empty string, ε is a member iff every symbol's own FIRST contains
// ε, and the non-ε members are exactly the k-length terminal prefixes
// term_prefixes computes (§4.2a).
func (g *Grammar) first(syms []rune) FirstSet {
	result := newFirstSet()

	allNullable := true
	for _, s := range syms {
		if !g.symbolHasEpsilon(s) {
			allNullable = false
			break
		}
	}
	if allNullable {
		result.Epsilon = true
	}

	for _, prefix := range g.termPrefixes(syms, g.k) {
		if prefix == "" {
			// Only possible when the whole string derives ε, including
			// through a chain of non-terminals (A -> B, B -> ε) that the
			// direct check above misses. It sets the ε flag rather than
			// being admitted as a member, since "" is not a k-string.
			result.Epsilon = true
			continue
		}
		result.Add(prefix)
	}

	return result
}

func (g *Grammar) symbolHasEpsilon(sym rune) bool {
	if g.IsTerm(sym) {
		return false
	}
	return g.DerivesEpsilon(sym)
}

// termPrefixes enumerates every k-length terminal prefix reachable from
// syms by repeatedly replacing its leftmost non-terminal with each of its
// non-ε alternatives and, if it has one, with ε. As a robustness guard against a rhs that
// begins with its own lhs (which a validated grammar never has, since
// validateNoLeftRecursion rejects it beforehand), an alternative that
// begins with the very non-terminal being expanded is skipped.
func (g *Grammar) termPrefixes(syms []rune, limit int) []string {
	leftmost := -1
	for i, s := range syms {
		if g.IsNTerm(s) {
			leftmost = i
			break
		}
	}

	if leftmost < 0 {
		// Only terminals (and possibly the end marker) remain: return the
		// limit-length prefix.
		n := len(syms)
		if n > limit {
			n = limit
		}
		return []string{string(syms[:n])}
	}

	prefix := syms[:leftmost]
	if len(prefix) >= limit {
		return []string{string(prefix[:limit])}
	}

	nterm := syms[leftmost]
	suffix := syms[leftmost+1:]
	restLimit := limit - len(prefix)

	var out []string
	for _, alt := range g.derive(nterm) {
		if len(alt) > 0 && alt[0] == nterm {
			continue
		}
		expanded := make([]rune, 0, len(alt)+len(suffix))
		expanded = append(expanded, alt...)
		expanded = append(expanded, suffix...)
		for _, sub := range g.termPrefixes(expanded, restLimit) {
			out = append(out, string(prefix)+sub)
		}
	}

	// derive omits nterm's ε-alternative, if it has one; a string where
	// nterm vanishes and the suffix carries on immediately after prefix
	// is a derivation in its own right and must be substituted too, or
	// any terminal past a nullable non-terminal is lost from FIRST_k.
	if g.DerivesEpsilon(nterm) {
		for _, sub := range g.termPrefixes(suffix, restLimit) {
			out = append(out, string(prefix)+sub)
		}
	}

	return out
}

// Follow computes FOLLOW_k(nterm): the set of k-length terminal strings
// that can immediately follow nterm in some sentential form derivable
// from the start symbol. nterm must be a non-terminal; any other symbol
// yields icerr.ErrIllegalOperation.
func (g *Grammar) Follow(nterm rune) (StringSet, error) {
	if !g.IsNTerm(nterm) {
		return StringSet{}, illegalOperation(nterm)
	}
	return g.follow(nterm, map[int]bool{}), nil
}

// follow is the recursive implementation. visited is keyed by production
// index (not by non-terminal, since the same non-terminal may legitimately
// be revisited through a different surrounding production) and prevents
// the same production from being expanded twice within one top-level
// Follow call.
func (g *Grammar) follow(nterm rune, visited map[int]bool) StringSet {
	result := newStringSet()

	for idx, p := range g.prods {
		if p.Epsilon {
			continue
		}
		rhs := []rune(p.RHS)

		var occursAt []int
		for i, r := range rhs {
			if r == nterm {
				occursAt = append(occursAt, i)
			}
		}
		if len(occursAt) == 0 {
			continue
		}

		suffixFirst := newFirstSet()
		endsWithNterm := false
		for _, pos := range occursAt {
			suffix := rhs[pos+1:]
			if len(suffix) == 0 {
				endsWithNterm = true
				continue
			}
			suffixFirst.Merge(g.first(suffix))
		}

		if p.LHS != nterm && !visited[idx] && (endsWithNterm || suffixFirst.Epsilon) {
			visited[idx] = true
			result.Merge(g.follow(p.LHS, visited))
		}

		result.Merge(suffixFirst.StringSet)
	}

	return result
}

// Choice computes CHOICE_k(p) for the production with the given id: the
// lookahead set that selects it. Panics if id is out of range, since
// production ids are an internal contract between Grammar and its
// callers, not externally supplied data.
func (g *Grammar) Choice(id int) StringSet {
	p := g.prods[id]

	var rhsFirst FirstSet
	if p.Epsilon {
		rhsFirst = FirstSet{Epsilon: true, StringSet: newStringSet()}
	} else {
		rhsFirst = g.first([]rune(p.RHS))
	}

	f := newStringSet()
	f.Merge(rhsFirst.StringSet)
	if rhsFirst.Epsilon {
		f.Add("")
	}

	follow := g.follow(p.LHS, map[int]bool{})
	if follow.Len() == 0 {
		return f
	}

	choice := newStringSet()
	for _, fs := range f.Strings() {
		for _, l := range follow.Strings() {
			choice.Add(truncateK(fs+l, g.k))
		}
	}
	return choice
}

func truncateK(s string, k int) string {
	r := []rune(s)
	if len(r) > k {
		r = r[:k]
	}
	return string(r)
}
