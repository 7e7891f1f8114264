// Package llkgram implements a generator and driver for top-down
// predictive LL(k) parsers over single-character terminal and
// non-terminal alphabets. It validates a grammar, compiles it into a
// lookahead table, and drives that table with a stack machine to turn
// an input string into an annotated derivation tree.
//
// This package is a thin facade over internal/llk/grammar,
// internal/llk/parse, internal/llk/tree, and internal/llk/decode; the
// real logic lives there. It exists so a caller only needs one import
// for the common path: build a grammar, build a parser from it, parse.
package llkgram

import (
	"github.com/dekarrin/llkgram/internal/llk/decode"
	"github.com/dekarrin/llkgram/internal/llk/grammar"
	"github.com/dekarrin/llkgram/internal/llk/parse"
	"github.com/dekarrin/llkgram/internal/llk/tree"
)

// EOF is the reserved end-of-input marker. It may never be declared as
// a terminal or non-terminal of a Grammar.
const EOF = grammar.EOF

// Grammar is a validated, frozen LL(k) grammar.
type Grammar = grammar.Grammar

// Production is a single production rule.
type Production = grammar.Production

// FirstSet is the result of a FIRST_k computation.
type FirstSet = grammar.FirstSet

// StringSet is an ordered set of k-strings, as returned by FOLLOW_k and
// CHOICE_k.
type StringSet = grammar.StringSet

// Parser is a predictive parser compiled from a Grammar.
type Parser = parse.Parser

// Tree is the annotated derivation tree a successful Parse produces.
type Tree = tree.Tree

// Handle is a stable reference into a Tree under construction.
type Handle = tree.Handle

// Step is one entry of a Tree's LRN traversal.
type Step = tree.Step

// GrammarDescription is the external, YAML-serializable shape of a
// grammar.
type GrammarDescription = decode.GrammarDescription

// NewProduction builds a non-ε production lhs -> rhs.
func NewProduction(lhs rune, rhs string) Production {
	return grammar.NewProduction(lhs, rhs)
}

// NewEpsilonProduction builds an ε production lhs -> ε.
func NewEpsilonProduction(lhs rune) Production {
	return grammar.NewEpsilonProduction(lhs)
}

// NewGrammar constructs and validates a Grammar from its raw parts.
// term and nterm are the terminal and non-terminal alphabets, iterated
// as runes; start must be a member of nterm; k is the fixed lookahead,
// in [1, 16].
func NewGrammar(term, nterm string, start rune, k int, prods []Production) (*Grammar, error) {
	return grammar.New(term, nterm, start, k, prods)
}

// DecodeGrammar parses a YAML-encoded grammar description into a
// validated Grammar.
func DecodeGrammar(doc []byte) (*Grammar, error) {
	return decode.DecodeGrammar(doc)
}

// GrammarFromDescription builds a validated Grammar from an
// already-parsed GrammarDescription.
func GrammarFromDescription(gd GrammarDescription) (*Grammar, error) {
	return decode.FromDescription(gd)
}

// NewParser compiles a Parser from a validated Grammar.
func NewParser(g *Grammar) (*Parser, error) {
	return parse.New(g)
}

// LoadParser decodes a Parser previously serialized with
// (*Parser).Save.
func LoadParser(data []byte) (*Parser, error) {
	return parse.Load(data)
}

// CacheKey returns the structural hash of g used to key a compiled
// Parser cache: two Grammars built from structurally identical
// descriptions hash identically.
func CacheKey(g *Grammar) (string, error) {
	return parse.CacheKey(g)
}
