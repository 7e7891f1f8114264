// Package decode turns an external, YAML-encoded grammar description
// into a validated *grammar.Grammar. It is the only place in this
// module that does file or format I/O on a grammar; nothing downstream
// of grammar.New ever sees the description's textual shape again.
package decode

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
	"github.com/dekarrin/llkgram/internal/llk/icerr"
)

// ProductionDescription is one production as it appears in an external
// grammar document: an absent or empty Derivative is lhs -> ε.
type ProductionDescription struct {
	NTerm      string `yaml:"nterm"`
	Derivative string `yaml:"derivative"`
}

// GrammarDescription is the external, serializable shape of a grammar:
// a structured document a caller assembles (by hand, from a config
// file, from an API request body) and hands to FromDescription. It
// carries no behavior of its own; it exists purely to cross a format
// boundary on its way to a *grammar.Grammar.
type GrammarDescription struct {
	TermSymbols  string                   `yaml:"term_symbols"`
	NTermSymbols string                   `yaml:"nterm_symbols"`
	StartSymbol  string                   `yaml:"start_symbol"`
	Lookahead    int                      `yaml:"lookahead"`
	Productions  []ProductionDescription  `yaml:"productions"`
}

// DecodeGrammar parses a YAML document into a *grammar.Grammar. Any
// malformed document (bad YAML, a start_symbol that isn't exactly one
// rune, a production referencing an unknown symbol, a non-LL(k)
// grammar) returns an icerr.Error wrapping
// icerr.ErrGrammarFromDescriptionFailed.
func DecodeGrammar(doc []byte) (*grammar.Grammar, error) {
	var gd GrammarDescription
	if err := yaml.Unmarshal(doc, &gd); err != nil {
		return nil, icerr.Wrap(icerr.ErrGrammarFromDescriptionFailed, "malformed YAML: "+err.Error())
	}
	return FromDescription(gd)
}

// FromDescription builds a *grammar.Grammar from an already-parsed
// GrammarDescription, for callers that assemble one programmatically
// (e.g. an API handler that unmarshals a request body itself) instead
// of going through DecodeGrammar.
func FromDescription(gd GrammarDescription) (*grammar.Grammar, error) {
	start := []rune(gd.StartSymbol)
	if len(start) != 1 {
		return nil, icerr.Wrap(icerr.ErrGrammarFromDescriptionFailed, "start_symbol must be exactly one character")
	}

	prods := make([]grammar.Production, 0, len(gd.Productions))
	for i, pd := range gd.Productions {
		lhs := []rune(pd.NTerm)
		if len(lhs) != 1 {
			return nil, icerr.Wrap(icerr.ErrGrammarFromDescriptionFailed, productionErrorf(i, "nterm must be exactly one character"))
		}
		if pd.Derivative == "" {
			prods = append(prods, grammar.NewEpsilonProduction(lhs[0]))
			continue
		}
		prods = append(prods, grammar.NewProduction(lhs[0], pd.Derivative))
	}

	g, err := grammar.New(gd.TermSymbols, gd.NTermSymbols, start[0], gd.Lookahead, prods)
	if err != nil {
		return nil, icerr.Wrap(icerr.ErrGrammarFromDescriptionFailed, "decoded grammar failed validation: "+err.Error())
	}
	return g, nil
}

func productionErrorf(index int, msg string) string {
	return "production " + strconv.Itoa(index) + ": " + msg
}
