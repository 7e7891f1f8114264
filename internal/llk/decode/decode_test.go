package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDoc = `
term_symbols: ab
nterm_symbols: SB
start_symbol: S
lookahead: 1
productions:
  - nterm: S
    derivative: aB
  - nterm: B
    derivative: b
  - nterm: B
    epsilon: true
`

func TestDecodeGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := DecodeGrammar([]byte(sampleDoc))

	if !assert.NoError(err) {
		return
	}
	assert.Equal('S', g.Start())
	assert.Equal(1, g.Lookahead())
	assert.ElementsMatch([]rune("ab"), g.Terminals())
}

func TestDecodeGrammar_MalformedYAML(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeGrammar([]byte("not: [valid"))

	assert.Error(err)
}

func TestDecodeGrammar_InvalidGrammar(t *testing.T) {
	assert := assert.New(t)

	// Missing a production for B makes this grammar invalid.
	_, err := DecodeGrammar([]byte(`
term_symbols: ab
nterm_symbols: SB
start_symbol: S
lookahead: 1
productions:
  - nterm: S
    derivative: aB
`))

	assert.Error(err)
}

func TestFromDescription_RejectsMultiCharStartSymbol(t *testing.T) {
	assert := assert.New(t)

	_, err := FromDescription(GrammarDescription{
		TermSymbols:  "a",
		NTermSymbols: "S",
		StartSymbol:  "SS",
		Lookahead:    1,
		Productions: []ProductionDescription{
			{NTerm: "S", Derivative: "a"},
		},
	})

	assert.Error(err)
}
