package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
)

// abGrammar builds the same minimal optional-trailing-b grammar used
// throughout the grammar package's own tests:
//
//	S -> a B
//	B -> b
//	   | ε
func abGrammar(t *testing.T, k int) *grammar.Grammar {
	t.Helper()
	g, err := grammar.New("ab", "SB", 'S', k, []grammar.Production{
		grammar.NewProduction('S', "aB"),
		grammar.NewProduction('B', "b"),
		grammar.NewEpsilonProduction('B'),
	})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
		expectLRN []rune
	}{
		{
			name:      "matches the optional trailing terminal",
			input:     "ab",
			expectLRN: []rune{'S', 'a', 'B', 'b'},
		},
		{
			name:      "epsilon-reduces at end of input",
			input:     "a",
			expectLRN: []rune{'S', 'a', 'B'},
		},
		{
			name:      "wrong terminal fails derivation",
			input:     "aa",
			expectErr: true,
		},
		{
			name:      "extra trailing input fails derivation",
			input:     "abb",
			expectErr: true,
		},
	}

	g := abGrammar(t, 1)
	p, err := New(g)
	if !assert.NoError(t, err) {
		return
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tr, err := p.Parse(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.input, tr.Leaves())

			var symbols []rune
			for _, step := range tr.LRN() {
				symbols = append(symbols, step.Symbol)
			}
			assert.Equal(tc.expectLRN, symbols)
		})
	}
}

func TestParse_UnknownSymbol(t *testing.T) {
	assert := assert.New(t)

	g := abGrammar(t, 1)
	p, err := New(g)
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse("ax")

	assert.Error(err)
}

func TestParse_SharesCompiledParserAcrossCalls(t *testing.T) {
	assert := assert.New(t)

	g := abGrammar(t, 1)
	p, err := New(g)
	if !assert.NoError(err) {
		return
	}

	_, err1 := p.Parse("a")
	_, err2 := p.Parse("ab")

	assert.NoError(err1)
	assert.NoError(err2)
}

func TestSaveLoad_RoundTrips(t *testing.T) {
	assert := assert.New(t)

	g := abGrammar(t, 1)
	p, err := New(g)
	if !assert.NoError(err) {
		return
	}

	data, err := p.Save()
	if !assert.NoError(err) {
		return
	}

	loaded, err := Load(data)
	if !assert.NoError(err) {
		return
	}

	tr, err := loaded.Parse("ab")
	assert.NoError(err)
	assert.Equal("ab", tr.Leaves())
}
