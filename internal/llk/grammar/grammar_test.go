package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// abGrammar is a minimal valid grammar with one optional-trailing-b
// non-terminal.
//
//	S -> a B
//	B -> b
//	   | ε
func abGrammar(k int) (*Grammar, error) {
	return New("ab", "SB", 'S', k, []Production{
		NewProduction('S', "aB"),
		NewProduction('B', "b"),
		NewEpsilonProduction('B'),
	})
}

func TestNew_ValidGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := abGrammar(1)

	assert.NoError(err)
	if assert.NotNil(g) {
		assert.Equal('S', g.Start())
		assert.Equal(1, g.Lookahead())
		assert.ElementsMatch([]rune("ab"), g.Terminals())
		assert.ElementsMatch([]rune("SB"), g.NonTerminals())
	}
}

func TestNew_RejectsInvalidGrammars(t *testing.T) {
	testCases := []struct {
		name  string
		build func() (*Grammar, error)
	}{
		{
			name: "empty terminal set",
			build: func() (*Grammar, error) {
				return New("", "S", 'S', 1, []Production{NewProduction('S', "a")})
			},
		},
		{
			name: "start symbol not a non-terminal",
			build: func() (*Grammar, error) {
				return New("a", "S", 'X', 1, []Production{NewProduction('S', "a")})
			},
		},
		{
			name: "symbol in both T and N",
			build: func() (*Grammar, error) {
				return New("a", "aS", 'S', 1, []Production{NewProduction('S', "a")})
			},
		},
		{
			name: "lookahead out of range",
			build: func() (*Grammar, error) {
				return New("a", "S", 'S', 0, []Production{NewProduction('S', "a")})
			},
		},
		{
			name: "lookahead too large",
			build: func() (*Grammar, error) {
				return New("a", "S", 'S', 17, []Production{NewProduction('S', "a")})
			},
		},
		{
			name: "direct left recursion",
			build: func() (*Grammar, error) {
				return New("a", "S", 'S', 1, []Production{
					NewProduction('S', "Sa"),
					NewProduction('S', "a"),
				})
			},
		},
		{
			name: "indirect left recursion",
			build: func() (*Grammar, error) {
				return New("a", "SA", 'S', 1, []Production{
					NewProduction('S', "Aa"),
					NewProduction('A', "Sb"),
					NewProduction('A', "a"),
				})
			},
		},
		{
			name: "unreachable non-terminal",
			build: func() (*Grammar, error) {
				return New("a", "SA", 'S', 1, []Production{
					NewProduction('S', "a"),
					NewProduction('A', "a"),
				})
			},
		},
		{
			name: "unresolvable non-terminal",
			build: func() (*Grammar, error) {
				return New("a", "SA", 'S', 1, []Production{
					NewProduction('S', "A"),
					NewProduction('A', "aA"),
				})
			},
		},
		{
			name: "not LL(k)-disjoint",
			build: func() (*Grammar, error) {
				return New("a", "S", 'S', 1, []Production{
					NewProduction('S', "a"),
					NewProduction('S', "a"),
				})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := tc.build()

			assert.Error(err)
			assert.Nil(g)
		})
	}
}

func TestFirst(t *testing.T) {
	testCases := []struct {
		name        string
		alpha       string
		expect      []string
		expectEps   bool
	}{
		{name: "terminal is its own FIRST", alpha: "a", expect: []string{"a"}},
		{name: "non-terminal with only non-ε alt", alpha: "S", expect: []string{"a"}},
		{name: "nullable non-terminal", alpha: "B", expect: []string{"b"}, expectEps: true},
	}

	g, err := abGrammar(1)
	if !assert.NoError(t, err) {
		return
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			fs, err := g.First(tc.alpha)

			assert.NoError(err)
			assert.ElementsMatch(tc.expect, fs.Strings())
			assert.Equal(tc.expectEps, fs.Epsilon)
		})
	}
}

func TestFirst_UnknownSymbol(t *testing.T) {
	assert := assert.New(t)

	g, err := abGrammar(1)
	if !assert.NoError(err) {
		return
	}

	_, err = g.First("Z")

	assert.Error(err)
}

func TestFollow(t *testing.T) {
	assert := assert.New(t)

	g, err := abGrammar(1)
	if !assert.NoError(err) {
		return
	}

	// B only ever appears at the end of S's rhs, and S is the start
	// symbol: FOLLOW_k(S) is empty by design (§4.4, no end-marker
	// augmentation), so FOLLOW_k(B) is empty too.
	fs, err := g.Follow('B')

	assert.NoError(err)
	assert.Empty(fs.Strings())
}

func TestFollow_RejectsTerminal(t *testing.T) {
	assert := assert.New(t)

	g, err := abGrammar(1)
	if !assert.NoError(err) {
		return
	}

	_, err = g.Follow('a')

	assert.Error(err)
}

func TestChoice_DisjointAcrossAlternatives(t *testing.T) {
	assert := assert.New(t)

	g, err := abGrammar(1)
	if !assert.NoError(err) {
		return
	}

	ids := g.ProductionsFor('B')
	if !assert.Len(ids, 2) {
		return
	}

	c0 := g.Choice(ids[0])
	c1 := g.Choice(ids[1])

	for _, w := range c0.Strings() {
		assert.False(c1.Has(w), "CHOICE sets of sibling productions must be disjoint")
	}
}
