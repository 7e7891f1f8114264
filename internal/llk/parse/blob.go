package parse

import (
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
	"github.com/dekarrin/llkgram/internal/llk/icerr"
)

// CompiledBlob is the on-disk/on-DB shape of a compiled Parser: a
// grammar signature plus the flattened LUT, so a cache hit can skip
// §4.5's LUT compilation entirely on the next decode of a structurally
// identical grammar (§5: "LUT compilation is one-time").
type CompiledBlob struct {
	CacheKey string
	Term     []rune
	NTerm    []rune
	Start    rune
	K        int
	Prods    []grammar.Production
	Rows     []blobRow
}

type blobRow struct {
	NTerm  rune
	Window string
	RHS    string
	Eps    bool
	ID     int
}

// Save flattens p into a CompiledBlob and encodes it with REZI, the
// binary format the teacher uses to persist structured game state.
func (p *Parser) Save() ([]byte, error) {
	key, err := cacheKey(p.g)
	if err != nil {
		return nil, err
	}

	blob := CompiledBlob{
		CacheKey: key,
		Term:     p.g.Terminals(),
		NTerm:    p.g.NonTerminals(),
		Start:    p.g.Start(),
		K:        p.g.Lookahead(),
		Prods:    p.g.Productions(),
	}
	for k, e := range p.lut {
		blob.Rows = append(blob.Rows, blobRow{NTerm: k.NTerm, Window: k.Window, RHS: e.RHS, Eps: e.Epsilon, ID: e.ID})
	}

	return rezi.EncBinary(blob), nil
}

// Load decodes a CompiledBlob produced by Save and rebuilds a Parser
// without re-running LUT compilation: the rows are taken directly from
// the blob. grammar.New still re-validates the decoded grammar, since
// that's the only constructor grammar exposes and REZI decoding alone
// doesn't guarantee the bytes weren't hand-assembled or tampered with.
func Load(data []byte) (*Parser, error) {
	var blob CompiledBlob
	n, err := rezi.DecBinary(data, &blob)
	if err != nil {
		return nil, icerr.New("REZI decode of compiled parser failed", err)
	}
	if n != len(data) {
		return nil, icerr.Wrap(icerr.ErrInvalidGrammar, "compiled parser blob has trailing, unconsumed bytes")
	}

	g, err := grammar.New(string(blob.Term), string(blob.NTerm), blob.Start, blob.K, blob.Prods)
	if err != nil {
		return nil, err
	}

	table := lut{}
	for _, row := range blob.Rows {
		table[lutKey{NTerm: row.NTerm, Window: row.Window}] = lutEntry{RHS: row.RHS, Epsilon: row.Eps, ID: row.ID}
	}

	return &Parser{ID: uuid.New(), g: g, lut: table}, nil
}
