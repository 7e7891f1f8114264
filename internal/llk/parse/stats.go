package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/llkgram/internal/llk/grammar"
)

// eofGlyph is how the end marker is rendered in human-readable output.
// It never appears in a programmatic return value; Stats and the LUT
// itself always use grammar.EOF for that.
const eofGlyph = "▩"

// ProductionStats is one production's row in a Stats dump: its stable
// id, its own text, and its CHOICE_k set.
type ProductionStats struct {
	ID     int
	Text   string
	Choice []string
}

// NonTerminalStats is one non-terminal's row: its FIRST_k and FOLLOW_k
// sets and the ids of its own productions.
type NonTerminalStats struct {
	Symbol      rune
	First       []string
	FirstHasEps bool
	Follow      []string
	Productions []int
}

// Stats is the data a grammar/parser statistics dump is built from:
// everything get_stat_string prints in the original implementation,
// but returned as structured data rather than rendered text, so a
// caller can format it however it likes. FormatStats is the one
// rendering this package offers itself.
type Stats struct {
	Terminals    []rune
	NonTerminals []NonTerminalStats
	Productions  []ProductionStats
	LUT          []LUTStats
}

// LUTStats is one compiled table row: a non-terminal, a lookahead
// window, and the production it selects.
type LUTStats struct {
	NTerm      rune
	Window     string
	ProductionID int
}

// ComputeStats gathers the full statistics of a compiled Parser's
// grammar and LUT. It never mutates the Parser.
func (p *Parser) ComputeStats() Stats {
	g := p.g
	st := Stats{Terminals: g.Terminals()}

	for _, n := range g.NonTerminals() {
		first, _ := g.First(string(n))
		follow, _ := g.Follow(n)
		nts := NonTerminalStats{
			Symbol:      n,
			First:       first.Strings(),
			FirstHasEps: first.Epsilon,
			Follow:      follow.Strings(),
			Productions: g.ProductionsFor(n),
		}
		st.NonTerminals = append(st.NonTerminals, nts)
	}

	for id, prod := range g.Productions() {
		st.Productions = append(st.Productions, ProductionStats{
			ID:     id,
			Text:   prod.String(),
			Choice: g.Choice(id).Strings(),
		})
	}

	keys := make([]lutKey, 0, len(p.lut))
	for k := range p.lut {
		keys = append(keys, k)
	}
	sortLUTKeys(keys)
	for _, k := range keys {
		e := p.lut[k]
		st.LUT = append(st.LUT, LUTStats{NTerm: k.NTerm, Window: k.Window, ProductionID: e.ID})
	}

	return st
}

func sortLUTKeys(keys []lutKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, b := keys[j-1], keys[j]
			if a.NTerm < b.NTerm || (a.NTerm == b.NTerm && a.Window <= b.Window) {
				break
			}
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

func glyph(s string) string {
	return strings.ReplaceAll(s, string(grammar.EOF), eofGlyph)
}

// FormatStats renders a Stats value as a fixed-width text report: one
// table for non-terminals (FIRST/FOLLOW), one for productions (with
// CHOICE_k), one for the compiled LUT. width is the wrap/column width
// passed to rosed; a non-positive width disables wrapping.
func FormatStats(s Stats, width int) string {
	var sb strings.Builder

	ntHeader := []string{"non-terminal", "FIRST_k", "FOLLOW_k", "productions"}
	ntRows := [][]string{}
	for _, nt := range s.NonTerminals {
		first := nt.First
		if nt.FirstHasEps {
			first = append(append([]string(nil), first...), "ε")
		}
		ntRows = append(ntRows, []string{
			string(nt.Symbol),
			glyph(strings.Join(first, ", ")),
			glyph(strings.Join(nt.Follow, ", ")),
			fmt.Sprint(nt.Productions),
		})
	}
	sb.WriteString(rosed.Edit("").
		InsertTableOpts(0, tableData(ntHeader, ntRows), width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String())
	sb.WriteString("\n\n")

	prodHeader := []string{"#", "production", "CHOICE_k"}
	prodRows := [][]string{}
	for _, pr := range s.Productions {
		prodRows = append(prodRows, []string{
			fmt.Sprint(pr.ID),
			pr.Text,
			glyph(strings.Join(pr.Choice, ", ")),
		})
	}
	sb.WriteString(rosed.Edit("").
		InsertTableOpts(0, tableData(prodHeader, prodRows), width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String())
	sb.WriteString("\n\n")

	lutHeader := []string{"non-terminal", "lookahead", "-> production #"}
	lutRows := [][]string{}
	for _, row := range s.LUT {
		lutRows = append(lutRows, []string{
			string(row.NTerm),
			glyph(row.Window),
			fmt.Sprint(row.ProductionID),
		})
	}
	sb.WriteString(rosed.Edit("").
		InsertTableOpts(0, tableData(lutHeader, lutRows), width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String())

	return sb.String()
}

func tableData(header []string, rows [][]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	out = append(out, rows...)
	return out
}
