package parser

import "strings"

// parseFlat interprets one relation per line: `relation arg1 arg2 ...`.
// A line with a single token becomes a bare leaf atom, blank and
// comment-only lines are skipped. Bracket characters carry no structure in
// this dialect.
func (p *Parser) parseFlat(text string) Result {
	flat := tokenizer{
		comments: p.tz.comments,
		brackets: false,
	}

	var res Result
	for lineNo, line := range strings.Split(text, "\n") {
		tokens, warns := flat.tokenize(line)
		for i := range warns {
			warns[i].Line = lineNo + 1
		}
		res.Warnings = append(res.Warnings, warns...)
		res.Atoms = append(res.Atoms, flatLineAtoms(tokens, lineNo+1)...)
	}
	return res
}

// flatLineAtoms converts one line's tokens into atoms, dropping any stray
// bracket tokens so the relation head never absorbs punctuation.
func flatLineAtoms(tokens []token, lineNo int) []Atom {
	leaves := make([]Atom, 0, len(tokens))
	for _, tok := range tokens {
		if tok.kind != tokenAtom {
			continue
		}
		leaves = append(leaves, leafAtom(tok.text, tok.quoted, Location{Line: lineNo, Column: tok.col}))
	}

	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return leaves
	default:
		return []Atom{{
			Kind:     KindCompound,
			Children: leaves,
			Location: leaves[0].Location,
		}}
	}
}
