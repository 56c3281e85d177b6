package parser

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenAtom tokenKind = iota
	tokenOpen
	tokenClose
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
	line   int
	col    int
}

// tokenizer splits raw text into leaf tokens, bracket tokens, and quoted
// strings. Line comments are stripped before anything else. When brackets
// is false (flat dialect) bracket characters are emitted as plain text.
type tokenizer struct {
	openers  map[rune]rune // open -> close
	closers  map[rune]rune // close -> open
	comments []string
	brackets bool
}

func (tz *tokenizer) tokenize(text string) ([]token, []Warning) {
	var tokens []token
	var warnings []Warning

	runes := []rune(text)
	line, col := 1, 1
	i := 0

	advance := func(n int) {
		for k := 0; k < n && i < len(runes); k++ {
			if runes[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i++
		}
	}

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			advance(1)

		case tz.commentAt(runes, i):
			for i < len(runes) && runes[i] != '\n' {
				advance(1)
			}

		case r == '"':
			startLine, startCol := line, col
			advance(1)
			var b strings.Builder
			terminated := false
			for i < len(runes) {
				c := runes[i]
				if c == '\\' && i+1 < len(runes) {
					b.WriteRune(unescape(runes[i+1]))
					advance(2)
					continue
				}
				if c == '"' {
					advance(1)
					terminated = true
					break
				}
				b.WriteRune(c)
				advance(1)
			}
			if !terminated {
				warnings = append(warnings, Warning{
					Message: "unterminated string literal",
					Line:    startLine,
				})
			}
			tokens = append(tokens, token{kind: tokenAtom, text: b.String(), quoted: true, line: startLine, col: startCol})

		case tz.brackets && tz.openers[r] != 0:
			tokens = append(tokens, token{kind: tokenOpen, text: string(r), line: line, col: col})
			advance(1)

		case tz.brackets && tz.closers[r] != 0:
			tokens = append(tokens, token{kind: tokenClose, text: string(r), line: line, col: col})
			advance(1)

		default:
			startLine, startCol := line, col
			var b strings.Builder
			for i < len(runes) {
				c := runes[i]
				if unicode.IsSpace(c) || c == '"' || tz.commentAt(runes, i) {
					break
				}
				if tz.brackets && (tz.openers[c] != 0 || tz.closers[c] != 0) {
					break
				}
				b.WriteRune(c)
				advance(1)
			}
			tokens = append(tokens, token{kind: tokenAtom, text: b.String(), line: startLine, col: startCol})
		}
	}

	return tokens, warnings
}

// unescape translates the common backslash escapes inside string literals.
// Unknown escapes keep the escaped rune, so \" and \\ also land here.
func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}

func (tz *tokenizer) commentAt(runes []rune, i int) bool {
	for _, prefix := range tz.comments {
		if prefix == "" {
			continue
		}
		pRunes := []rune(prefix)
		if i+len(pRunes) > len(runes) {
			continue
		}
		ok := true
		for k, pr := range pRunes {
			if runes[i+k] != pr {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
