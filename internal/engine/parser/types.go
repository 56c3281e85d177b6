package parser

import (
	"strconv"
	"strings"
)

type AtomKind int

const (
	KindSymbol AtomKind = iota
	KindNumber
	KindString
	KindVariable
	KindCompound
)

// Atom is one parsed expression element: either a leaf token or an ordered
// sequence of child atoms. Compounds nest arbitrarily; leaves have no
// children.
type Atom struct {
	Kind     AtomKind
	Value    string // leaf text; quoted strings are stored unquoted
	Children []Atom // only for KindCompound
	Location Location
}

type Location struct {
	Line   int
	Column int
}

func (a Atom) IsLeaf() bool {
	return a.Kind != KindCompound
}

// String renders the atom back in s-expression form. Used for node ids of
// nested expressions and for warning snippets.
func (a Atom) String() string {
	switch a.Kind {
	case KindString:
		return strconv.Quote(a.Value)
	case KindCompound:
		parts := make([]string, len(a.Children))
		for i, c := range a.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return a.Value
	}
}

func leafAtom(text string, quoted bool, loc Location) Atom {
	kind := KindSymbol
	switch {
	case quoted:
		kind = KindString
	case strings.HasPrefix(text, "$"):
		kind = KindVariable
	case isNumeric(text):
		kind = KindNumber
	}
	return Atom{Kind: kind, Value: text, Location: loc}
}

func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

// Warning records a recovered parse problem. In lenient mode the offending
// expression is dropped and the warning travels with the result instead of
// failing the run.
type Warning struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet,omitempty"`
}

// Result is the materialized output of one parse pass: the surviving
// top-level atoms plus any recovery warnings.
type Result struct {
	Atoms    []Atom
	Warnings []Warning
}
