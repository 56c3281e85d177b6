package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mettagraph/internal/core/errors"
)

type Dialect string

const (
	DialectSExpr Dialect = "sexpr"
	DialectFlat  Dialect = "flat"
	DialectAuto  Dialect = "auto"
)

type Options struct {
	Dialect         Dialect
	Strict          bool
	BracketPairs    []string // two-rune strings, e.g. "()" and "[]"
	CommentPrefixes []string
}

func DefaultOptions() Options {
	return Options{
		Dialect:         DialectAuto,
		BracketPairs:    []string{"()", "[]"},
		CommentPrefixes: []string{";"},
	}
}

// Parser turns raw corpus text into top-level atoms for one configured
// dialect. A Parser is immutable after New and safe for concurrent use;
// each Parse call keeps all state on its own stack.
type Parser struct {
	opts Options
	tz   tokenizer
}

func New(opts Options) (*Parser, error) {
	switch opts.Dialect {
	case DialectSExpr, DialectFlat, DialectAuto:
	case "":
		opts.Dialect = DialectAuto
	default:
		return nil, errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("unknown dialect %q (want sexpr, flat or auto)", opts.Dialect))
	}

	if len(opts.BracketPairs) == 0 {
		return nil, errors.New(errors.CodeInvalidConfig, "at least one bracket pair is required")
	}

	openers := make(map[rune]rune, len(opts.BracketPairs))
	closers := make(map[rune]rune, len(opts.BracketPairs))
	for _, pair := range opts.BracketPairs {
		runes := []rune(pair)
		if len(runes) != 2 || runes[0] == runes[1] {
			return nil, errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("bracket pair %q must be two distinct characters", pair))
		}
		openers[runes[0]] = runes[1]
		closers[runes[1]] = runes[0]
	}

	if len(opts.CommentPrefixes) == 0 {
		opts.CommentPrefixes = DefaultOptions().CommentPrefixes
	}

	return &Parser{
		opts: opts,
		tz: tokenizer{
			openers:  openers,
			closers:  closers,
			comments: opts.CommentPrefixes,
			brackets: true,
		},
	}, nil
}

// Parse runs a single pass over the text and materializes every surviving
// top-level atom. Lenient mode never fails on malformed input; strict mode
// returns a structural error for the first defect.
func (p *Parser) Parse(text string) (Result, error) {
	switch p.opts.Dialect {
	case DialectFlat:
		return p.parseFlat(text), nil
	case DialectSExpr:
		tokens, warns := p.tz.tokenize(text)
		res, err := p.parseSExpr(tokens)
		if err != nil {
			return Result{}, err
		}
		res.Warnings = append(warns, res.Warnings...)
		return res, nil
	default:
		return p.parseAuto(text)
	}
}

// parseAuto walks the corpus segment by segment. A segment is a run of
// lines forming complete bracketed expressions (bracket depth back to zero
// at a line boundary) or a single bracketless line. Bracketed segments go
// through the s-expression strategy; when that salvages nothing the
// segment's lines are retried as flat relations.
func (p *Parser) parseAuto(text string) (Result, error) {
	var res Result

	flush := func(segment []string, startLine int, hasBrackets bool) error {
		chunk := strings.Join(segment, "\n")
		if strings.TrimSpace(chunk) == "" {
			return nil
		}
		if !hasBrackets {
			res.merge(p.parseFlat(chunk), startLine)
			return nil
		}

		tokens, warns := p.tz.tokenize(chunk)
		firstIsOpen := len(tokens) > 0 && tokens[0].kind == tokenOpen
		sres, err := p.parseSExpr(tokens)
		if err != nil {
			// Strict mode surfaces the first structural failure; lenient
			// mode recovers below.
			if p.opts.Strict {
				return offsetErrorLine(err, startLine)
			}
			sres = Result{}
		}
		structural := err != nil || len(sres.Warnings) > 0
		// A segment that opens with a bracket was written as an
		// s-expression: structural defects drop it with a warning.
		// Symbol-first segments retry as flat relations instead.
		if structural && !firstIsOpen {
			fallback := p.parseFlat(chunk)
			fallback.Warnings = append(fallback.Warnings, Warning{
				Message: "expression not valid s-expression syntax, interpreted as flat relations",
				Line:    startLine,
			})
			res.merge(fallback, startLine)
			return nil
		}
		sres.Warnings = append(warns, sres.Warnings...)
		res.merge(sres, startLine)
		return nil
	}

	lines := strings.Split(text, "\n")
	var segment []string
	segStart := 1
	depth := 0
	segBrackets := false

	for idx, line := range lines {
		if len(segment) == 0 {
			segStart = idx + 1
			segBrackets = false
		}
		segment = append(segment, line)

		opens, closes := p.bracketDelta(line)
		if opens+closes > 0 {
			segBrackets = true
		}
		depth += opens - closes
		if depth < 0 {
			depth = 0 // stray closers recover at the segment boundary
		}
		if depth == 0 {
			if err := flush(segment, segStart, segBrackets); err != nil {
				return Result{}, err
			}
			segment = segment[:0]
		}
	}
	if len(segment) > 0 {
		// unterminated trailing expression
		if p.opts.Strict {
			return Result{}, errors.AddContext(
				errors.New(errors.CodeStructural, "unterminated expression at end of input"),
				errors.CtxLine, segStart)
		}
		if err := flush(segment, segStart, segBrackets); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

// offsetErrorLine rebases a segment-relative line number in the error
// context onto the corpus line numbering.
func offsetErrorLine(err error, startLine int) error {
	var de *errors.DomainError
	if stderrors.As(err, &de) {
		if rel, ok := de.Context[errors.CtxLine].(int); ok {
			de.Context[errors.CtxLine] = startLine + rel - 1
			return de
		}
	}
	return errors.AddContext(err, errors.CtxLine, startLine)
}

// bracketDelta counts open/close brackets on a line, honoring quotes and
// comments so punctuation inside strings never affects segmentation.
func (p *Parser) bracketDelta(line string) (opens, closes int) {
	tokens, _ := p.tz.tokenize(line)
	for _, tok := range tokens {
		switch tok.kind {
		case tokenOpen:
			opens++
		case tokenClose:
			closes++
		}
	}
	return opens, closes
}

// merge appends another result, offsetting its line numbers so warnings
// and atom locations stay relative to the whole corpus.
func (r *Result) merge(other Result, startLine int) {
	offset := startLine - 1
	for i := range other.Atoms {
		offsetAtom(&other.Atoms[i], offset)
	}
	for i := range other.Warnings {
		other.Warnings[i].Line += offset
	}
	r.Atoms = append(r.Atoms, other.Atoms...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

func offsetAtom(a *Atom, offset int) {
	if a.Location.Line > 0 {
		a.Location.Line += offset
	}
	for i := range a.Children {
		offsetAtom(&a.Children[i], offset)
	}
}
