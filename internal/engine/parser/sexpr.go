package parser

import (
	"fmt"

	"mettagraph/internal/core/errors"
)

// parseSExpr consumes a token stream with an explicit stack of in-progress
// compounds. An open bracket pushes a new compound, the matching close pops
// it into its parent (or the top level). Recovery is per top-level
// expression: a structural failure drops the whole expression under
// construction and parsing resumes at the next token. In strict mode the
// first structural failure aborts the parse instead.
func (p *Parser) parseSExpr(tokens []token) (Result, error) {
	var res Result

	var stack []Atom   // compounds under construction
	var closers []rune // expected closing bracket per stack frame

	fail := func(msg string, tok token) error {
		if p.opts.Strict {
			return errors.AddContext(
				errors.New(errors.CodeStructural, msg),
				errors.CtxLine, tok.line)
		}
		res.Warnings = append(res.Warnings, Warning{
			Message: msg + ", expression skipped",
			Line:    tok.line,
			Snippet: snippetFor(stack, tok),
		})
		stack = stack[:0]
		closers = closers[:0]
		return nil
	}

	for _, tok := range tokens {
		switch tok.kind {
		case tokenOpen:
			stack = append(stack, Atom{
				Kind:     KindCompound,
				Location: Location{Line: tok.line, Column: tok.col},
			})
			closers = append(closers, p.closerFor([]rune(tok.text)[0]))

		case tokenClose:
			if len(stack) == 0 {
				if err := fail(fmt.Sprintf("unmatched closing bracket %q", tok.text), tok); err != nil {
					return Result{}, err
				}
				continue
			}
			if []rune(tok.text)[0] != closers[len(closers)-1] {
				if err := fail(fmt.Sprintf("mismatched closing bracket %q, expected %q",
					tok.text, string(closers[len(closers)-1])), tok); err != nil {
					return Result{}, err
				}
				continue
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closers = closers[:len(closers)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.Children = append(parent.Children, done)
			} else {
				res.Atoms = append(res.Atoms, done)
			}

		case tokenAtom:
			leaf := leafAtom(tok.text, tok.quoted, Location{Line: tok.line, Column: tok.col})
			if len(stack) > 0 {
				cur := &stack[len(stack)-1]
				cur.Children = append(cur.Children, leaf)
			} else {
				res.Atoms = append(res.Atoms, leaf)
			}
		}
	}

	if len(stack) > 0 {
		open := stack[0]
		if p.opts.Strict {
			return Result{}, errors.AddContext(
				errors.New(errors.CodeStructural, "unterminated expression at end of input"),
				errors.CtxLine, open.Location.Line)
		}
		res.Warnings = append(res.Warnings, Warning{
			Message: "unterminated expression at end of input, expression skipped",
			Line:    open.Location.Line,
			Snippet: open.String(),
		})
	}

	return res, nil
}

func (p *Parser) closerFor(open rune) rune {
	return p.tz.openers[open]
}

func snippetFor(stack []Atom, tok token) string {
	if len(stack) > 0 {
		return stack[0].String()
	}
	return tok.text
}
