package parser

import "testing"

func FuzzParseAuto(f *testing.F) {
	f.Add("(likes Alice Bob) (likes Bob Carol) Dave")
	f.Add("likes Alice Bob\nknows Bob Carol")
	f.Add("(foo bar")
	f.Add(")))((( [a b) \"unterminated")
	f.Add("; just a comment\n")
	f.Fuzz(func(t *testing.T, data string) {
		p, err := New(DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		// Lenient parsing must never panic or error, whatever the input.
		res, err := p.Parse(data)
		if err != nil {
			t.Fatalf("lenient parse returned error: %v", err)
		}
		for _, atom := range res.Atoms {
			_ = atom.String()
		}
	})
}

func FuzzParseStrictSExpr(f *testing.F) {
	f.Add("(a (b c) d)")
	f.Add("(foo bar")
	f.Fuzz(func(t *testing.T, data string) {
		p, err := New(Options{Dialect: DialectSExpr, Strict: true, BracketPairs: []string{"()", "[]"}})
		if err != nil {
			t.Fatal(err)
		}
		// Strict mode may reject input but must never panic.
		_, _ = p.Parse(data)
	})
}
