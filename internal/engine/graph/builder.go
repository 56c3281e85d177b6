package graph

import (
	"fmt"
	"sort"

	"github.com/gobwas/glob"

	"mettagraph/internal/core/errors"
	"mettagraph/internal/engine/parser"
)

type Mode string

const (
	ModeUndirected Mode = "undirected"
	ModeDirected   Mode = "directed"
)

// Rules configure how a relation connects its arguments. The default mode
// applies to every predicate not matched by an override; override keys are
// glob patterns over the predicate label.
type Rules struct {
	Default    Mode
	Predicates map[string]Mode
}

func DefaultRules() Rules {
	return Rules{Default: ModeUndirected}
}

type predicateRule struct {
	raw     string
	pattern glob.Glob
	mode    Mode
}

// Builder walks parsed atoms and constructs the Graph. A Builder is pure:
// the same atom sequence always yields the same node and edge sets.
type Builder struct {
	defaultMode Mode
	overrides   []predicateRule
}

func NewBuilder(rules Rules) (*Builder, error) {
	if rules.Default == "" {
		rules.Default = ModeUndirected
	}
	if err := validateMode(rules.Default); err != nil {
		return nil, err
	}

	// Sorted iteration keeps override precedence deterministic.
	keys := make([]string, 0, len(rules.Predicates))
	for k := range rules.Predicates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	overrides := make([]predicateRule, 0, len(keys))
	for _, key := range keys {
		mode := rules.Predicates[key]
		if err := validateMode(mode); err != nil {
			return nil, errors.AddContext(err, "predicate", key)
		}
		pattern, err := glob.Compile(key)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig,
				fmt.Sprintf("invalid predicate pattern %q", key))
		}
		overrides = append(overrides, predicateRule{raw: key, pattern: pattern, mode: mode})
	}

	return &Builder{defaultMode: rules.Default, overrides: overrides}, nil
}

func validateMode(mode Mode) error {
	switch mode {
	case ModeUndirected, ModeDirected:
		return nil
	default:
		return errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("unknown connection mode %q (want directed or undirected)", mode))
	}
}

func (b *Builder) modeFor(predicate string) Mode {
	for _, rule := range b.overrides {
		if rule.pattern.Match(predicate) {
			return rule.mode
		}
	}
	return b.defaultMode
}

// Build constructs a fresh Graph from top-level atoms. Bare leaf atoms
// become zero-edge nodes; compounds connect their arguments according to
// the predicate's connection rule.
func (b *Builder) Build(atoms []parser.Atom) *Graph {
	g := New()
	for _, atom := range atoms {
		if atom.IsLeaf() {
			b.leafNode(g, atom)
			continue
		}
		b.processCompound(g, atom, "")
	}
	return g
}

func (b *Builder) leafNode(g *Graph, atom parser.Atom) Node {
	role := RoleConcept
	if atom.Kind == parser.KindString || atom.Kind == parser.KindNumber {
		role = RoleLiteral
	}
	return g.EnsureNode(atom.Value, atom.Value, role)
}

// processCompound extracts nodes and edges from one relation expression.
// Position 0 is the relation label when it is a leaf; the remaining
// positions are arguments. Nested compound arguments are represented by a
// node for their head symbol and recursed into, with that node joining the
// nested relation's own participants so sub-expressions stay connected.
func (b *Builder) processCompound(g *Graph, expr parser.Atom, rep string) {
	if len(expr.Children) == 0 {
		return
	}

	predicate := ""
	args := expr.Children
	if args[0].IsLeaf() {
		predicate = args[0].Value
		args = args[1:]
	}

	participants := make([]string, 0, len(args)+1)
	if rep != "" {
		// The node standing for this nested expression takes the first
		// slot so directed rules point from it to the inner arguments.
		participants = append(participants, rep)
	}

	for _, arg := range args {
		if arg.IsLeaf() {
			node := b.leafNode(g, arg)
			participants = append(participants, node.ID)
			continue
		}
		nested := b.representative(g, arg)
		participants = append(participants, nested)
		b.processCompound(g, arg, nested)
	}

	b.connect(g, predicate, participants)
}

// representative creates the node standing in for a nested expression: its
// head symbol when the head is a leaf, otherwise the rendered expression.
func (b *Builder) representative(g *Graph, expr parser.Atom) string {
	id := expr.String()
	if len(expr.Children) > 0 && expr.Children[0].IsLeaf() {
		id = expr.Children[0].Value
	}
	g.EnsureNode(id, id, RoleExpression)
	return id
}

func (b *Builder) connect(g *Graph, predicate string, participants []string) {
	if len(participants) < 2 {
		return
	}
	switch b.modeFor(predicate) {
	case ModeDirected:
		source := participants[0]
		for _, target := range participants[1:] {
			_ = g.AddEdge(source, target, predicate) // endpoints ensured above
		}
	default:
		for i := 0; i < len(participants); i++ {
			for j := i + 1; j < len(participants); j++ {
				_ = g.AddEdge(participants[i], participants[j], predicate)
			}
		}
	}
}
