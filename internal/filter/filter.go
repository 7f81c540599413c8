// Package filter parses and evaluates the boolean row filters used for
// question base filters and banner segment conditions, e.g.
//
//	hGender == 1 and vboost == 1
//	S6r1 == 1 or S6r2 == 1
//
// An expression is parsed once into a small AST and evaluated per row.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
)

func (o Op) String() string {
	if o == OpNe {
		return "!="
	}
	return "=="
}

// Expr is a parsed filter expression.
type Expr interface {
	// Columns appends the referenced column names to dst.
	Columns(dst []string) []string
	String() string
	eval(t *dataset.Table, row int, cols map[string]int) bool
}

// Compare tests a column against a literal.
type Compare struct {
	Column  string
	Op      Op
	Literal dataset.Value
}

// And is true when both sides are true.
type And struct{ L, R Expr }

// Or is true when either side is true.
type Or struct{ L, R Expr }

func (c *Compare) Columns(dst []string) []string { return append(dst, c.Column) }
func (a *And) Columns(dst []string) []string     { return a.R.Columns(a.L.Columns(dst)) }
func (o *Or) Columns(dst []string) []string      { return o.R.Columns(o.L.Columns(dst)) }

func (c *Compare) String() string {
	lit := c.Literal.String()
	if c.Literal.Kind == dataset.Text {
		lit = strconv.Quote(lit)
	}
	return fmt.Sprintf("%s %s %s", c.Column, c.Op, lit)
}
func (a *And) String() string { return "(" + a.L.String() + " and " + a.R.String() + ")" }
func (o *Or) String() string  { return "(" + o.L.String() + " or " + o.R.String() + ")" }

func (c *Compare) eval(t *dataset.Table, row int, cols map[string]int) bool {
	eq := t.Cell(row, cols[c.Column]).Equal(c.Literal)
	if c.Op == OpNe {
		return !eq
	}
	return eq
}

func (a *And) eval(t *dataset.Table, row int, cols map[string]int) bool {
	return a.L.eval(t, row, cols) && a.R.eval(t, row, cols)
}

func (o *Or) eval(t *dataset.Table, row int, cols map[string]int) bool {
	return o.L.eval(t, row, cols) || o.R.eval(t, row, cols)
}

// Parse compiles src. A blank expression returns a nil Expr, meaning no restriction.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	toks, err := lex(src)
	if err != nil {
		return nil, withSource(err, src)
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, withSource(err, src)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, withSource(&SyntaxError{Pos: t.pos, Msg: "unexpected " + t.kind.String()}, src)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for fixed expressions.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Apply returns the rows of view that satisfy e. A nil e returns view unchanged.
// Every referenced column must exist in t.
func Apply(t *dataset.Table, view dataset.View, e Expr) (dataset.View, error) {
	if e == nil {
		return view, nil
	}
	cols := make(map[string]int)
	for _, name := range e.Columns(nil) {
		idx, ok := t.ColumnIndex(name)
		if !ok {
			return nil, newUnknownColumnError(name, t.Columns())
		}
		cols[name] = idx
	}
	out := make(dataset.View, 0, len(view))
	for _, r := range view {
		if e.eval(t, r, cols) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Chain applies each expression in order; the result is their conjunction.
func Chain(t *dataset.Table, view dataset.View, exprs ...Expr) (dataset.View, error) {
	var err error
	for _, e := range exprs {
		view, err = Apply(t, view, e)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// or := and { "or" and }
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{L: left, R: right}
	}
	return left, nil
}

// and := primary { "and" primary }
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &And{L: left, R: right}
	}
	return left, nil
}

// primary := "(" or ")" | comparison
func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	if t.kind == tokLParen {
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, &SyntaxError{Pos: c.pos, Msg: "expected ')' but found " + c.kind.String()}
		}
		return e, nil
	}
	return p.parseComparison()
}

// comparison := operand op operand, where exactly one operand is a column.
func (p *parser) parseComparison() (Expr, error) {
	left := p.next()
	opTok := p.next()
	var op Op
	switch opTok.kind {
	case tokEq:
		op = OpEq
	case tokNe:
		op = OpNe
	default:
		if left.kind != tokIdent {
			return nil, &SyntaxError{Pos: left.pos, Msg: "expected column name but found " + left.kind.String()}
		}
		return nil, &SyntaxError{Pos: opTok.pos, Msg: "expected '==' or '!=' but found " + opTok.kind.String()}
	}
	right := p.next()
	col, lit := left, right
	if left.kind != tokIdent && right.kind == tokIdent {
		col, lit = right, left
	}
	if col.kind != tokIdent {
		return nil, &SyntaxError{Pos: left.pos, Msg: "comparison needs a column name"}
	}
	v, err := literal(lit)
	if err != nil {
		return nil, err
	}
	return &Compare{Column: col.text, Op: op, Literal: v}, nil
}

func literal(t token) (dataset.Value, error) {
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return dataset.Null, &SyntaxError{Pos: t.pos, Msg: "invalid number " + t.text}
		}
		return dataset.Num(f), nil
	case tokString:
		return dataset.Str(t.text), nil
	case tokIdent:
		return dataset.Null, &SyntaxError{Pos: t.pos, Msg: "cannot compare two columns"}
	}
	return dataset.Null, &SyntaxError{Pos: t.pos, Msg: "expected a number or string but found " + t.kind.String()}
}
