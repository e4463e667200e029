package datev

import (
	"fmt"
	"strings"
	"unicode"
)

// The force-value language is a small, side-effect free replacement for the
// script hooks the template lines used to allow. A program is a sequence of
// statements of the form
//
//	value = <expr> [if <cond>]
//
// separated by ';' or newlines. Expressions concatenate string literals,
// context references (e.g. move.ref, partner.name, value) and the helper
// calls upper(...), lower(...) and trim(...). Conditions compare two terms
// with == or !=, or test a single term for being non-empty. Statements run in
// order; each satisfied statement reassigns value.

// ForceProgram is a parsed force-value program.
type ForceProgram struct {
	stmts []forceStmt
}

type forceStmt struct {
	expr forceExpr
	cond *forceCond
}

// forceExpr is a concatenation of terms.
type forceExpr struct {
	terms []forceTerm
}

type termKind int

const (
	termLiteral termKind = iota
	termRef
	termCall
)

type forceTerm struct {
	kind    termKind
	literal string
	ref     string
	fn      string
	arg     *forceExpr
}

type forceCond struct {
	lhs forceTerm
	op  string // "==", "!=", or "" for a truthiness test
	rhs forceTerm
}

// ParseForceValue parses a force-value program. Templates are validated with
// this at save time so broken programs never reach an export run.
func ParseForceValue(src string) (*ForceProgram, error) {
	toks, err := lexForceValue(src)
	if err != nil {
		return nil, err
	}
	p := &forceParser{toks: toks}
	prog := &ForceProgram{}
	for !p.eof() {
		if p.accept(";") {
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.stmts = append(prog.stmts, stmt)
	}
	if len(prog.stmts) == 0 {
		return nil, fmt.Errorf("force value: empty program")
	}
	return prog, nil
}

// Eval runs the program against the given context and returns the resulting
// value. The current column value is available as "value" in the context.
func (p *ForceProgram) Eval(ctx map[string]string) string {
	value := ctx["value"]
	for _, stmt := range p.stmts {
		if stmt.cond != nil && !stmt.cond.eval(ctx, value) {
			continue
		}
		value = stmt.expr.eval(ctx, value)
	}
	return value
}

func (e forceExpr) eval(ctx map[string]string, value string) string {
	var b strings.Builder
	for _, t := range e.terms {
		b.WriteString(t.eval(ctx, value))
	}
	return b.String()
}

func (t forceTerm) eval(ctx map[string]string, value string) string {
	switch t.kind {
	case termLiteral:
		return t.literal
	case termRef:
		if t.ref == "value" {
			return value
		}
		return ctx[t.ref]
	case termCall:
		arg := t.arg.eval(ctx, value)
		switch t.fn {
		case "upper":
			return strings.ToUpper(arg)
		case "lower":
			return strings.ToLower(arg)
		case "trim":
			return strings.TrimSpace(arg)
		}
	}
	return ""
}

func (c forceCond) eval(ctx map[string]string, value string) bool {
	lhs := c.lhs.eval(ctx, value)
	switch c.op {
	case "==":
		return lhs == c.rhs.eval(ctx, value)
	case "!=":
		return lhs != c.rhs.eval(ctx, value)
	}
	return lhs != ""
}

// --- lexer ---

type forceToken struct {
	kind string // "ident", "string", or the operator itself
	text string
}

func lexForceValue(src string) ([]forceToken, error) {
	var toks []forceToken
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n' || r == ';':
			toks = append(toks, forceToken{kind: ";"})
			i++
		case unicode.IsSpace(r):
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("force value: unterminated string literal")
			}
			toks = append(toks, forceToken{kind: "string", text: string(runes[i+1 : j])})
			i = j + 1
		case r == '=' && i+1 < len(runes) && runes[i+1] == '=':
			toks = append(toks, forceToken{kind: "=="})
			i += 2
		case r == '!' && i+1 < len(runes) && runes[i+1] == '=':
			toks = append(toks, forceToken{kind: "!="})
			i += 2
		case r == '=' || r == '+' || r == '(' || r == ')':
			toks = append(toks, forceToken{kind: string(r)})
			i++
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '.') {
				j++
			}
			toks = append(toks, forceToken{kind: "ident", text: string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("force value: unexpected character %q", r)
		}
	}
	return toks, nil
}

// --- parser ---

type forceParser struct {
	toks []forceToken
	pos  int
}

func (p *forceParser) eof() bool { return p.pos >= len(p.toks) }

func (p *forceParser) peek() forceToken {
	if p.eof() {
		return forceToken{}
	}
	return p.toks[p.pos]
}

func (p *forceParser) accept(kind string) bool {
	if !p.eof() && p.toks[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *forceParser) parseStmt() (forceStmt, error) {
	tok := p.peek()
	if tok.kind != "ident" || tok.text != "value" {
		return forceStmt{}, fmt.Errorf("force value: statement must assign to value")
	}
	p.pos++
	if !p.accept("=") {
		return forceStmt{}, fmt.Errorf("force value: expected '=' after value")
	}
	expr, err := p.parseExpr()
	if err != nil {
		return forceStmt{}, err
	}
	stmt := forceStmt{expr: expr}
	if tok := p.peek(); tok.kind == "ident" && tok.text == "if" {
		p.pos++
		cond, err := p.parseCond()
		if err != nil {
			return forceStmt{}, err
		}
		stmt.cond = &cond
	}
	if !p.eof() && !p.accept(";") {
		return forceStmt{}, fmt.Errorf("force value: unexpected token after statement")
	}
	return stmt, nil
}

func (p *forceParser) parseExpr() (forceExpr, error) {
	var expr forceExpr
	for {
		term, err := p.parseTerm()
		if err != nil {
			return forceExpr{}, err
		}
		expr.terms = append(expr.terms, term)
		if !p.accept("+") {
			return expr, nil
		}
	}
}

func (p *forceParser) parseTerm() (forceTerm, error) {
	tok := p.peek()
	switch tok.kind {
	case "string":
		p.pos++
		return forceTerm{kind: termLiteral, literal: tok.text}, nil
	case "ident":
		p.pos++
		switch tok.text {
		case "upper", "lower", "trim":
			if !p.accept("(") {
				return forceTerm{}, fmt.Errorf("force value: expected '(' after %s", tok.text)
			}
			arg, err := p.parseExpr()
			if err != nil {
				return forceTerm{}, err
			}
			if !p.accept(")") {
				return forceTerm{}, fmt.Errorf("force value: missing ')' in %s call", tok.text)
			}
			return forceTerm{kind: termCall, fn: tok.text, arg: &arg}, nil
		case "if":
			return forceTerm{}, fmt.Errorf("force value: unexpected 'if'")
		}
		return forceTerm{kind: termRef, ref: tok.text}, nil
	}
	return forceTerm{}, fmt.Errorf("force value: expected literal, reference or call")
}

func (p *forceParser) parseCond() (forceCond, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return forceCond{}, err
	}
	cond := forceCond{lhs: lhs}
	if tok := p.peek(); tok.kind == "==" || tok.kind == "!=" {
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return forceCond{}, err
		}
		cond.op = tok.kind
		cond.rhs = rhs
	}
	return cond, nil
}
