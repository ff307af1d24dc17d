package sandbox

import (
	"fmt"
	"strconv"
)

// Expression nodes of the chart-plan grammar.
type (
	identExpr struct{ name string }
	stringLit struct{ val string }
	numberLit struct{ val float64 }
	noneLit   struct{}
	callExpr  struct {
		recv expr   // nil for a top-level function call
		name string // function or method name
		args []callArg
	}
)

type callArg struct {
	name  string // empty for positional arguments
	value expr
}

type expr interface{}

// stmt is one statement: "target = expression", or a bare call like raise(...).
type stmt struct {
	target string // empty for an expression statement
	value  expr
	line   int
}

type parser struct {
	toks []token
	pos  int
}

// parse turns a token stream into a statement list.
func parse(toks []token) ([]stmt, error) {
	p := &parser{toks: toks}
	var stmts []stmt
	for {
		p.skipNewlines()
		if p.peek().kind == tokEOF {
			return stmts, nil
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if k := p.peek().kind; k != tokNewline && k != tokEOF {
			return nil, fmt.Errorf("line %d: unexpected token %q after statement", p.peek().line, p.peek().text)
		}
	}
}

func (p *parser) parseStmt() (stmt, error) {
	tok := p.peek()
	if tok.kind == tokIdent && p.peekAt(1).kind == tokAssign {
		p.next() // ident
		p.next() // =
		value, err := p.parseExpr()
		if err != nil {
			return stmt{}, err
		}
		return stmt{target: tok.text, value: value, line: tok.line}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return stmt{}, err
	}
	return stmt{value: value, line: tok.line}, nil
}

// parseExpr parses a primary expression followed by a chain of method calls.
func (p *parser) parseExpr() (expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokDot {
		p.next()
		name := p.next()
		if name.kind != tokIdent {
			return nil, fmt.Errorf("line %d: expected method name after '.'", name.line)
		}
		if p.peek().kind != tokLParen {
			return nil, fmt.Errorf("line %d: method %q must be called", name.line, name.text)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		e = &callExpr{recv: e, name: name.text, args: args}
	}
	return e, nil
}

func (p *parser) parsePrimary() (expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokString:
		return &stringLit{val: tok.text}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad number %q", tok.line, tok.text)
		}
		return &numberLit{val: n}, nil
	case tokIdent:
		switch tok.text {
		case "None", "none", "null", "nil":
			return &noneLit{}, nil
		}
		if p.peek().kind == tokLParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &callExpr{name: tok.text, args: args}, nil
		}
		return &identExpr{name: tok.text}, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected token %q", tok.line, tok.text)
	}
}

func (p *parser) parseArgs() ([]callArg, error) {
	open := p.next() // (
	if open.kind != tokLParen {
		return nil, fmt.Errorf("line %d: expected '('", open.line)
	}
	var args []callArg
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		var arg callArg
		if p.peek().kind == tokIdent && p.peekAt(1).kind == tokAssign {
			arg.name = p.next().text
			p.next() // =
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arg.value = value
		args = append(args, arg)
		switch p.peek().kind {
		case tokComma:
			p.next()
		case tokRParen:
			p.next()
			return args, nil
		default:
			return nil, fmt.Errorf("line %d: expected ',' or ')' in argument list", p.peek().line)
		}
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.next()
	}
}
