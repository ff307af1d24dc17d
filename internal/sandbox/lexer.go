// Package sandbox runs generated chart-plan scripts against a restricted
// scope containing only the input dataset. The script language covers just
// aggregation and chart-construction verbs; anything else is a caught error,
// never an escaping failure.
package sandbox

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline // statement separator: newline or ';'
	tokIdent
	tokString
	tokNumber
	tokAssign // =
	tokDot    // .
	tokComma  // ,
	tokLParen // (
	tokRParen // )
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lex splits a script into tokens. Comments run from '#' to end of line.
// Strings take single or double quotes, matching what models tend to emit.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n' || r == ';':
			toks = append(toks, token{kind: tokNewline, line: line})
			if r == '\n' {
				line++
			}
			i++
		case r == ' ' || r == '\t' || r == '\r':
			i++
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '=':
			toks = append(toks, token{kind: tokAssign, text: "=", line: line})
			i++
		case r == '.':
			toks = append(toks, token{kind: tokDot, text: ".", line: line})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", line: line})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", line: line})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", line: line})
			i++
		case r == '\'' || r == '"':
			quote := r
			i++
			var sb strings.Builder
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '\\' && i+1 < len(runes) {
					sb.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if c == quote {
					closed = true
					i++
					break
				}
				if c == '\n' {
					break
				}
				sb.WriteRune(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), line: line})
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(runes[start:i]), line: line})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), line: line})
		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", line, string(r))
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}
