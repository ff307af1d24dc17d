package sandbox

import (
	"testing"
)

func TestLex_TokenStream(t *testing.T) {
	toks, err := lex(`plot_data = df.head(3); fig = None # trailing comment`)
	if err != nil {
		t.Fatalf("lex() error = %v", err)
	}
	kinds := []tokenKind{
		tokIdent, tokAssign, tokIdent, tokDot, tokIdent, tokLParen, tokNumber, tokRParen,
		tokNewline, tokIdent, tokAssign, tokIdent, tokEOF,
	}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].kind != k {
			t.Errorf("token %d kind = %v, want %v (%q)", i, toks[i].kind, k, toks[i].text)
		}
	}
}

func TestLex_Strings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single quoted", `x = 'bar'`, "bar"},
		{"double quoted", `x = "bar"`, "bar"},
		{"escaped quote", `x = 'it\'s'`, "it's"},
		{"unicode", `x = 'sự cố'`, "sự cố"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lex(tt.in)
			if err != nil {
				t.Fatalf("lex() error = %v", err)
			}
			if toks[2].kind != tokString || toks[2].text != tt.want {
				t.Errorf("string token = %+v, want %q", toks[2], tt.want)
			}
		})
	}
	if _, err := lex(`x = 'open`); err == nil {
		t.Error("expected error for unterminated string")
	}
	if _, err := lex("x = 'a\nb'"); err == nil {
		t.Error("expected error for newline inside string")
	}
}

func TestLex_Numbers(t *testing.T) {
	toks, err := lex(`x = -2.5`)
	if err != nil {
		t.Fatalf("lex() error = %v", err)
	}
	if toks[2].kind != tokNumber || toks[2].text != "-2.5" {
		t.Errorf("number token = %+v", toks[2])
	}
}

func TestParse_MethodChainAndKwargs(t *testing.T) {
	toks, err := lex(`fig = bar(df.groupby('Division').count(), x='Division', y='count')`)
	if err != nil {
		t.Fatalf("lex() error = %v", err)
	}
	stmts, err := parse(toks)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if len(stmts) != 1 || stmts[0].target != "fig" {
		t.Fatalf("unexpected statements: %+v", stmts)
	}
	call, ok := stmts[0].value.(*callExpr)
	if !ok || call.name != "bar" || call.recv != nil {
		t.Fatalf("value is not a bar() call: %+v", stmts[0].value)
	}
	if len(call.args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.args))
	}
	if call.args[0].name != "" {
		t.Errorf("first argument should be positional, got name %q", call.args[0].name)
	}
	chain, ok := call.args[0].value.(*callExpr)
	if !ok || chain.name != "count" {
		t.Fatalf("positional arg is not the method chain: %+v", call.args[0].value)
	}
	inner, ok := chain.recv.(*callExpr)
	if !ok || inner.name != "groupby" {
		t.Errorf("chain receiver is not groupby: %+v", chain.recv)
	}
	if call.args[1].name != "x" || call.args[2].name != "y" {
		t.Errorf("kwargs not parsed: %+v", call.args[1:])
	}
}

func TestParse_BareCallStatement(t *testing.T) {
	toks, _ := lex(`raise('nope')`)
	stmts, err := parse(toks)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if stmts[0].target != "" {
		t.Errorf("bare call should have no target, got %q", stmts[0].target)
	}
}

func TestParse_NoneVariants(t *testing.T) {
	for _, lit := range []string{"None", "none", "null", "nil"} {
		toks, _ := lex("fig = " + lit)
		stmts, err := parse(toks)
		if err != nil {
			t.Fatalf("parse(%s) error = %v", lit, err)
		}
		if _, ok := stmts[0].value.(*noneLit); !ok {
			t.Errorf("%s did not parse as a none literal: %+v", lit, stmts[0].value)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"double assign", `x = = 1`},
		{"dangling dot", `x = df.`},
		{"uncalled method", `x = df.head`},
		{"unclosed args", `x = bar(df`},
		{"two expressions on one line", `x = df df`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lex(tt.in)
			if err != nil {
				return // a lex error is an acceptable rejection too
			}
			if _, err := parse(toks); err == nil {
				t.Errorf("parse(%q) should fail", tt.in)
			}
		})
	}
}
