package tally

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeContainsPerDialect(t *testing.T) {
	cases := []struct {
		dialect Dialect
		want    string
	}{
		{StringContains, `$$StringContains:$Name:"acme"`},
		{InfixContains, `$Name CONTAINS "acme"`},
		{InStrPositive, `$$InStr:$Name:'acme' > 0`},
	}
	for _, tc := range cases {
		got := tc.dialect.EncodeContains("$Name", "acme")
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.dialect.Name(), got, tc.want)
		}
	}
}

func TestEncodeContainsEscapesDelimiter(t *testing.T) {
	got := StringContains.EncodeContains("$Name", `say "hi" twice`)
	want := `$$StringContains:$Name:"say ""hi"" twice"`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	got = InfixContains.EncodeContains("$Name", `a"b`)
	want = `$Name CONTAINS "a""b"`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	got = InStrPositive.EncodeContains("$Name", "O'Brien")
	want = `$$InStr:$Name:'O''Brien' > 0`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// naiveScanQuoted walks a formula expression the way a quote-delimited
// tokenizer would, honoring the doubling convention, and returns the
// literal it recovers.
func naiveScanQuoted(expr string, delim byte) (string, bool) {
	start := strings.IndexByte(expr, delim)
	if start < 0 {
		return "", false
	}
	var out strings.Builder
	i := start + 1
	for i < len(expr) {
		if expr[i] != delim {
			out.WriteByte(expr[i])
			i++
			continue
		}
		if i+1 < len(expr) && expr[i+1] == delim {
			out.WriteByte(delim)
			i += 2
			continue
		}
		return out.String(), true
	}
	return "", false
}

func TestQuotedLiteralNeverTerminatesEarly(t *testing.T) {
	literals := []string{
		`plain`,
		`one " quote`,
		`"leading`,
		`trailing"`,
		`""`,
		`a""b`,
	}
	for _, lit := range literals {
		for _, d := range []Dialect{StringContains, InfixContains} {
			expr := d.EncodeContains("$Name", lit)
			got, ok := naiveScanQuoted(expr, '"')
			if !ok {
				t.Fatalf("%s: literal %q: unterminated quote in %q", d.Name(), lit, expr)
			}
			if got != lit {
				t.Fatalf("%s: literal %q recovered as %q from %q", d.Name(), lit, got, expr)
			}
		}
	}
	for _, lit := range []string{`O'Brien`, `''`, `it's 'quoted'`} {
		expr := InStrPositive.EncodeContains("$Name", lit)
		got, ok := naiveScanQuoted(expr, '\'')
		if !ok {
			t.Fatalf("instr: literal %q: unterminated quote in %q", lit, expr)
		}
		if got != lit {
			t.Fatalf("instr: literal %q recovered as %q from %q", lit, got, expr)
		}
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"":               StringContains,
		"stringcontains": StringContains,
		"StringContains": StringContains,
		"infix":          InfixContains,
		"instr":          InStrPositive,
		" instr ":        InStrPositive,
	}
	for name, want := range cases {
		got, err := ParseDialect(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got.Name() != want.Name() {
			t.Fatalf("parse %q: got %s want %s", name, got.Name(), want.Name())
		}
	}
	if _, err := ParseDialect("bogus"); !errors.Is(err, ErrUnknownDialect) {
		t.Fatalf("expected ErrUnknownDialect, got %v", err)
	}
}

func TestEncodeClause(t *testing.T) {
	expr, err := EncodeClause(InStrPositive, FilterClause{
		Name:      "SearchFilter",
		FieldPath: "$Name",
		Operator:  OpContains,
		Literal:   "O'Brien",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if expr != `$$InStr:$Name:'O''Brien' > 0` {
		t.Fatalf("unexpected expression %q", expr)
	}

	if _, err := EncodeClause(StringContains, FilterClause{Operator: "between"}); !errors.Is(err, ErrUnsupportedOperator) {
		t.Fatalf("expected ErrUnsupportedOperator, got %v", err)
	}
}
