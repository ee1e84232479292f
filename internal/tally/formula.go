package tally

import (
	"fmt"
	"strings"
)

// Operator is a filter predicate kind. The client only issues
// containment predicates; how "contains" is spelled is a Dialect
// concern, not an Operator one.
type Operator string

const OpContains Operator = "contains"

// FilterClause is one named predicate on a collection query.
type FilterClause struct {
	Name      string
	FieldPath string
	Operator  Operator
	Literal   string
}

// Dialect encodes a predicate in one of the remote system's accepted
// formula syntaxes. Which syntax a deployment accepts is discovered
// empirically and varies by version, so the dialect is a caller-selected
// strategy rather than a constant of the client.
type Dialect interface {
	Name() string
	EncodeContains(fieldPath, literal string) string
}

var (
	// StringContains spells containment via the $$StringContains builtin.
	StringContains Dialect = stringContainsDialect{}
	// InfixContains spells containment with the infix CONTAINS keyword.
	InfixContains Dialect = infixDialect{}
	// InStrPositive spells containment as a substring index compared
	// against zero.
	InStrPositive Dialect = inStrDialect{}
)

// DefaultDialect is used when no dialect is configured.
var DefaultDialect = StringContains

// ParseDialect resolves a configured dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "stringcontains":
		return StringContains, nil
	case "infix":
		return InfixContains, nil
	case "instr":
		return InStrPositive, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// EncodeClause renders one filter clause as a formula expression in
// the given dialect.
func EncodeClause(d Dialect, clause FilterClause) (string, error) {
	switch clause.Operator {
	case OpContains:
		return d.EncodeContains(clause.FieldPath, clause.Literal), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, clause.Operator)
}

type stringContainsDialect struct{}

func (stringContainsDialect) Name() string { return "stringcontains" }

func (stringContainsDialect) EncodeContains(fieldPath, literal string) string {
	return "$$StringContains:" + fieldPath + ":" + quoteDouble(literal)
}

type infixDialect struct{}

func (infixDialect) Name() string { return "infix" }

func (infixDialect) EncodeContains(fieldPath, literal string) string {
	return fieldPath + " CONTAINS " + quoteDouble(literal)
}

type inStrDialect struct{}

func (inStrDialect) Name() string { return "instr" }

func (inStrDialect) EncodeContains(fieldPath, literal string) string {
	return "$$InStr:" + fieldPath + ":" + quoteSingle(literal) + " > 0"
}

// quoteDouble wraps literal in double quotes, doubling any embedded
// double quote so the literal cannot terminate early.
func quoteDouble(literal string) string {
	return `"` + strings.ReplaceAll(literal, `"`, `""`) + `"`
}

// quoteSingle is the same convention for single-quoted literals.
func quoteSingle(literal string) string {
	return `'` + strings.ReplaceAll(literal, `'`, `''`) + `'`
}
