package dialect

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// QuoteLiteral wraps s in single quotes, doubling embedded quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func ptr(s string) *string {
	return &s
}

// normalizeScalarDefault covers the engines without array or enum literals:
// booleans become 1/0, strings are quoted, everything else is quoted JSON.
func normalizeScalarDefault(spec DefaultSpec) *string {
	switch v := spec.Default.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return ptr("1")
		}
		return ptr("0")
	case string:
		return ptr(QuoteLiteral(v))
	case fmt.Stringer:
		return ptr(QuoteLiteral(v.String()))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ptr(QuoteLiteral(fmt.Sprint(v)))
		}
		return ptr(QuoteLiteral(string(b)))
	}
}

// comparableText reduces a default to the literal or call it denotes so that the
// declared and the reported text can be compared.
func comparableText(def string) string {
	s := strings.TrimSpace(def)
	s = stripWrappingParens(s)
	s = stripCast(s)
	s = strings.TrimPrefix(s, "public.")
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

// stripWrappingParens removes parentheses enclosing the whole expression, as SQL Server
// and MySQL report them: ((0)), ('x'), (uuid()).
func stripWrappingParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && closingParen(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// closingParen returns the index of the parenthesis closing s[0].
func closingParen(s string) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripCast drops a trailing Postgres ::type cast outside quotes.
func stripCast(s string) string {
	inQuote := false
	for i := 0; i+1 < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case !inQuote && s[i] == ':' && s[i+1] == ':':
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}
