package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUnterminated = errors.New("unterminated string")

// parseLiteral decodes a list-of-dicts literal as written by a dataframe
// export, e.g. [{'id': 7, 'category': 'Consulting'}]. Single and double
// quoted strings with backslash escapes (including \xNN and \uNNNN),
// None/True/False, tuples and trailing commas are accepted. Numbers may be
// written as .5 or 5.; hex, octal and underscore-separated numbers are not.
func parseLiteral(s string) (any, error) {
	js, err := literalToJSON(s)
	if err != nil {
		return nil, fmt.Errorf("parse literal: %w", err)
	}
	var v any
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		return nil, fmt.Errorf("parse literal: %w", err)
	}
	return v, nil
}

func literalToJSON(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			str, n, err := readQuoted(s[i:])
			if err != nil {
				return "", err
			}
			enc, _ := json.Marshal(str)
			b.Write(enc)
			i += n
		case c == '(':
			b.WriteByte('[')
			i++
		case c == ')':
			b.WriteByte(']')
			i++
		case c == ',':
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}' || s[j] == ')') {
				i++
				continue
			}
			b.WriteByte(',')
			i++
		case isDigit(c) || c == '-' || c == '+' || c == '.':
			j := i + 1
			for j < len(s) && (isDigit(s[j]) || strings.IndexByte(".eE+-", s[j]) >= 0) {
				j++
			}
			f, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return "", fmt.Errorf("bad number %q at offset %d", s[i:j], i)
			}
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			i = j
		case isIdentStart(c):
			j := i
			for j < len(s) && (isIdentStart(s[j]) || isDigit(s[j])) {
				j++
			}
			switch word := s[i:j]; word {
			case "None", "nan", "NaN":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				return "", fmt.Errorf("unexpected identifier %q at offset %d", word, i)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// readQuoted reads a quoted string starting at s[0] and returns its value and
// the number of bytes consumed.
func readQuoted(s string) (string, int, error) {
	q := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(s):
			if s[i+1] == '\'' || s[i+1] == '"' {
				b.WriteByte(s[i+1])
				i++
				continue
			}
			r, _, tail, err := strconv.UnquoteChar(s[i:], 0)
			if err != nil {
				// unknown escapes keep their backslash
				b.WriteByte('\\')
				continue
			}
			b.WriteRune(r)
			i = len(s) - len(tail) - 1
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errUnterminated
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
