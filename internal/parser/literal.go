package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Assignments maps identifiers to the string literals bound to them by
// top-level assignments. A later assignment to the same name replaces the
// earlier one.
type Assignments map[string]string

// Lookup returns the value bound to key, or fallback when key is absent.
func (a Assignments) Lookup(key, fallback string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return fallback
}

// Has reports whether key was assigned.
func (a Assignments) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// ParseError reports content that is not a simple literal assignment.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// ParseAssignments reads Python-style module source and collects its
// top-level `identifier = "literal"` bindings. Nothing is evaluated: blank
// lines, comments, docstrings and import statements (including parenthesised
// and backslash-continued ones) are skipped, and any other statement is
// rejected with a *ParseError.
func ParseAssignments(data []byte) (Assignments, error) {
	out := make(Assignments)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	docQuote := ""
	importDepth := 0
	inImport := false

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if docQuote != "" {
			if idx := strings.Index(line, docQuote); idx >= 0 {
				docQuote = ""
				if !isTrailing(line[idx+3:]) {
					return nil, &ParseError{Line: lineNo, Reason: "unexpected content after docstring"}
				}
			}
			continue
		}

		// Continuation lines of an import statement.
		if inImport {
			importDepth += parenDelta(line)
			inImport = importDepth > 0 || strings.HasSuffix(line, `\`)
			continue
		}

		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(trimmed) != len(line) {
			return nil, &ParseError{Line: lineNo, Reason: "unexpected indentation"}
		}

		if isImport(line) {
			importDepth = parenDelta(line)
			inImport = importDepth > 0 || strings.HasSuffix(line, `\`)
			continue
		}

		if p := stringPrefixLen(line); line[p] == '"' || line[p] == '\'' {
			if q := line[p:min(p+3, len(line))]; q == `"""` || q == `'''` {
				rest := line[p+3:]
				idx := strings.Index(rest, q)
				if idx < 0 {
					docQuote = q
					continue
				}
				if !isTrailing(rest[idx+3:]) {
					return nil, &ParseError{Line: lineNo, Reason: "unexpected content after docstring"}
				}
				continue
			}

			// A bare string statement is a docstring.
			_, rest, err := scanString(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Reason: err.Error()}
			}
			if !isTrailing(rest) {
				return nil, &ParseError{Line: lineNo, Reason: "unexpected content after string"}
			}
			continue
		}

		name, value, err := parseAssignment(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: err.Error()}
		}
		out[name] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Reason: err.Error()}
	}

	if docQuote != "" {
		return nil, &ParseError{Line: lineNo, Reason: "unterminated docstring"}
	}
	if inImport {
		return nil, &ParseError{Line: lineNo, Reason: "unterminated import statement"}
	}

	return out, nil
}

// parseAssignment splits `name[: annotation] = "literal"` into its parts.
func parseAssignment(line string) (string, string, error) {
	name, rest := scanIdentifier(line)
	if name == "" {
		return "", "", fmt.Errorf("expected identifier, found %q", firstToken(line))
	}
	rest = strings.TrimLeft(rest, " \t")

	if strings.HasPrefix(rest, ":") {
		annotation, after := scanDotted(strings.TrimLeft(rest[1:], " \t"))
		if annotation == "" {
			return "", "", fmt.Errorf("invalid annotation for %q", name)
		}
		rest = strings.TrimLeft(after, " \t")
	}

	if !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "==") {
		return "", "", fmt.Errorf("expected '=' after %q", name)
	}
	rest = strings.TrimLeft(rest[1:], " \t")

	if rest == "" {
		return "", "", fmt.Errorf("missing value for %q", name)
	}

	value, rest, err := scanString(rest)
	if err != nil {
		return "", "", fmt.Errorf("value of %q: %w", name, err)
	}
	if !isTrailing(rest) {
		return "", "", fmt.Errorf("value of %q: only a single string literal is allowed", name)
	}

	return name, value, nil
}

// scanString reads one single-line string literal from the start of s and
// returns its decoded value and the remainder of s.
func scanString(s string) (string, string, error) {
	i := stringPrefixLen(s)
	raw := strings.ContainsAny(s[:i], "rR")
	if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
		return "", "", fmt.Errorf("expected string literal, found %q", firstToken(s))
	}

	quote := s[i]
	if strings.HasPrefix(s[i:], strings.Repeat(string(quote), 3)) {
		return "", "", fmt.Errorf("triple-quoted strings are not supported")
	}

	var sb strings.Builder
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == quote:
			return sb.String(), s[j+1:], nil
		case c == '\\' && j+1 < len(s):
			if raw {
				sb.WriteByte('\\')
				sb.WriteByte(s[j+1])
				j++
				continue
			}
			decoded, n, err := decodeEscape(s[j+1:])
			if err != nil {
				return "", "", err
			}
			sb.WriteString(decoded)
			j += n
		default:
			sb.WriteByte(c)
		}
	}

	return "", "", fmt.Errorf("unterminated string literal")
}

// stringPrefixLen returns the length of the u, r, b, rb or br prefix of a
// string literal at the start of s. It is 0 when s does not start with a
// prefix followed by a quote.
func stringPrefixLen(s string) int {
	i := 0
	for i < len(s) && i < 2 && strings.ContainsRune("uUrRbB", rune(s[i])) {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '"' || s[i] == '\'') {
		return i
	}
	return 0
}

// decodeEscape decodes the escape sequence that follows a backslash at the
// start of s and returns the text and the number of bytes of s consumed.
// Unrecognized escapes are kept verbatim.
func decodeEscape(s string) (string, int, error) {
	switch c := s[0]; c {
	case 'n':
		return "\n", 1, nil
	case 't':
		return "\t", 1, nil
	case 'r':
		return "\r", 1, nil
	case 'a':
		return "\a", 1, nil
	case 'b':
		return "\b", 1, nil
	case 'f':
		return "\f", 1, nil
	case 'v':
		return "\v", 1, nil
	case '\\', '\'', '"':
		return string(c), 1, nil
	case 'x':
		return hexEscape(s, 2)
	case 'u':
		return hexEscape(s, 4)
	case 'U':
		return hexEscape(s, 8)
	case 'N':
		return "", 0, fmt.Errorf(`named unicode escapes (\N{...}) are not supported`)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[:n], 8, 32)
		return string(rune(v)), n, nil
	default:
		return `\` + string(c), 1, nil
	}
}

// hexEscape decodes \xhh, \uhhhh and \Uhhhhhhhh to the code point they name.
func hexEscape(s string, digits int) (string, int, error) {
	if len(s) < 1+digits {
		return "", 0, fmt.Errorf(`truncated \%c escape`, s[0])
	}
	hex := s[1 : 1+digits]
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > unicode.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return "", 0, fmt.Errorf(`invalid \%c escape %q`, s[0], hex)
	}
	return string(rune(v)), 1 + digits, nil
}

func scanIdentifier(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

func scanDotted(s string) (string, string) {
	name, rest := scanIdentifier(s)
	for name != "" && strings.HasPrefix(rest, ".") {
		part, after := scanIdentifier(rest[1:])
		if part == "" {
			return "", s
		}
		name += "." + part
		rest = after
	}
	return name, rest
}

// isImport reports whether line starts with the import or from keyword.
func isImport(line string) bool {
	for _, kw := range []string{"import", "from"} {
		if rest, ok := strings.CutPrefix(line, kw); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			return true
		}
	}
	return false
}

// parenDelta counts opening minus closing parentheses on line, ignoring
// string literals and comments.
func parenDelta(line string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return depth
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return depth
}

// isTrailing reports whether rest holds nothing but whitespace and an optional comment.
func isTrailing(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return rest == "" || strings.HasPrefix(rest, "#")
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
