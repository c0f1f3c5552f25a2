package query

import (
	"fmt"
	"strings"
)

// Unit is one alternative of an engine query string
type Unit struct {
	Text   string
	Prefix bool
}

// Phrase reports whether the unit holds more than one word
func (u Unit) Phrase() bool {
	return strings.ContainsRune(u.Text, ' ')
}

// Parse splits an engine query string back into its OR-joined units. It is
// used by page stores whose native syntax differs from the engine syntax.
// Unquoted words are accepted as single-term units
func Parse(s string) ([]Unit, error) {
	var (
		units []Unit
		i     int
	)
	for i < len(s) {
		switch {
		case s[i] == ' ':
			i++
		case strings.HasPrefix(s[i:], "OR "):
			i += len("OR ")
		case s[i] == '"':
			text, next, err := readQuoted(s, i)
			if err != nil {
				return nil, err
			}
			u := Unit{Text: text}
			if next < len(s) && s[next] == '*' {
				u.Prefix = true
				next++
			}
			if strings.TrimSpace(u.Text) != "" {
				units = append(units, u)
			}
			i = next
		default:
			end := strings.IndexByte(s[i:], ' ')
			if end < 0 {
				end = len(s) - i
			}
			word := s[i : i+end]
			u := Unit{Text: strings.TrimSuffix(word, PrefixMarker)}
			u.Prefix = u.Text != word
			if u.Text != "" {
				units = append(units, u)
			}
			i += end
		}
	}
	return units, nil
}

// readQuoted reads a quoted unit starting at s[start] == '"'. A doubled
// quote inside the unit stands for one literal quote
func readQuoted(s string, start int) (string, int, error) {
	var b strings.Builder
	i := start + 1
	for i < len(s) {
		if s[i] == '"' {
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), i + 1, nil
		}
		b.WriteByte(s[i])
		i++
	}
	return "", 0, fmt.Errorf("unterminated quote at offset %d", start)
}
