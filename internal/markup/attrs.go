package markup

import (
	"sort"
	"strings"
)

// Props maps attribute names to decoded values.
type Props map[string]Value

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value under key if it is a string.
func (p Props) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Bool returns the value under key as a boolean. The strings "true" and
// "false" are accepted as well.
func (p Props) Bool(key string) (bool, bool) {
	switch v := p[key].(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// AttrForm is the syntactic form an attribute was written in.
type AttrForm int

const (
	FormBare AttrForm = iota
	FormDouble
	FormSingle
	FormBrace
	FormUnquoted
)

// Attribute is one attribute as written in an opening tag. Start and End
// are offsets into the attribute string passed to ScanAttributes.
type Attribute struct {
	Name  string
	Raw   string
	Form  AttrForm
	Start int
	End   int
}

// ScanAttributes splits an attribute list into its attributes, left to
// right. Unparseable stretches are skipped.
func ScanAttributes(s string) []Attribute {
	var attrs []Attribute
	i := 0
	for i < len(s) {
		i = skipSpace(s, i)
		if i >= len(s) {
			break
		}
		if !isNameByte(s[i]) {
			i++
			continue
		}

		start := i
		for i < len(s) && isNameByte(s[i]) {
			i++
		}
		attr := Attribute{Name: s[start:i], Start: start, Form: FormBare}

		j := skipSpace(s, i)
		if j >= len(s) || s[j] != '=' {
			attr.End = i
			attrs = append(attrs, attr)
			continue
		}
		j = skipSpace(s, j+1)
		if j >= len(s) {
			attr.End = j
			attrs = append(attrs, attr)
			break
		}

		switch s[j] {
		case '"', '\'':
			q := s[j]
			end := strings.IndexByte(s[j+1:], q)
			if end < 0 {
				// Unterminated quote swallows the rest.
				attr.Raw = s[j+1:]
				attr.End = len(s)
				i = len(s)
			} else {
				attr.Raw = s[j+1 : j+1+end]
				attr.End = j + end + 2
				i = attr.End
			}
			attr.Form = FormDouble
			if q == '\'' {
				attr.Form = FormSingle
			}
		case '{':
			end := braceEnd(s, j)
			if end < 0 {
				attr.Raw = s[j+1:]
				attr.End = len(s)
				i = len(s)
			} else {
				attr.Raw = s[j+1 : end]
				attr.End = end + 1
				i = attr.End
			}
			attr.Form = FormBrace
		default:
			k := j
			for k < len(s) && !isSpace(s[k]) {
				k++
			}
			attr.Raw = s[j:k]
			attr.Form = FormUnquoted
			attr.End = k
			i = k
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// Value decodes the attribute's value.
func (a Attribute) Value() Value {
	switch a.Form {
	case FormBare:
		return true
	case FormBrace:
		return DecodeBrace(a.Raw)
	default:
		return a.Raw
	}
}

// DecodeAttributes decodes an attribute list into props. Later attributes
// overwrite earlier ones with the same name.
func DecodeAttributes(s string) Props {
	props := make(Props)
	for _, a := range ScanAttributes(s) {
		props[a.Name] = a.Value()
	}
	return props
}

// DecodeBrace decodes the contents of a {...} attribute. Contents that are
// not a literal come back as the trimmed source text.
func DecodeBrace(expr string) Value {
	trimmed := strings.TrimSpace(expr)
	v, err := ParseLiteral(trimmed)
	if err != nil {
		return trimmed
	}
	return v
}

// FormatAttribute renders name=value for an opening tag. Strings use double
// quotes unless they contain one, in which case a brace literal is used so
// the value survives a re-parse.
func FormatAttribute(name string, v Value) string {
	if s, ok := v.(string); ok {
		if strings.ContainsRune(s, '"') {
			return name + "={" + Quote(s) + "}"
		}
		return name + `="` + s + `"`
	}
	return name + "={" + FormatValue(v) + "}"
}

// braceEnd returns the index of the '}' closing the '{' at open, or -1.
func braceEnd(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return isIdentPart(c) || c == '-' || c == ':' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
