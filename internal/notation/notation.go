// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notation resolves record references of the form
//
//	[keeper://]<uid or title>/<selector>[/<key>][[index]][[property]]
//
// against a set of decoded records. Selectors are type, title, notes,
// field (standard field by type), custom_field (custom field by label, then
// by type) and file (attachment by name or title). A "/", "[" or "]" inside
// a title or key is escaped with a backslash.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the optional scheme of a notation string.
const Prefix = "keeper://"

// Selectors.
const (
	SelectorType        = "type"
	SelectorTitle       = "title"
	SelectorNotes       = "notes"
	SelectorField       = "field"
	SelectorCustomField = "custom_field"
	SelectorFile        = "file"
)

var (
	ErrInvalidNotation = errors.New("invalid notation")
	ErrRecordNotFound  = errors.New("notation record not found")
	ErrAmbiguousRecord = errors.New("notation title matches several records")
	ErrIndexOutOfRange = errors.New("notation index out of range")
)

// Notation is a parsed reference.
type Notation struct {
	// Record is a record uid or title.
	Record   string
	Selector string
	// Key is the field type, custom field label or file name.
	Key string
	// Index selects one value of a field. -1 means not given.
	Index int
	// All is set by an empty "[]" index and selects every value.
	All bool
	// Property selects a member of an object value.
	Property string
}

// Parse parses s. It does not look at any record.
func Parse(s string) (Notation, error) {
	n := Notation{Index: -1}

	rest := strings.TrimPrefix(strings.TrimSpace(s), Prefix)
	parts, err := splitUnescaped(rest, '/', 3)
	if err != nil {
		return Notation{}, err
	}
	if len(parts) < 2 || parts[0] == "" {
		return Notation{}, fmt.Errorf("%w: %q needs <record>/<selector>", ErrInvalidNotation, s)
	}
	n.Record = unescape(parts[0])
	n.Selector = parts[1]

	switch n.Selector {
	case SelectorType, SelectorTitle, SelectorNotes:
		if len(parts) > 2 {
			return Notation{}, fmt.Errorf("%w: selector %q takes no parameter", ErrInvalidNotation, n.Selector)
		}
		return n, nil
	case SelectorField, SelectorCustomField, SelectorFile:
	default:
		return Notation{}, fmt.Errorf("%w: unknown selector %q", ErrInvalidNotation, n.Selector)
	}

	if len(parts) < 3 || parts[2] == "" {
		return Notation{}, fmt.Errorf("%w: selector %q needs a parameter", ErrInvalidNotation, n.Selector)
	}

	key, brackets, err := splitKey(parts[2])
	if err != nil {
		return Notation{}, err
	}
	n.Key = key

	if n.Selector == SelectorFile {
		if len(brackets) > 0 {
			return Notation{}, fmt.Errorf("%w: file selector takes no index", ErrInvalidNotation)
		}
		return n, nil
	}

	switch len(brackets) {
	case 0:
	case 1, 2:
		if brackets[0] == "" {
			n.All = true
		} else {
			i, err := strconv.Atoi(brackets[0])
			if err != nil || i < 0 {
				return Notation{}, fmt.Errorf("%w: index %q is not a non-negative number", ErrInvalidNotation, brackets[0])
			}
			n.Index = i
		}
		if len(brackets) == 2 {
			if brackets[1] == "" {
				return Notation{}, fmt.Errorf("%w: empty property", ErrInvalidNotation)
			}
			if n.All {
				return Notation{}, fmt.Errorf("%w: property needs a single value index", ErrInvalidNotation)
			}
			n.Property = brackets[1]
		}
	default:
		return Notation{}, fmt.Errorf("%w: too many [] selectors", ErrInvalidNotation)
	}
	return n, nil
}

// String renders n back to notation, with escaping and without the prefix.
func (n Notation) String() string {
	var b strings.Builder
	b.WriteString(escape(n.Record))
	b.WriteByte('/')
	b.WriteString(n.Selector)
	if n.Key == "" {
		return b.String()
	}
	b.WriteByte('/')
	b.WriteString(escape(n.Key))
	switch {
	case n.All:
		b.WriteString("[]")
	case n.Index >= 0:
		b.WriteString("[" + strconv.Itoa(n.Index) + "]")
	}
	if n.Property != "" {
		if n.Index < 0 {
			b.WriteString("[0]")
		}
		b.WriteString("[" + n.Property + "]")
	}
	return b.String()
}

// splitUnescaped splits s on sep outside backslash escapes into at most
// limit parts. Escapes are kept for the caller.
func splitUnescaped(s string, sep byte, limit int) ([]string, error) {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 == len(s) {
				return nil, fmt.Errorf("%w: dangling escape", ErrInvalidNotation)
			}
			i++
		case sep:
			if len(parts) == limit-1 {
				continue
			}
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:]), nil
}

// splitKey separates "key[a][b]" into the unescaped key and the bracket
// contents.
func splitKey(s string) (string, []string, error) {
	var key strings.Builder
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			if i+1 == len(s) {
				return "", nil, fmt.Errorf("%w: dangling escape", ErrInvalidNotation)
			}
			i++
			key.WriteByte(s[i])
			continue
		}
		if c == '[' {
			break
		}
		if c == ']' {
			return "", nil, fmt.Errorf("%w: unbalanced ]", ErrInvalidNotation)
		}
		key.WriteByte(c)
	}
	if key.Len() == 0 {
		return "", nil, fmt.Errorf("%w: empty parameter", ErrInvalidNotation)
	}

	var brackets []string
	for i < len(s) {
		if s[i] != '[' {
			return "", nil, fmt.Errorf("%w: unexpected %q after ]", ErrInvalidNotation, s[i:])
		}
		end := strings.IndexByte(s[i:], ']')
		if end < 0 {
			return "", nil, fmt.Errorf("%w: unbalanced [", ErrInvalidNotation)
		}
		brackets = append(brackets, s[i+1:i+end])
		i += end + 1
	}
	return key.String(), brackets, nil
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `/`, `\/`, `[`, `\[`, `]`, `\]`)

func escape(s string) string {
	return escaper.Replace(s)
}
