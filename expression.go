// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package einops

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/einops/pkg/support/sets"
	"github.com/gomlx/einops/pkg/support/xslices"
	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenEllipsis
	tokenOpenGroup
	tokenCloseGroup
)

// token of one side of a pattern. pos is the byte offset in the full
// pattern, used in error messages.
type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenizeSide lexes one side of a pattern. It is purely lexical:
// grouping and semantic checks happen in parseSide.
//
// Identifiers are made of Unicode letters, digits and underscores, and
// must not start with a digit. Both "..." and the single rune "…" lex
// to an ellipsis. Whitespace and commas separate tokens.
func tokenizeSide(side string, offset int) ([]token, error) {
	var tokens []token
	ii := 0
	for ii < len(side) {
		r, width := utf8.DecodeRuneInString(side[ii:])
		switch {
		case r == ',' || unicode.IsSpace(r):
			ii += width
		case r == '(':
			tokens = append(tokens, token{kind: tokenOpenGroup, text: "(", pos: offset + ii})
			ii += width
		case r == ')':
			tokens = append(tokens, token{kind: tokenCloseGroup, text: ")", pos: offset + ii})
			ii += width
		case r == '…':
			tokens = append(tokens, token{kind: tokenEllipsis, text: "…", pos: offset + ii})
			ii += width
		case r == '.':
			if !strings.HasPrefix(side[ii:], "...") {
				return nil, errors.Wrapf(ErrPatternSyntax, "unexpected %q at position %d, did you mean \"...\"", r, offset+ii)
			}
			tokens = append(tokens, token{kind: tokenEllipsis, text: "...", pos: offset + ii})
			ii += len("...")
		case r == '_' || unicode.IsLetter(r):
			start := ii
			for ii < len(side) {
				r2, width2 := utf8.DecodeRuneInString(side[ii:])
				if r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				ii += width2
			}
			tokens = append(tokens, token{kind: tokenIdentifier, text: side[start:ii], pos: offset + start})
		case unicode.IsDigit(r):
			start := ii
			for ii < len(side) {
				r2, width2 := utf8.DecodeRuneInString(side[ii:])
				if r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				ii += width2
			}
			return nil, errors.Wrapf(ErrPatternSyntax, "axis name %q cannot start with a digit (position %d)", side[start:ii], offset+start)
		default:
			return nil, errors.Wrapf(ErrPatternSyntax, "unexpected character %q at position %d", r, offset+ii)
		}
	}
	return tokens, nil
}

// axisRef identifies one axis of a pattern: either a named axis or an
// anonymous one minted when the ellipsis is expanded against a concrete
// rank. Anonymous axes behave like named axes everywhere else.
//
// axisRef is comparable and used as a map key.
type axisRef struct {
	name string // Empty for anonymous axes.
	anon int    // Ordinal of the anonymous axis, when name is empty.
}

func (ref axisRef) String() string {
	if ref.name != "" {
		return ref.name
	}
	return fmt.Sprintf("...%d", ref.anon)
}

// axisGroup is one top-level element of a side: a bare axis, a
// parenthesized composite of axes, or the ellipsis marker.
type axisGroup struct {
	axes      []axisRef
	composite bool // Written in parentheses.
	ellipsis  bool // The "..." marker; axes is empty.
}

func (g axisGroup) String() string {
	if g.ellipsis {
		return "..."
	}
	names := xslices.Map(g.axes, func(ref axisRef) string { return ref.String() })
	if g.composite {
		return "(" + strings.Join(names, " ") + ")"
	}
	return names[0]
}

// sideExpr is the parsed form of one side of a pattern.
type sideExpr struct {
	groups     []axisGroup
	ellipsisAt int // Index of the ellipsis marker in groups, -1 if absent.
	names      sets.Set[string]
}

func (s sideExpr) hasEllipsis() bool { return s.ellipsisAt >= 0 }

// explicitGroups is the number of groups not counting the ellipsis.
func (s sideExpr) explicitGroups() int {
	if s.hasEllipsis() {
		return len(s.groups) - 1
	}
	return len(s.groups)
}

// expression is a fully parsed pattern. It is immutable once built and
// can be shared between goroutines.
type expression struct {
	pattern       string
	input, output sideExpr
}

// parsePattern parses "input -> output" into an expression. It performs
// all lexical and structural validation, but not the cross-side checks
// of registry.validate.
func parsePattern(pattern string) (*expression, error) {
	switch strings.Count(pattern, "->") {
	case 1:
		// Valid.
	case 0:
		return nil, errors.Wrapf(ErrPatternSyntax, "pattern %q is missing the \"->\" separating input from output", pattern)
	default:
		return nil, errors.Wrapf(ErrPatternSyntax, "pattern %q has more than one \"->\"", pattern)
	}
	arrowAt := strings.Index(pattern, "->")

	expr := &expression{pattern: pattern}
	var err error
	expr.input, err = parseSide(pattern[:arrowAt], 0, pattern, "input")
	if err != nil {
		return nil, err
	}
	expr.output, err = parseSide(pattern[arrowAt+2:], arrowAt+2, pattern, "output")
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func parseSide(side string, offset int, pattern, sideName string) (sideExpr, error) {
	parsed := sideExpr{ellipsisAt: -1, names: sets.Make[string]()}
	tokens, err := tokenizeSide(side, offset)
	if err != nil {
		return parsed, errors.WithMessagef(err, "%s side of %q", sideName, pattern)
	}
	if len(tokens) == 0 {
		return parsed, errors.Wrapf(ErrPatternSyntax, "%s side of %q is empty", sideName, pattern)
	}

	var current []axisRef
	inGroup := false
	groupPos := 0
	for _, tok := range tokens {
		switch tok.kind {
		case tokenOpenGroup:
			if inGroup {
				return parsed, errors.Wrapf(ErrPatternSyntax, "nested parentheses are not supported (%s side of %q, position %d)", sideName, pattern, tok.pos)
			}
			inGroup = true
			current = nil
			groupPos = tok.pos
		case tokenCloseGroup:
			if !inGroup {
				return parsed, errors.Wrapf(ErrUnbalancedGroup, "unmatched \")\" on the %s side of %q (position %d)", sideName, pattern, tok.pos)
			}
			if len(current) == 0 {
				return parsed, errors.Wrapf(ErrPatternSyntax, "empty parentheses on the %s side of %q (position %d)", sideName, pattern, groupPos)
			}
			parsed.groups = append(parsed.groups, axisGroup{axes: current, composite: true})
			inGroup = false
		case tokenEllipsis:
			if inGroup {
				return parsed, errors.Wrapf(ErrPatternSyntax, "ellipsis inside parentheses is not supported (%s side of %q, position %d)", sideName, pattern, tok.pos)
			}
			if parsed.hasEllipsis() {
				return parsed, errors.Wrapf(ErrMultipleEllipsis, "%s side of %q", sideName, pattern)
			}
			parsed.ellipsisAt = len(parsed.groups)
			parsed.groups = append(parsed.groups, axisGroup{ellipsis: true})
		case tokenIdentifier:
			if parsed.names.Has(tok.text) {
				return parsed, errors.Wrapf(ErrDuplicateAxis, "axis %q appears more than once on the %s side of %q", tok.text, sideName, pattern)
			}
			parsed.names.Insert(tok.text)
			ref := axisRef{name: tok.text}
			if inGroup {
				current = append(current, ref)
			} else {
				parsed.groups = append(parsed.groups, axisGroup{axes: []axisRef{ref}})
			}
		}
	}
	if inGroup {
		return parsed, errors.Wrapf(ErrUnbalancedGroup, "missing \")\" on the %s side of %q (group opened at position %d)", sideName, pattern, groupPos)
	}
	return parsed, nil
}
