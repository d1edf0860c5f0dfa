/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package match implements the core wildcard pattern matcher.
//
// A pattern is a sequence of space-delimited tokens.  Each token is
// either a literal word or one of four wildcard glyphs:
//
//   *  one or more words, low priority
//   _  one or more words, high priority
//   #  zero or more words, low priority
//   ^  zero or more words, highest priority
//
// Matching is anchored at both ends: every input word must be
// consumed by exactly one token.  Wildcards are lazy in the sense
// that a wildcard takes the fewest words that still let the rest of
// the pattern match.
package match

import (
	"strings"
)

// Kind is the kind of a pattern token.
type Kind int

const (
	Literal    Kind = iota // A single word that must match exactly (ignoring case).
	Star                   // '*': one or more words.
	Underscore             // '_': one or more words, elevated priority.
	Hash                   // '#': zero or more words.
	Caret                  // '^': zero or more words, highest priority.
)

// Weights gives the contribution of each Kind to a pattern's score.
//
// The only property that matters is the order: a literal beats any
// wildcard, a high-priority wildcard beats a low-priority one, and
// broad and narrow wildcards of the same priority score the same.
var Weights = map[Kind]int{
	Literal:    10,
	Star:       1,
	Hash:       1,
	Underscore: 2,
	Caret:      3,
}

// Glyph returns the source form of a wildcard Kind.  Literal has no
// glyph.
func (k Kind) Glyph() string {
	switch k {
	case Star:
		return "*"
	case Underscore:
		return "_"
	case Hash:
		return "#"
	case Caret:
		return "^"
	}
	return ""
}

func (k Kind) String() string {
	if k == Literal {
		return "literal"
	}
	return k.Glyph()
}

// Wildcard reports whether the Kind captures a span of words.
func (k Kind) Wildcard() bool {
	return k != Literal
}

// MinWords is the smallest number of words the Kind can consume.
func (k Kind) MinWords() int {
	switch k {
	case Hash, Caret:
		return 0
	}
	return 1
}

// KindOf returns the wildcard Kind for a glyph or Literal for
// anything else.
func KindOf(token string) Kind {
	switch token {
	case "*":
		return Star
	case "_":
		return Underscore
	case "#":
		return Hash
	case "^":
		return Caret
	}
	return Literal
}

// IsWildcard reports whether the token is one of the four wildcard
// glyphs.
func IsWildcard(token string) bool {
	return KindOf(token) != Literal
}

// Token is one element of a Pattern.
type Token struct {
	Kind Kind
	// Word is the upper-cased literal (if Kind is Literal) or the glyph.
	Word string
}

// Span is a half-open range [Start,End) of input word indexes
// captured by a wildcard.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the number of words in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Pattern is a parsed wildcard pattern.
type Pattern struct {
	Source string
	Tokens []Token

	score     int
	wildcards int

	// minRest[i] is the minimum number of words needed by
	// Tokens[i:].
	minRest []int
}

// Parse parses a pattern.  Tokens are separated by whitespace;
// literal tokens are upper-cased.  Parse never fails: any token that
// isn't a wildcard glyph is a literal.
func Parse(source string) *Pattern {
	fields := strings.Fields(source)
	p := &Pattern{
		Tokens:  make([]Token, len(fields)),
		minRest: make([]int, len(fields)+1),
	}
	for i, f := range fields {
		k := KindOf(f)
		w := f
		if k == Literal {
			w = strings.ToUpper(f)
		} else {
			p.wildcards++
		}
		p.Tokens[i] = Token{Kind: k, Word: w}
		p.score += Weights[k]
		fields[i] = w
	}
	for i := len(p.Tokens) - 1; 0 <= i; i-- {
		p.minRest[i] = p.minRest[i+1] + p.Tokens[i].Kind.MinWords()
	}
	p.Source = strings.Join(fields, " ")
	return p
}

// String returns the canonical source of the pattern.
func (p *Pattern) String() string {
	return p.Source
}

// Score is the sum of the token weights.
//
// The score depends only on the pattern, not on the input it matched.
func (p *Pattern) Score() int {
	return p.score
}

// Wildcards is the number of wildcard tokens in the pattern.
func (p *Pattern) Wildcards() int {
	return p.wildcards
}

// Match attempts to align the pattern against the given words.
//
// When the alignment succeeds, the returned Spans correspond 1:1 and
// in order to the wildcard tokens of the pattern.
func (p *Pattern) Match(words []string) ([]Span, bool) {
	if len(words) < p.minRest[0] {
		return nil, false
	}
	a := &aligner{
		p:      p,
		words:  words,
		failed: make([]bool, (len(p.Tokens)+1)*(len(words)+1)),
	}
	return a.align(0, 0, make([]Span, 0, p.wildcards))
}

// aligner remembers the (token, word) positions from which no
// alignment exists, so each position is explored at most once.
type aligner struct {
	p      *Pattern
	words  []string
	failed []bool
}

func (a *aligner) align(ti, wi int, acc []Span) ([]Span, bool) {
	tokens, words := a.p.Tokens, a.words
	if ti == len(tokens) {
		return acc, wi == len(words)
	}

	at := ti*(len(words)+1) + wi
	if a.failed[at] {
		return nil, false
	}

	t := tokens[ti]
	if t.Kind == Literal {
		if wi < len(words) && strings.EqualFold(t.Word, words[wi]) {
			if spans, ok := a.align(ti+1, wi+1, acc); ok {
				return spans, true
			}
		}
		a.failed[at] = true
		return nil, false
	}

	// Shortest span first.  The upper bound leaves enough words
	// for the remaining tokens.
	limit := len(words) - a.p.minRest[ti+1]
	for end := wi + t.Kind.MinWords(); end <= limit; end++ {
		if spans, ok := a.align(ti+1, end, append(acc, Span{wi, end})); ok {
			return spans, true
		}
	}
	a.failed[at] = true
	return nil, false
}

// Matcher matches input text against patterns.
type Matcher struct {
	// Cache, if not nil, holds parsed patterns keyed by source.
	//
	// A Matcher with a Cache is not safe for concurrent use.
	Cache map[string]*Pattern
}

// DefaultMatcher does not cache.
var DefaultMatcher = &Matcher{}

func (m *Matcher) pattern(source string) *Pattern {
	if m.Cache == nil {
		return Parse(source)
	}
	p, have := m.Cache[source]
	if !have {
		p = Parse(source)
		m.Cache[source] = p
	}
	return p
}

// Match matches the whitespace-delimited input against the pattern.
//
// Captured spans are returned as strings (words joined by a single
// space).  The score is the pattern's score.
func (m *Matcher) Match(pattern string, input string) ([]string, int, bool) {
	p := m.pattern(pattern)
	words := strings.Fields(input)
	spans, ok := p.Match(words)
	if !ok {
		return nil, 0, false
	}
	return Captures(words, spans), p.Score(), true
}

// Captures renders the spans over the given words.
func Captures(words []string, spans []Span) []string {
	acc := make([]string, len(spans))
	for i, s := range spans {
		acc[i] = strings.Join(words[s.Start:s.End], " ")
	}
	return acc
}

// Match uses the DefaultMatcher.
func Match(pattern string, input string) ([]string, int, bool) {
	return DefaultMatcher.Match(pattern, input)
}
