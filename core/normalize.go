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

package core

import (
	"strings"
	"unicode"

	"github.com/Comcast/parley/match"
)

// keep reports whether a rune survives normalization.  Whitespace is
// handled separately.
func keep(r rune) bool {
	switch r {
	case '_', '*', '#', '^':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Words strips everything but word characters and wildcard glyphs
// and splits the result on whitespace.  Case is preserved.
func Words(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case keep(r):
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// Surface is Normalize without the case folding.
func Surface(s string) string {
	return strings.Join(Words(s), " ")
}

// Normalize canonicalizes text for matching: upper case, no
// punctuation (except the wildcard glyphs), single spaces.
func Normalize(s string) string {
	return strings.ToUpper(Surface(s))
}

// Input is text prepared for matching.
type Input struct {
	// Raw is the text as given.
	Raw string

	// Normalized is the result of Normalize(Raw).
	Normalized string

	// Words are the normalized words.
	Words []string

	// Surface are the words in their original case.  Captures
	// are taken from these.
	Surface []string
}

// NewInput normalizes the given text.
func NewInput(raw string) *Input {
	surface := Words(raw)
	words := make([]string, len(surface))
	for i, w := range surface {
		words[i] = strings.ToUpper(w)
	}
	return &Input{
		Raw:        raw,
		Normalized: strings.Join(words, " "),
		Words:      words,
		Surface:    surface,
	}
}

// Captures renders the given spans in the input's original case.
func (in *Input) Captures(spans []match.Span) []string {
	return match.Captures(in.Surface, spans)
}
