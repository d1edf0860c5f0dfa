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

package match

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p := Parse("  create  * users ^ ")
	assert.Equal(t, "CREATE * USERS ^", p.Source)
	assert.Equal(t, 2, p.Wildcards())
	assert.Equal(t, 10+1+10+3, p.Score())
	require.Len(t, p.Tokens, 4)
	assert.Equal(t, Literal, p.Tokens[0].Kind)
	assert.Equal(t, Star, p.Tokens[1].Kind)
	assert.Equal(t, Caret, p.Tokens[3].Kind)
}

func TestKinds(t *testing.T) {
	for _, glyph := range []string{"*", "_", "#", "^"} {
		k := KindOf(glyph)
		assert.True(t, k.Wildcard(), glyph)
		assert.Equal(t, glyph, k.Glyph())
	}
	assert.Equal(t, Literal, KindOf("**"))
	assert.False(t, IsWildcard("HELLO"))
	assert.Equal(t, 1, Star.MinWords())
	assert.Equal(t, 1, Underscore.MinWords())
	assert.Equal(t, 0, Hash.MinWords())
	assert.Equal(t, 0, Caret.MinWords())
}

func TestWeightOrder(t *testing.T) {
	assert.Greater(t, Weights[Literal], Weights[Caret])
	assert.Greater(t, Weights[Underscore], Weights[Star])
	assert.Greater(t, Weights[Caret], Weights[Hash])
	assert.Equal(t, Weights[Star], Weights[Hash])
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []string
		ok      bool
	}{
		{"literal", "HELLO", "HELLO", []string{}, true},
		{"literal case", "HELLO", "hello", []string{}, true},
		{"literal extra word", "HELLO", "HELLO THERE", nil, false},
		{"literal missing word", "HELLO THERE", "HELLO", nil, false},
		{"star", "CREATE * USERS", "CREATE 10 USERS", []string{"10"}, true},
		{"star multiword", "CREATE * USERS", "CREATE TEN NEW USERS", []string{"TEN NEW"}, true},
		{"star needs a word", "CREATE * USERS", "CREATE USERS", nil, false},
		{"two stars", "* OR *", "CAT OR DOG", []string{"CAT", "DOG"}, true},
		{"lazy first star", "* OR *", "A OR B OR C", []string{"A", "B OR C"}, true},
		{"hash empty", "HELLO #", "HELLO", []string{""}, true},
		{"hash leading empty", "# HELLO", "HELLO", []string{""}, true},
		{"caret middle empty", "HI ^ THERE", "HI THERE", []string{""}, true},
		{"underscore", "_ BYE", "GOOD BYE", []string{"GOOD"}, true},
		{"consecutive", "* *", "A B C", []string{"A", "B C"}, true},
		{"consecutive narrow", "# #", "A", []string{"", "A"}, true},
		{"consecutive narrow empty", "^ #", "", []string{"", ""}, true},
		{"empty pattern empty input", "", "", []string{}, true},
		{"empty pattern", "", "HELLO", nil, false},
		{"star empty input", "*", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := Match(tt.pattern, tt.input)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, Parse(tt.pattern).Wildcards())
		})
	}
}

func TestMatcherCache(t *testing.T) {
	m := &Matcher{Cache: make(map[string]*Pattern)}
	for i := 0; i < 3; i++ {
		got, score, ok := m.Match("* OR *", "tea or coffee")
		require.True(t, ok)
		assert.Equal(t, []string{"tea", "coffee"}, got)
		assert.Equal(t, 12, score)
	}
	assert.Len(t, m.Cache, 1)
}

func TestLongInput(t *testing.T) {
	words := strings.Fields(strings.Repeat("X ", 200) + "END")
	p := Parse("^ * # END")
	spans, ok := p.Match(words)
	require.True(t, ok)
	require.Len(t, spans, 3)
	assert.Equal(t, 0, spans[0].Len())
	assert.Equal(t, 1, spans[1].Len())
	assert.Equal(t, 199, spans[2].Len())
}

func TestManyWildcardsNoMatch(t *testing.T) {
	p := Parse("* * * * * END")
	words := strings.Fields(strings.Repeat("X ", 400))
	then := time.Now()
	_, ok := p.Match(words)
	assert.False(t, ok)
	assert.Less(t, time.Since(then), 2*time.Second)

	spans, ok := p.Match(append(words, "END"))
	require.True(t, ok)
	require.Len(t, spans, 5)
	assert.Equal(t, 396, spans[4].Len())
}
