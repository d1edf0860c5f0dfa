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

// MatchResult is the outcome of matching input against a Store.
type MatchResult struct {
	Matched bool

	// Captures correspond 1:1, in order, to the wildcards in the
	// winning Category's pattern.
	Captures []string

	Category *Category
	Score    int
}

// Matcher selects the best Category for some input.
type Matcher struct {
}

// DefaultMatcher has no configuration.
var DefaultMatcher = &Matcher{}

// Match finds the best eligible Category.
//
// Categories that the session's topic and preceding response rule out
// are skipped before any scoring.  Among the rest, the highest score
// wins.  A tie goes to the Category that appears first.
func (m *Matcher) Match(in *Input, cs []*Category, s *Session) *MatchResult {
	best := &MatchResult{}
	for _, c := range cs {
		if !c.Eligible(s) {
			continue
		}
		p := c.Compiled()
		if best.Matched && p.Score() <= best.Score {
			// Can't win.
			continue
		}
		spans, ok := p.Match(in.Words)
		if !ok {
			continue
		}
		best = &MatchResult{
			Matched:  true,
			Captures: in.Captures(spans),
			Category: c,
			Score:    p.Score(),
		}
	}
	return best
}
