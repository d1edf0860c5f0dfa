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

// Package fallback answers input that no category matched.
package fallback

import (
	"context"
	"strings"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/match"
)

// Responder answers unmatched input.  A Responder may return nil to
// decline.
type Responder interface {
	Respond(ctx context.Context, input string, s *core.Session) *core.Result
}

// Func is a Responder.
type Func func(ctx context.Context, input string, s *core.Session) *core.Result

func (f Func) Respond(ctx context.Context, input string, s *core.Session) *core.Result {
	return f(ctx, input, s)
}

// DefaultHelp is the last resort.
var DefaultHelp = "I'm not sure how to help with that. Could you rephrase or try a specific command like:\n" +
	"- `create user <name>`\n" +
	"- `list repos`\n" +
	"- `deploy to staging`"

// Static always says the same thing.
type Static struct {
	Text string
}

func (r *Static) Respond(ctx context.Context, input string, s *core.Session) *core.Result {
	return core.TextResult(r.Text)
}

// Chain asks each Responder in turn until one answers.
type Chain []Responder

func (rs Chain) Respond(ctx context.Context, input string, s *core.Session) *core.Result {
	for _, r := range rs {
		if res := r.Respond(ctx, input, s); res != nil {
			return res
		}
	}
	return nil
}

// Intent is a named set of keywords.
type Intent struct {
	Name     string
	Keywords []string
}

// DefaultIntents are checked in order.
var DefaultIntents = []*Intent{
	{"create", []string{"create", "make", "new", "add", "spin up"}},
	{"delete", []string{"delete", "remove", "destroy", "tear down"}},
	{"list", []string{"list", "show", "get", "display", "view"}},
	{"update", []string{"update", "modify", "change", "edit"}},
	{"sync", []string{"sync", "synchronize", "mirror", "replicate"}},
	{"deploy", []string{"deploy", "release", "ship", "publish"}},
}

// Intents classifies input by keyword and, when it recognizes an
// intent, suggests a pattern to learn.
//
// Input without a recognized intent goes to Else.
type Intents struct {
	Intents []*Intent
	Else    Responder
}

// NewIntents makes an Intents with DefaultIntents that falls back to
// DefaultHelp.
func NewIntents() *Intents {
	return &Intents{
		Intents: DefaultIntents,
		Else:    &Static{Text: DefaultHelp},
	}
}

// Classify returns the first Intent with a keyword that occurs in the
// input (ignoring case).
func (r *Intents) Classify(input string) *Intent {
	lower := strings.ToLower(input)
	for _, in := range r.Intents {
		for _, kw := range in.Keywords {
			if strings.Contains(lower, kw) {
				return in
			}
		}
	}
	return nil
}

// Suggest generalizes the input into a pattern.  The intent's
// keywords and short words stay.  Numbers and longer words become
// wildcards, and consecutive wildcards collapse into one.
func (r *Intents) Suggest(input string, in *Intent) string {
	keywords := make(map[string]bool, len(in.Keywords))
	for _, kw := range in.Keywords {
		keywords[strings.ToUpper(kw)] = true
	}

	var (
		words = core.NewInput(input).Words
		acc   = make([]string, 0, len(words))
		star  = match.Star.Glyph()
	)
	for _, w := range words {
		switch {
		case keywords[w]:
		case isNumber(w) || 3 < len([]rune(w)):
			w = star
		}
		if w == star && 0 < len(acc) && acc[len(acc)-1] == star {
			continue
		}
		acc = append(acc, w)
	}
	return strings.Join(acc, " ")
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || '9' < r {
			return false
		}
	}
	return s != ""
}

func (r *Intents) Respond(ctx context.Context, input string, s *core.Session) *core.Result {
	in := r.Classify(input)
	if in == nil {
		if r.Else == nil {
			return nil
		}
		return r.Else.Respond(ctx, input, s)
	}

	pattern := r.Suggest(input, in)
	res := core.TextResult("I don't have a pattern for that yet, but I can learn!\n\n" +
		"Suggested pattern: `" + pattern + "`\n\n" +
		"Should I add this to my knowledge?")
	res.Action = core.ActionLearn
	res.Learn = &core.LearnSuggestion{
		Pattern: pattern,
		Intent:  in.Name,
	}
	return res
}
