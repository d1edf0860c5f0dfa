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
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/jsccast/yaml"
	"go.uber.org/zap"
)

// evaluation is the state of one pass over a Template.
//
// Every side-channel write goes to the one Result, so the last
// write wins.
type evaluation struct {
	ctx    context.Context
	engine *Engine
	stars  []string
	result *Result
	depth  int
}

// content evaluates the nodes in order, concatenates their outputs,
// and trims the result.
func (ev *evaluation) content(ns []Node) string {
	return strings.TrimSpace(ev.raw(ns))
}

// raw is content without the trimming.
func (ev *evaluation) raw(ns []Node) string {
	var b strings.Builder
	for _, n := range ns {
		b.WriteString(ev.eval(n))
	}
	return b.String()
}

func (ev *evaluation) star(i int) string {
	if i < 1 || len(ev.stars) < i {
		return ""
	}
	return ev.stars[i-1]
}

func (ev *evaluation) eval(n Node) string {
	s := ev.engine.session

	switch vv := n.(type) {
	case *Text:
		return vv.Text

	case *Star:
		return ev.star(vv.Index)

	case *Get:
		return s.Get(vv.Name)

	case *Set:
		v := ev.content(vv.Content)
		s.Set(vv.Name, v)
		return v

	case *Think:
		ev.content(vv.Content)
		return ""

	case *Random:
		if len(vv.Items) == 0 {
			return ""
		}
		return ev.content(vv.Items[ev.engine.intn(len(vv.Items))])

	case *Condition:
		return ev.condition(vv)

	case *Srai:
		input := ev.content(vv.Content)
		sub := ev.engine.respond(ev.ctx, input, ev.depth+1)
		if sub == nil {
			return ""
		}
		return sub.Text

	case *CaseTransform:
		v := ev.content(vv.Content)
		switch vv.Kind {
		case Uppercase:
			return strings.ToUpper(v)
		case Lowercase:
			return strings.ToLower(v)
		case Formal:
			return Title(v)
		}
		return v

	case *Action:
		var src string
		if vv.Inputs != nil {
			src = ev.content(vv.Inputs)
		} else {
			src = SubstituteStars(vv.InputsSource, ev.stars)
		}
		r := ev.result
		r.Action = ActionWorkflow
		r.Workflow = vv.Workflow
		r.Inputs = ParseInputs(src)
		return ev.content(vv.Content)

	case *Menu:
		return ev.menu(vv)

	case *Confirm:
		prompt := ev.content(vv.Content)
		ev.result.Confirm = prompt
		ev.result.Action = ActionConfirm
		return ""

	case *Learn:
		ev.result.Learn = &LearnSuggestion{
			Pattern:  Generalize(vv.Pattern),
			Workflow: vv.Workflow,
		}
		ev.result.Action = ActionLearn
		return ""

	case *Compute:
		return ev.compute(vv)

	case *Unknown:
		return ev.content(vv.Content)
	}

	return ""
}

func (ev *evaluation) condition(c *Condition) string {
	s := ev.engine.session
	// An empty value means the branch form.
	if c.Name != "" && c.HasValue && c.Value != "" {
		if v, have := s.Lookup(c.Name); have && v == c.Value {
			return ev.content(c.Content)
		}
		return ""
	}
	for _, item := range c.Items {
		name := item.Name
		if name == "" {
			name = c.Name
		}
		if !item.HasValue {
			return ev.content(item.Content)
		}
		if v, have := s.Lookup(name); have && v == item.Value {
			return ev.content(item.Content)
		}
	}
	return ""
}

func (ev *evaluation) menu(c *Menu) string {
	if 0 < len(c.Options) {
		cs := make([]Choice, len(c.Options))
		for i, o := range c.Options {
			cs[i] = Choice{Value: o.Value, Label: ev.content(o.Label)}
		}
		ev.result.Choices = cs
		return ev.content(c.Content)
	}

	// The content is the list, and it's also the output.
	list := ev.content(c.Content)
	cs := make([]Choice, 0, 4)
	for _, label := range strings.Split(list, "|") {
		if label = strings.TrimSpace(label); label != "" {
			cs = append(cs, Choice{Value: strings.ToLower(label), Label: label})
		}
	}
	ev.result.Choices = cs
	return list
}

// compute echoes the expression, untrimmed, when it can't be
// evaluated.
func (ev *evaluation) compute(c *Compute) string {
	expr := ev.raw(c.Content)
	name := c.Interpreter
	if name == "" {
		name = DefaultInterpreter
	}
	i, have := ev.engine.Interpreters[name]
	if !have {
		ev.engine.logger.Warn("compute", zap.Error(&UnknownInterpreter{Name: name}))
		return expr
	}
	v, err := i.Eval(ev.ctx, expr)
	if err != nil {
		ev.engine.logger.Debug("compute failed", zap.String("expr", expr), zap.Error(err))
		return expr
	}
	return v
}

// Title upper-cases the first letter of every run of letters and
// lower-cases the rest.
func Title(s string) string {
	var (
		b     strings.Builder
		after bool
	)
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			if after {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			after = true
			continue
		}
		after = false
		b.WriteRune(r)
	}
	return b.String()
}

var starMarker = regexp.MustCompile(`<star(?:\s+index\s*=\s*["']\s*(\d+)\s*["'])?\s*/>`)

// SubstituteStars replaces <star/> and <star index="N"/> markers in
// text with the corresponding captures.  A marker for a missing
// capture becomes the empty string.
func SubstituteStars(text string, stars []string) string {
	return starMarker.ReplaceAllStringFunc(text, func(m string) string {
		i := 1
		if sub := starMarker.FindStringSubmatch(m); sub[1] != "" {
			i, _ = strconv.Atoi(sub[1])
		}
		if i < 1 || len(stars) < i {
			return ""
		}
		return stars[i-1]
	})
}

// Generalize turns a pattern with star markers into a canonical
// wildcard pattern.
func Generalize(pattern string) string {
	return Normalize(starMarker.ReplaceAllString(pattern, " * "))
}

// ParseInputs parses workflow inputs.  JSON is tried first, then
// YAML.  Anything that isn't a map gives an empty map.
func ParseInputs(src string) map[string]interface{} {
	src = strings.TrimSpace(src)
	m := make(map[string]interface{})
	if src == "" {
		return m
	}
	if err := json.Unmarshal([]byte(src), &m); err == nil && m != nil {
		return m
	}
	m = make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(src), &m); err == nil && m != nil {
		return m
	}
	return make(map[string]interface{})
}
