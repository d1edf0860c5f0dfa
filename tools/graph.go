/* Copyright 2018 Comcast Cable Communications Management, LLC
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

package tools

import (
	"strings"

	"github.com/Comcast/parley/core"
)

// EdgeKind says how one Category leads to another.
type EdgeKind string

const (
	// SraiEdge: the From template redirects to the To category.
	SraiEdge EdgeKind = "srai"

	// ThatEdge: the From template's response satisfies the To
	// category's that-filter.
	ThatEdge EdgeKind = "that"
)

// Edge connects two Categories by their positions in the Store.
type Edge struct {
	From, To int
	Kind     EdgeKind

	// Label is the srai target or the that-filter.
	Label string
}

// Graph is the context graph of a set of Categories.
//
// Only static srai targets and static responses are considered, so
// the graph can miss edges that depend on captures or variables.
type Graph struct {
	Categories []*core.Category
	Edges      []*Edge
}

// NewGraph computes the Graph for the Categories.
func NewGraph(cs []*core.Category) *Graph {
	g := &Graph{
		Categories: cs,
	}

	for i, c := range cs {
		if c.Template == nil {
			continue
		}
		for _, target := range SraiTargets(c.Template) {
			if j := Resolve(target, cs); 0 <= j {
				g.Edges = append(g.Edges, &Edge{From: i, To: j, Kind: SraiEdge, Label: target})
			}
		}
	}

	for i, c := range cs {
		said, ok := StaticText(c.Template)
		if !ok {
			continue
		}
		said = core.Normalize(said)
		for j, d := range cs {
			if d.That != "" && core.Normalize(d.That) == said {
				g.Edges = append(g.Edges, &Edge{From: i, To: j, Kind: ThatEdge, Label: d.That})
			}
		}
	}

	return g
}

// Targeted reports whether any edge leads to the Category at the given
// position.
func (g *Graph) Targeted(i int) bool {
	for _, e := range g.Edges {
		if e.To == i {
			return true
		}
	}
	return false
}

// Resolve returns the position of the Category that would win for the
// given input if topic and that filters were ignored.  Returns -1 if
// nothing matches.
func Resolve(input string, cs []*core.Category) int {
	var (
		words = core.NewInput(input).Words
		best  = -1
		score = -1
	)
	for i, c := range cs {
		p := c.Compiled()
		if p.Score() <= score {
			continue
		}
		if _, ok := p.Match(words); ok {
			best, score = i, p.Score()
		}
	}
	return best
}

// SraiTargets returns the srai inputs that don't depend on captures,
// variables, or anything else evaluated at run time.
func SraiTargets(t *core.Template) []string {
	if t == nil {
		return nil
	}
	var acc []string
	core.Walk(t.Nodes, func(n core.Node) bool {
		if s, is := n.(*core.Srai); is {
			if text, ok := staticText(s.Content); ok {
				if text = strings.TrimSpace(text); text != "" {
					acc = append(acc, text)
				}
			}
		}
		return true
	})
	return acc
}

// StaticText returns the response the Template always gives, if any.
func StaticText(t *core.Template) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := staticText(t.Nodes)
	return strings.TrimSpace(s), ok
}

func staticText(ns []core.Node) (string, bool) {
	var b strings.Builder
	for _, n := range ns {
		switch vv := n.(type) {
		case *core.Text:
			b.WriteString(vv.Text)
		case *core.Think, *core.Confirm, *core.Learn:
		case *core.Action:
			s, ok := staticText(vv.Content)
			if !ok {
				return "", false
			}
			b.WriteString(strings.TrimSpace(s))
		case *core.CaseTransform:
			s, ok := staticText(vv.Content)
			if !ok {
				return "", false
			}
			s = strings.TrimSpace(s)
			switch vv.Kind {
			case core.Uppercase:
				s = strings.ToUpper(s)
			case core.Lowercase:
				s = strings.ToLower(s)
			case core.Formal:
				s = core.Title(s)
			}
			b.WriteString(s)
		case *core.Unknown:
			s, ok := staticText(vv.Content)
			if !ok {
				return "", false
			}
			b.WriteString(strings.TrimSpace(s))
		default:
			return "", false
		}
	}
	return b.String(), true
}

// label is a short description of a Category.
func label(c *core.Category) string {
	s := c.Pattern
	if c.That != "" {
		s += " | that " + c.That
	}
	if c.Topic != "" && c.Topic != core.AnyTopic {
		s += " | topic " + c.Topic
	}
	return s
}
