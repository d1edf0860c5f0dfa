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
	"fmt"
	"sort"
	"strings"

	"github.com/Comcast/parley/core"
)

// StoreAnalysis reports some facts about a set of Categories and
// some likely mistakes.
type StoreAnalysis struct {
	// Errors are problems that will surely show up in responses.
	Errors []string

	Categories int
	Learned    int
	Wildcards  int
	Actions    int
	Computes   int

	Topics       []string
	Workflows    []string
	Interpreters []string
	UnknownTags  []string

	// Malformed categories have templates that are output
	// literally.
	Malformed []string

	// Duplicates can never be selected because an earlier
	// category has the same pattern, that-filter, and topic.
	Duplicates []string

	// MissingSrai are srai targets that no category matches.
	MissingSrai []string

	// UnreachableThats are categories whose that-filter no static
	// response produces.  A dynamic response might still produce
	// it.
	UnreachableThats []string
}

// Analyze looks at the Categories.  If is isn't nil, compute tags
// naming interpreters it doesn't have are errors.
func Analyze(cs []*core.Category, is core.Interpreters) *StoreAnalysis {
	a := &StoreAnalysis{
		Categories: len(cs),
		Errors:     make([]string, 0, 8),
	}

	var (
		topics, workflows    = make(map[string]bool), make(map[string]bool)
		interpreters, tags   = make(map[string]bool), make(map[string]bool)
		seen                 = make(map[string]bool, len(cs))
		missing, unreachable = make(map[string]bool), make(map[string]bool)
	)

	g := NewGraph(cs)
	thats := make(map[int]bool)
	for _, e := range g.Edges {
		if e.Kind == ThatEdge {
			thats[e.To] = true
		}
	}

	for i, c := range cs {
		name := label(c)
		if c.Learned {
			a.Learned++
		}
		if 0 < c.Compiled().Wildcards() {
			a.Wildcards++
		}
		topics[c.Topic] = true

		key := c.Pattern + "\x00" + core.Normalize(c.That) + "\x00" + c.Topic
		if seen[key] {
			a.Duplicates = append(a.Duplicates, name)
		}
		seen[key] = true

		if c.That != "" && !thats[i] {
			unreachable[name] = true
		}

		if c.Template == nil {
			continue
		}
		if c.Template.Err != nil {
			a.Malformed = append(a.Malformed, name)
			a.Errors = append(a.Errors, fmt.Sprintf("%s: %v", name, c.Template.Err))
			continue
		}

		for _, target := range SraiTargets(c.Template) {
			if Resolve(target, cs) < 0 {
				missing[target] = true
			}
		}

		core.Walk(c.Template.Nodes, func(n core.Node) bool {
			switch vv := n.(type) {
			case *core.Action:
				a.Actions++
				workflows[vv.Workflow] = true
			case *core.Compute:
				a.Computes++
				interpreter := vv.Interpreter
				if interpreter == "" {
					interpreter = core.DefaultInterpreter
				}
				interpreters[interpreter] = true
			case *core.Unknown:
				tags[vv.Tag] = true
			}
			return true
		})
	}

	a.Topics = keys(topics)
	a.Workflows = keys(workflows)
	a.Interpreters = keys(interpreters)
	a.UnknownTags = keys(tags)
	a.MissingSrai = keys(missing)
	a.UnreachableThats = keys(unreachable)

	for _, target := range a.MissingSrai {
		a.Errors = append(a.Errors, "no category matches srai "+target)
	}
	if is != nil {
		for _, name := range a.Interpreters {
			if _, have := is[name]; !have {
				a.Errors = append(a.Errors, "unknown interpreter "+name)
			}
		}
	}

	return a
}

// String renders a summary.
func (a *StoreAnalysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "categories: %d (learned %d, with wildcards %d)\n", a.Categories, a.Learned, a.Wildcards)
	fmt.Fprintf(&b, "actions: %d, computes: %d\n", a.Actions, a.Computes)
	list := func(name string, xs []string) {
		if len(xs) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", name)
		for _, x := range xs {
			fmt.Fprintf(&b, "  %s\n", x)
		}
	}
	list("topics", a.Topics)
	list("workflows", a.Workflows)
	list("interpreters", a.Interpreters)
	list("unknown tags", a.UnknownTags)
	list("duplicates", a.Duplicates)
	list("unreachable that-filters", a.UnreachableThats)
	list("errors", a.Errors)
	return b.String()
}

func keys(m map[string]bool) []string {
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}
