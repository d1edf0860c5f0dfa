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

package tools

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type MermaidOpts struct {
	// ShowLabels puts the srai target or that-filter on each
	// edge.
	ShowLabels bool `json:"showLabels"`

	// WildcardFill is the fill color for categories with
	// wildcards.  Does not apply if WildcardClass is set.
	WildcardFill string `json:"wildcardFill,omitempty"`

	// WildcardClass will be the CSS class for categories with
	// wildcards.
	WildcardClass string `json:"wildcardClass,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given Graph.
func Mermaid(g *Graph, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ShowLabels:   true,
			WildcardFill: "#bcf2db",
		}
	}

	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "graph LR\n")

	for i, c := range g.Categories {
		nid := fmt.Sprintf("c%d", i)
		text := mermaidText(label(c))
		if c.That == "" {
			fmt.Fprintf(out, "  %s[\"%s\"]\n", nid, text)
		} else {
			fmt.Fprintf(out, "  %s(\"%s\")\n", nid, text)
		}
		if 0 < c.Compiled().Wildcards() {
			switch {
			case opts.WildcardClass != "":
				fmt.Fprintf(out, "  class %s %s\n", nid, opts.WildcardClass)
			case opts.WildcardFill != "":
				fmt.Fprintf(out, "  style %s fill:%s\n", nid, opts.WildcardFill)
			}
		}
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if e.Kind == ThatEdge {
			arrow = "-.->"
		}
		if opts.ShowLabels {
			fmt.Fprintf(out, "  c%d %s|\"%s %s\"| c%d\n", e.From, arrow, e.Kind, mermaidText(e.Label), e.To)
		} else {
			fmt.Fprintf(out, "  c%d %s c%d\n", e.From, arrow, e.To)
		}
	}

	fmt.Fprintf(out, "\n")
	return out.Flush()
}

func mermaidText(s string) string {
	return strings.Replace(s, `"`, "#quot;", -1)
}
