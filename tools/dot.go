/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// dot -Tpng g.dot > g.png

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Dot writes a Graphviz dot file for the Graph.
//
// Categories with a that-filter are dashed.  Categories with a
// wildcard pattern are a different color.  If highlight is not
// negative, the Category at that position is red.
func Dot(g *Graph, w io.Writer, highlight int) error {
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "digraph G {\n")
	fmt.Fprintf(out, `  graph [ordering=out,rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "10"]
`)

	for i, c := range g.Categories {
		label := escHTML(c.Pattern)
		if c.Topic != "" && c.Topic != "*" {
			label += `<BR/><FONT POINT-SIZE="8">topic ` + escHTML(c.Topic) + `</FONT>`
		}
		if c.That != "" {
			label += `<BR/><FONT POINT-SIZE="8">that ` + escHTML(c.That) + `</FONT>`
		}
		if c.Doc != "" {
			doc := c.Doc
			if 40 < len(doc) {
				if period := strings.Index(doc, ". "); 0 < period {
					doc = doc[0 : period+1]
				}
			}
			label += `<BR/><FONT POINT-SIZE="8">` + escHTML(doc) + `</FONT>`
		}

		fillcolor := "#99ddc8"
		if 0 < c.Compiled().Wildcards() {
			fillcolor = "#52aa5e"
		}
		if c.Template != nil && c.Template.Err != nil {
			fillcolor = "#f9d58b"
		}
		color := "black"
		style := "filled"
		if i == highlight {
			color = "red"
			fillcolor = "#f98b8b"
		}
		if c.That != "" {
			style += ",dashed"
		}
		if c.Learned {
			style += ",bold"
		}
		fmt.Fprintf(out, "  c%d [style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			i, style, color, fillcolor, label)
	}

	for _, e := range g.Edges {
		color := "#2d93ad"
		style := "solid"
		if e.Kind == ThatEdge {
			color = "orange"
			style = "dashed"
		}
		fmt.Fprintf(out, "  c%d -> c%d [ color=\"%s\" style=\"%s\" label=<%s> ]\n",
			e.From, e.To, color, style, string(e.Kind)+" "+escHTML(e.Label))
	}

	fmt.Fprintf(out, "}\n")
	return out.Flush()
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.  Requires the dot command.
func PNG(g *Graph, basename string, highlight int) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(g, dotfile, highlight); err != nil {
		dotfile.Close()
		return pngname, err
	}
	if err := dotfile.Close(); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escHTML(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, ">", "&gt;", -1)
	return s
}
