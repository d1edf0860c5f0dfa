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
	"fmt"
	"html"
	"io"

	"github.com/Comcast/parley/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderStoreHTML writes a table of the Categories.  Docs are
// markdown.
func RenderStoreHTML(cs []*core.Category, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	g := NewGraph(cs)

	f(`<div class="categories"><table>`)
	for i, c := range cs {
		f(`<tr class="category"><td><span id="c%d" class="pattern">%s</span></td><td>`, i, html.EscapeString(c.Pattern))
		if c.Doc != "" {
			f(`<div class="categoryDoc doc">%s</div>`, md.Run([]byte(c.Doc)))
		}
		f(`<table>`)
		if c.Topic != "" && c.Topic != core.AnyTopic {
			f(`<tr><td>topic</td><td><code>%s</code></td></tr>`, html.EscapeString(c.Topic))
		}
		if c.That != "" {
			f(`<tr><td>that</td><td><code>%s</code></td></tr>`, html.EscapeString(c.That))
		}
		if c.Template != nil {
			class := "code"
			if c.Template.Err != nil {
				class += " malformed"
			}
			f(`<tr><td>template</td><td><div class="%s"><pre>%s</pre></div></td></tr>`, class, html.EscapeString(c.Template.Source))
		}
		for _, e := range g.Edges {
			if e.From != i {
				continue
			}
			f(`<tr><td>%s</td><td><a href="#c%d"><code>%s</code></a></td></tr>`,
				e.Kind, e.To, html.EscapeString(cs[e.To].Pattern))
		}
		if c.Learned {
			f(`<tr><td></td><td class="learned">learned</td></tr>`)
		}
		f(`</table>`)
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderStorePage writes a complete HTML page.
func RenderStorePage(title string, cs []*core.Category, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/categories.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<html>
  <head>
  <meta charset="utf-8">
  <title>%s</title>
`, html.EscapeString(title))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", html.EscapeString(cssFile))
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(title))

	if err := RenderStoreHTML(cs, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}
