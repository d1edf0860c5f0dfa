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

package aiml

import (
	"bufio"
	"encoding/xml"
	"io"

	"github.com/Comcast/parley/core"
)

// Write renders Categories as an AIML document that Read accepts.
//
// A template that parsed cleanly is written verbatim.  A malformed
// one is escaped so that it reads back as the same literal text.
func Write(w io.Writer, cs []*core.Category) error {
	out := bufio.NewWriter(w)
	out.WriteString(xml.Header)
	out.WriteString(`<aiml version="2.0">` + "\n")
	for _, c := range cs {
		if c.Topic != core.AnyTopic && c.Topic != "" {
			out.WriteString(`  <topic name="`)
			xml.EscapeText(out, []byte(c.Topic))
			out.WriteString(`">` + "\n")
			writeCategory(out, c, "    ")
			out.WriteString("  </topic>\n")
			continue
		}
		writeCategory(out, c, "  ")
	}
	out.WriteString("</aiml>\n")
	return out.Flush()
}

func writeCategory(out *bufio.Writer, c *core.Category, indent string) {
	out.WriteString(indent + "<category>\n")
	element(out, indent+"  ", "pattern", c.Pattern)
	if c.That != "" {
		element(out, indent+"  ", "that", c.That)
	}
	if c.Doc != "" {
		element(out, indent+"  ", "doc", c.Doc)
	}
	out.WriteString(indent + "  <template>")
	if t := c.Template; t != nil {
		if t.Err == nil {
			out.WriteString(t.Source)
		} else {
			xml.EscapeText(out, []byte(t.Source))
		}
	}
	out.WriteString("</template>\n")
	out.WriteString(indent + "</category>\n")
}

func element(out *bufio.Writer, indent, name, text string) {
	out.WriteString(indent + "<" + name + ">")
	xml.EscapeText(out, []byte(text))
	out.WriteString("</" + name + ">\n")
}

// WriteLearned writes the Store's learned Categories.
func WriteLearned(w io.Writer, s *core.Store) error {
	return Write(w, s.Learned())
}
