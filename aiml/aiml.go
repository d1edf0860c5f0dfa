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

// Package aiml reads and writes categories.
//
// Two formats are supported.  AIML files look like
//
//   <aiml version="2.0">
//     <category>
//       <pattern>HELLO</pattern>
//       <template>Hi there!</template>
//     </category>
//     <topic name="weather">
//       <category>...</category>
//     </topic>
//   </aiml>
//
// YAML files have a list of categories, each with a pattern and a
// template (and optionally that, topic, and doc).  In YAML files,
// '%inline("NAME")' is replaced by the contents of the file NAME.
package aiml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/parley/core"
)

type category struct {
	Pattern  string `xml:"pattern"`
	That     string `xml:"that"`
	Doc      string `xml:"doc"`
	Template *struct {
		Inner string `xml:",innerxml"`
	} `xml:"template"`
	Topic string `xml:"topic,attr"`
}

// LoadError reports a problem with a particular category.
type LoadError struct {
	Source string
	// Index is the ordinal of the category in the source (from 0).
	Index int
	Msg   string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: category %d: %s", e.Source, e.Index, e.Msg)
}

func newDecoder(in io.Reader) *xml.Decoder {
	d := xml.NewDecoder(in)
	d.Strict = true
	d.Entity = xml.HTMLEntity
	return d
}

// Read parses AIML.  The source is used in error messages.
//
// Categories are returned in document order.  A category without a
// pattern or without a template element is an error.
func Read(in io.Reader, source string) ([]*core.Category, error) {
	var (
		d     = newDecoder(in)
		acc   = make([]*core.Category, 0, 32)
		topic = core.AnyTopic
		depth = 0
	)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		switch vv := tok.(type) {
		case xml.StartElement:
			depth++
			switch strings.ToLower(vv.Name.Local) {
			case "topic":
				topic = attr(vv, "name", core.AnyTopic)
			case "category":
				var c category
				if err := d.DecodeElement(&c, &vv); err != nil {
					return nil, fmt.Errorf("%s: %w", source, err)
				}
				depth--
				t := topic
				if c.Topic != "" {
					t = c.Topic
				}
				cat, err := c.compile(t)
				if err != nil {
					return nil, &LoadError{
						Source: source,
						Index:  len(acc),
						Msg:    err.Error(),
					}
				}
				acc = append(acc, cat)
			case "aiml":
			default:
				if depth == 1 {
					return nil, fmt.Errorf("%s: root element is <%s>, not <aiml>", source, vv.Name.Local)
				}
			}
		case xml.EndElement:
			depth--
			if strings.EqualFold(vv.Name.Local, "topic") {
				topic = core.AnyTopic
			}
		}
	}

	return acc, nil
}

func (c *category) compile(topic string) (*core.Category, error) {
	pattern := strings.TrimSpace(c.Pattern)
	if pattern == "" {
		return nil, fmt.Errorf("no pattern")
	}
	if c.Template == nil {
		return nil, fmt.Errorf("no template for %q", pattern)
	}
	cat := core.NewCategory(pattern, c.Template.Inner, c.That, topic)
	cat.Doc = strings.TrimSpace(c.Doc)
	return cat, nil
}

func attr(e xml.StartElement, name, def string) string {
	for _, a := range e.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return def
}
