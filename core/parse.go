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
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ParseTemplate parses template source.
//
// The source is either a fragment ("Hello <get name="name"/>!") or
// a complete <template> element.  Tag names are case-insensitive.
//
// ParseTemplate never fails.  If the source is malformed, the
// returned Template's Err is set and its only Node is a Text with the
// entire source.
func ParseTemplate(src string) *Template {
	nodes, err := parseTemplate(src)
	if err != nil {
		return &Template{
			Source: src,
			Nodes:  []Node{&Text{Text: src}},
			Err:    &TemplateError{Source: src, Err: err},
		}
	}
	return &Template{
		Source: src,
		Nodes:  nodes,
	}
}

func isTemplateElement(src string) bool {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(strings.ToLower(s), "<template") || len(s) < len("<template")+1 {
		return false
	}
	switch s[len("<template")] {
	case '>', ' ', '\t', '\n', '\r', '/':
		return true
	}
	return false
}

func parseTemplate(src string) ([]Node, error) {
	doc := src
	if !isTemplateElement(src) {
		doc = "<template>" + src + "</template>"
	}

	d := xml.NewDecoder(strings.NewReader(escapeAttrs(doc)))
	d.Strict = true
	d.Entity = xml.HTMLEntity

	var root *xml.StartElement
	for root == nil {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch vv := tok.(type) {
		case xml.StartElement:
			root = &vv
		case xml.CharData:
			if strings.TrimSpace(string(vv)) != "" {
				return nil, UnbalancedTemplate
			}
		}
	}

	nodes, err := parseContent(d, *root)
	if err != nil {
		return nil, err
	}

	// Nothing but whitespace, comments and the like can follow.
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch vv := tok.(type) {
		case xml.StartElement:
			return nil, UnbalancedTemplate
		case xml.CharData:
			if strings.TrimSpace(string(vv)) != "" {
				return nil, UnbalancedTemplate
			}
		}
	}

	return nodes, nil
}

// escapeAttrs escapes angle brackets in quoted attribute values so
// that inputs='{"n": "<star/>"}' is acceptable.
func escapeAttrs(doc string) string {
	if !strings.ContainsAny(doc, `"'`) {
		return doc
	}
	var (
		b     strings.Builder
		inTag bool
		quote byte
	)
	b.Grow(len(doc) + 16)
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		switch {
		case quote != 0:
			switch c {
			case quote:
				quote = 0
			case '<':
				b.WriteString("&lt;")
				continue
			case '>':
				b.WriteString("&gt;")
				continue
			}
		case inTag:
			switch c {
			case '"', '\'':
				quote = c
			case '>':
				inTag = false
			}
		case c == '<':
			if close := opaque(doc[i:]); close != "" {
				end := strings.Index(doc[i:], close)
				if end < 0 {
					b.WriteString(doc[i:])
					return b.String()
				}
				b.WriteString(doc[i : i+end+len(close)])
				i += end + len(close) - 1
				continue
			}
			inTag = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// opaque returns the terminator of a comment or CDATA section that
// starts s.
func opaque(s string) string {
	switch {
	case strings.HasPrefix(s, "<!--"):
		return "-->"
	case strings.HasPrefix(s, "<![CDATA["):
		return "]]>"
	}
	return ""
}

// parseContent reads the content of the given element through its
// end tag.
func parseContent(d *xml.Decoder, start xml.StartElement) ([]Node, error) {
	var acc []Node
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("unclosed <" + start.Name.Local + ">")
			}
			return nil, err
		}
		switch vv := tok.(type) {
		case xml.CharData:
			s := string(vv)
			if n := len(acc); 0 < n {
				if t, is := acc[n-1].(*Text); is {
					t.Text += s
					continue
				}
			}
			acc = append(acc, &Text{Text: s})
		case xml.StartElement:
			n, err := parseElement(d, vv)
			if err != nil {
				return nil, err
			}
			acc = append(acc, n)
		case xml.EndElement:
			return acc, nil
		}
	}
}

func attr(e xml.StartElement, name string) (string, bool) {
	for _, a := range e.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func attrOr(e xml.StartElement, name, def string) string {
	if v, have := attr(e, name); have {
		return v
	}
	return def
}

func parseElement(d *xml.Decoder, e xml.StartElement) (Node, error) {
	tag := strings.ToLower(e.Name.Local)

	content, err := parseContent(d, e)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "star":
		index := 1
		if s, have := attr(e, "index"); have {
			if index, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return nil, errors.New("bad star index " + strconv.Quote(s))
			}
		}
		return &Star{Index: index}, nil

	case "get":
		return &Get{Name: attrOr(e, "name", "")}, nil

	case "set":
		return &Set{Name: attrOr(e, "name", ""), Content: content}, nil

	case "think":
		return &Think{Content: content}, nil

	case "random":
		r := &Random{}
		for _, c := range content {
			if li, is := c.(*Unknown); is && li.Tag == "li" {
				r.Items = append(r.Items, li.Content)
			}
		}
		return r, nil

	case "condition":
		return parseCondition(e, content), nil

	case "srai":
		return &Srai{Content: content}, nil

	case "sr":
		return &Srai{Content: []Node{&Star{Index: 1}}}, nil

	case "uppercase":
		return &CaseTransform{Kind: Uppercase, Content: content}, nil

	case "lowercase":
		return &CaseTransform{Kind: Lowercase, Content: content}, nil

	case "formal":
		return &CaseTransform{Kind: Formal, Content: content}, nil

	case "action":
		a := &Action{
			Workflow:     attrOr(e, "workflow", ""),
			InputsSource: attrOr(e, "inputs", "{}"),
		}
		for _, c := range content {
			if u, is := c.(*Unknown); is && u.Tag == "inputs" {
				a.Inputs = u.Content
				if a.Inputs == nil {
					a.Inputs = []Node{}
				}
				continue
			}
			a.Content = append(a.Content, c)
		}
		return a, nil

	case "choice":
		ch := &Menu{ID: attrOr(e, "id", "choice")}
		for _, c := range content {
			if u, is := c.(*Unknown); is && u.Tag == "option" {
				ch.Options = append(ch.Options, u.option())
				continue
			}
			ch.Content = append(ch.Content, c)
		}
		return ch, nil

	case "confirm":
		return &Confirm{Content: content}, nil

	case "learn-action":
		return &Learn{
			Pattern:  attrOr(e, "pattern", ""),
			Workflow: attrOr(e, "workflow", ""),
		}, nil

	case "compute":
		return &Compute{Interpreter: attrOr(e, "interpreter", ""), Content: content}, nil
	}

	u := &Unknown{Tag: tag, Content: content}
	switch tag {
	case "li", "option":
		// Remember attributes for the enclosing element.
		u.attrs = e.Attr
	}
	return u, nil
}

func parseCondition(e xml.StartElement, content []Node) *Condition {
	c := &Condition{Content: content}
	c.Name, _ = attr(e, "name")
	c.Value, c.HasValue = attr(e, "value")
	for _, x := range content {
		li, is := x.(*Unknown)
		if !is || li.Tag != "li" {
			continue
		}
		item := &ConditionItem{Content: li.Content}
		item.Name, _ = li.attr("name")
		item.Value, item.HasValue = li.attr("value")
		c.Items = append(c.Items, item)
	}
	return c
}
