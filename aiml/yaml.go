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
	"fmt"
	"strings"

	"github.com/Comcast/parley/core"

	"gopkg.in/yaml.v2"
)

// Category is the YAML representation of a core.Category.
type Category struct {
	Pattern  string `yaml:"pattern"`
	Template string `yaml:"template"`
	That     string `yaml:"that,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
	Doc      string `yaml:"doc,omitempty"`
}

// File is the YAML representation of a list of categories.
type File struct {
	// Topic is the default topic for the Categories.
	Topic string `yaml:"topic,omitempty"`

	Categories []*Category `yaml:"categories"`
}

// ReadYAML parses a YAML category file.  The source is used in error
// messages.
func ReadYAML(bs []byte, source string) ([]*core.Category, error) {
	var f File
	if err := yaml.UnmarshalStrict(bs, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	acc := make([]*core.Category, 0, len(f.Categories))
	for i, c := range f.Categories {
		if c == nil || strings.TrimSpace(c.Pattern) == "" {
			return nil, &LoadError{Source: source, Index: i, Msg: "no pattern"}
		}
		topic := c.Topic
		if topic == "" {
			topic = f.Topic
		}
		cat := core.NewCategory(c.Pattern, c.Template, c.That, topic)
		cat.Doc = strings.TrimSpace(c.Doc)
		acc = append(acc, cat)
	}
	return acc, nil
}

// AsYAML renders Categories as a YAML category file.
func AsYAML(cs []*core.Category) ([]byte, error) {
	f := File{
		Categories: make([]*Category, len(cs)),
	}
	for i, c := range cs {
		y := &Category{
			Pattern: c.Pattern,
			That:    c.That,
			Doc:     c.Doc,
		}
		if c.Template != nil {
			y.Template = c.Template.Source
		}
		if c.Topic != core.AnyTopic {
			y.Topic = c.Topic
		}
		f.Categories[i] = y
	}
	return yaml.Marshal(&f)
}
