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
	"strings"
	"sync"

	"github.com/Comcast/parley/match"
)

// AnyTopic is the topic that matches every session topic.
const AnyTopic = "*"

// CanonicalTopic upper-cases a topic.  An empty topic is AnyTopic.
func CanonicalTopic(topic string) string {
	topic = strings.ToUpper(strings.TrimSpace(topic))
	if topic == "" {
		return AnyTopic
	}
	return topic
}

// Category is a pattern-to-template mapping.
//
// A Category should not be modified after it's added to a Store.
type Category struct {
	// Pattern is the canonical wildcard pattern.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Template is evaluated when the Pattern wins.
	Template *Template `json:"template" yaml:"-"`

	// That, if not empty, requires the session's preceding
	// response to match (after normalization).
	That string `json:"that,omitempty" yaml:"that,omitempty"`

	// Topic is AnyTopic or a topic the session must have.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	// Doc is optional documentation (markdown).
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Learned is true for Categories added while conversing.
	Learned bool `json:"learned,omitempty" yaml:"learned,omitempty"`

	compiled *match.Pattern
	that     string
}

// NewCategory makes a Category.  The template source is parsed
// immediately; see ParseTemplate.
func NewCategory(pattern, template, that, topic string) *Category {
	return newCategory(pattern, ParseTemplate(template), that, topic)
}

func newCategory(pattern string, t *Template, that, topic string) *Category {
	p := match.Parse(Normalize(pattern))
	return &Category{
		Pattern:  p.Source,
		Template: t,
		That:     strings.TrimSpace(that),
		Topic:    CanonicalTopic(topic),
		compiled: p,
		that:     Normalize(that),
	}
}

// Compiled returns the parsed pattern.
func (c *Category) Compiled() *match.Pattern {
	if c.compiled == nil {
		c.compiled = match.Parse(Normalize(c.Pattern))
		c.that = Normalize(c.That)
	}
	return c.compiled
}

// Eligible reports whether the Category's topic and that filters
// admit the given session.
func (c *Category) Eligible(s *Session) bool {
	c.Compiled()
	if c.Topic != "" && c.Topic != AnyTopic && c.Topic != CanonicalTopic(s.Topic) {
		return false
	}
	if c.that != "" && c.that != Normalize(s.That) {
		return false
	}
	return true
}

// Store is an ordered collection of Categories.
//
// Order matters: when two Categories match with the same score, the
// one added first wins.
//
// A Store can be shared by many Engines.  Categories can be added
// concurrently with matching.
type Store struct {
	sync.RWMutex

	categories []*Category
}

// NewStore makes a Store with the given Categories (in order).
func NewStore(cs ...*Category) *Store {
	s := &Store{
		categories: make([]*Category, 0, len(cs)),
	}
	s.Add(cs...)
	return s
}

// Add appends the Categories.
func (s *Store) Add(cs ...*Category) {
	for _, c := range cs {
		c.Compiled()
	}
	s.Lock()
	s.categories = append(s.categories, cs...)
	s.Unlock()
}

// AddCategory appends a learned Category with no that filter.
func (s *Store) AddCategory(pattern, template, topic string) *Category {
	c := NewCategory(pattern, template, "", topic)
	c.Learned = true
	s.Add(c)
	return c
}

// Categories returns a snapshot of the Categories in order.
func (s *Store) Categories() []*Category {
	s.RLock()
	acc := make([]*Category, len(s.categories))
	copy(acc, s.categories)
	s.RUnlock()
	return acc
}

// Len returns the number of Categories.
func (s *Store) Len() int {
	s.RLock()
	n := len(s.categories)
	s.RUnlock()
	return n
}

// Learned returns the Categories added while conversing.
func (s *Store) Learned() []*Category {
	s.RLock()
	defer s.RUnlock()
	var acc []*Category
	for _, c := range s.categories {
		if c.Learned {
			acc = append(acc, c)
		}
	}
	return acc
}
