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
)

// Exchange is one turn of a conversation.
type Exchange struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Session is the mutable state of one conversation.
//
// Template evaluation reads and writes Vars.  Engine.Respond updates
// That and appends to History.  Nothing else changes a Session except
// explicit calls like SetTopic.
type Session struct {
	// Topic is the current topic (upper case) or AnyTopic.
	Topic string `json:"topic"`

	// That is the preceding response (upper case).
	That string `json:"that,omitempty"`

	Vars map[string]string `json:"vars,omitempty"`

	// History is append-only.
	History []Exchange `json:"history,omitempty"`

	// PendingLearn is a suggestion awaiting the user's decision.
	PendingLearn *LearnSuggestion `json:"pendingLearn,omitempty"`
}

// NewSession makes a Session with AnyTopic.
func NewSession() *Session {
	return &Session{
		Topic: AnyTopic,
		Vars:  make(map[string]string, 8),
	}
}

// Copy makes a deep copy of the Session.
func (s *Session) Copy() *Session {
	vars := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		vars[k] = v
	}
	history := make([]Exchange, len(s.History))
	copy(history, s.History)
	acc := &Session{
		Topic:   s.Topic,
		That:    s.That,
		Vars:    vars,
		History: history,
	}
	if s.PendingLearn != nil {
		l := *s.PendingLearn
		acc.PendingLearn = &l
	}
	return acc
}

// SetTopic sets the topic.  An empty topic is AnyTopic.
func (s *Session) SetTopic(topic string) {
	s.Topic = CanonicalTopic(topic)
}

// Get returns a variable's value or the empty string.
func (s *Session) Get(name string) string {
	return s.Vars[name]
}

// Lookup returns a variable's value and whether it's set.
func (s *Session) Lookup(name string) (string, bool) {
	v, have := s.Vars[name]
	return v, have
}

// Set sets a variable.
func (s *Session) Set(name, value string) {
	if s.Vars == nil {
		s.Vars = make(map[string]string, 8)
	}
	s.Vars[name] = value
}

// Record notes an exchange: the output becomes the preceding
// response, and the exchange is appended to the History.
func (s *Session) Record(input, output string) {
	s.That = strings.ToUpper(output)
	s.History = append(s.History, Exchange{Input: input, Output: output})
}
