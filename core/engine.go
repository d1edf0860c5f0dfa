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
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds recursive evaluation.
var DefaultMaxDepth = 10

// Engine responds to input for one conversation.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	// Store is the knowledge.  It may be shared.
	Store *Store

	// Interpreters are available to compute tags.
	Interpreters Interpreters

	// MaxDepth is the maximum depth of recursive evaluation.  A
	// top-level Respond is at depth zero.
	MaxDepth int

	Matcher *Matcher

	session *Session
	logger  *zap.Logger
	rand    *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSession uses the given Session instead of a new one.
func WithSession(s *Session) Option {
	return func(e *Engine) {
		e.session = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.MaxDepth = n
	}
}

func WithInterpreters(is Interpreters) Option {
	return func(e *Engine) {
		e.Interpreters = is
	}
}

// WithRand sets the source of randomness for random tags.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

// NewEngine makes an Engine for the given Store.
func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{
		Store:        store,
		Interpreters: DefaultInterpreters,
		MaxDepth:     DefaultMaxDepth,
		Matcher:      DefaultMatcher,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Store == nil {
		e.Store = NewStore()
	}
	if e.session == nil {
		e.session = NewSession()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Session returns the Engine's Session.
func (e *Engine) Session() *Session {
	return e.session
}

// SetTopic sets the session's topic.
func (e *Engine) SetTopic(topic string) {
	e.session.SetTopic(topic)
}

// SetVariable sets a session variable.
func (e *Engine) SetVariable(name, value string) {
	e.session.Set(name, value)
}

// Variable returns a session variable or the empty string.
func (e *Engine) Variable(name string) string {
	return e.session.Get(name)
}

// AddCategory adds a learned Category to the Store.  The template is
// template content (no <template> element needed).
func (e *Engine) AddCategory(pattern, template, topic string) *Category {
	c := e.Store.AddCategory(pattern, template, topic)
	e.logger.Info("learned category",
		zap.String("pattern", c.Pattern),
		zap.String("topic", c.Topic))
	return c
}

func (e *Engine) intn(n int) int {
	return e.rand.Intn(n)
}

// Respond finds the best Category for the input, evaluates its
// Template, and records the exchange.
//
// Respond returns nil when no Category matches.  That's not an
// error; the caller should fall back to something else.
func (e *Engine) Respond(ctx context.Context, input string) *Result {
	return e.respond(ctx, input, 0)
}

func (e *Engine) respond(ctx context.Context, input string, depth int) *Result {
	if e.MaxDepth < depth {
		e.logger.Debug("no match", zap.Error(&RecursionLimit{Input: input, Depth: e.MaxDepth}))
		return nil
	}
	if err := ctx.Err(); err != nil {
		e.logger.Debug("no match", zap.Error(err))
		return nil
	}

	in := NewInput(input)
	m := e.Matcher.Match(in, e.Store.Categories(), e.session)
	if !m.Matched {
		e.logger.Debug("no match", zap.String("input", in.Normalized), zap.Int("depth", depth))
		return nil
	}

	e.logger.Debug("matched",
		zap.String("input", in.Normalized),
		zap.String("pattern", m.Category.Pattern),
		zap.Int("score", m.Score),
		zap.Strings("captures", m.Captures),
		zap.Int("depth", depth))

	r := e.Evaluate(ctx, m.Category.Template, m.Captures, depth)
	r.Pattern = m.Category.Pattern
	r.Captures = m.Captures

	e.session.Record(input, r.Text)

	return r
}

// Evaluate evaluates a Template with the given captures at the given
// recursion depth.  The Session's variables may change, but no
// exchange is recorded.
func (e *Engine) Evaluate(ctx context.Context, t *Template, stars []string, depth int) *Result {
	ev := &evaluation{
		ctx:    ctx,
		engine: e,
		stars:  stars,
		result: NewResult(),
		depth:  depth,
	}
	if t == nil {
		return ev.result
	}
	if t.Err != nil {
		e.logger.Warn("template", zap.Error(t.Err))
	}
	ev.result.Text = ev.content(t.Nodes)
	return ev.result
}
