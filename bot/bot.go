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

// Package bot puts an Engine together with what an application
// needs around it: a fallback for unmatched input, confirmation of
// learned patterns, and dispatching of workflow requests.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/dispatch"
	"github.com/Comcast/parley/fallback"

	"go.uber.org/zap"
)

// DefaultAffirmations accept a pending learn suggestion.
var DefaultAffirmations = []string{"yes", "y", "sure", "ok", "learn"}

// Bot is one conversation.
//
// A Bot is not safe for concurrent use.
type Bot struct {
	// Id identifies the conversation in dispatched Requests.
	Id string

	Engine     *core.Engine
	Fallback   fallback.Responder
	Dispatcher dispatch.Dispatcher

	// Affirmations accept a pending learn suggestion.  Anything
	// else declines it.
	Affirmations []string

	logger *zap.Logger
}

// New makes a Bot.  The fallback defaults to fallback.NewIntents().
// The dispatcher can be nil.
func New(id string, e *core.Engine, fb fallback.Responder, d dispatch.Dispatcher, logger *zap.Logger) *Bot {
	if fb == nil {
		fb = fallback.NewIntents()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		Id:           id,
		Engine:       e,
		Fallback:     fb,
		Dispatcher:   d,
		Affirmations: DefaultAffirmations,
		logger:       logger.With(zap.String("conversation", id)),
	}
}

// Session returns the Engine's Session.
func (b *Bot) Session() *core.Session {
	return b.Engine.Session()
}

func (b *Bot) affirmed(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, a := range b.Affirmations {
		if input == a {
			return true
		}
	}
	return false
}

// LearnedTemplate is the template for a Category learned from a
// suggestion.
func LearnedTemplate(l *core.LearnSuggestion) string {
	text := "Executing " + l.Pattern + "..."
	if l.Workflow == "" {
		return text
	}
	return `<action workflow="` + escapeAttr(l.Workflow) + `">` + text + `</action>`
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}

// Respond answers the input.
//
// If the previous response suggested learning a pattern, this input
// accepts or declines that suggestion.  Otherwise the Engine gets the
// first try and the Fallback gets the rest.
//
// The returned error, if any, comes from dispatching a workflow.  The
// Result is still returned in that case.
func (b *Bot) Respond(ctx context.Context, input string) (*core.Result, error) {
	s := b.Engine.Session()

	if l := s.PendingLearn; l != nil {
		s.PendingLearn = nil
		var r *core.Result
		if b.affirmed(input) {
			b.Engine.AddCategory(l.Pattern, LearnedTemplate(l), "")
			r = core.TextResult("Learned! I'll remember `" + l.Pattern + "` for next time.")
		} else {
			r = core.TextResult("No problem, I won't learn that pattern.")
		}
		s.Record(input, r.Text)
		return r, nil
	}

	r := b.Engine.Respond(ctx, input)
	if r == nil {
		b.logger.Debug("fallback", zap.String("input", input))
		if r = b.Fallback.Respond(ctx, input, s); r == nil {
			r = core.TextResult("")
		}
		s.Record(input, r.Text)
	}

	if r.Action == core.ActionLearn && r.Learn != nil {
		l := *r.Learn
		s.PendingLearn = &l
	}

	if r.Action == core.ActionWorkflow && b.Dispatcher != nil {
		req, err := dispatch.NewRequest(b.Id, input, r)
		if err != nil {
			return r, err
		}
		if err = b.Dispatcher.Dispatch(ctx, req); err != nil {
			b.logger.Error("dispatch", zap.String("workflow", r.Workflow), zap.Error(err))
			return r, fmt.Errorf("dispatching %s: %w", r.Workflow, err)
		}
	}

	return r, nil
}
