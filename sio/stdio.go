/* Copyright 2019 Comcast Cable Communications Management, LLC
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

package sio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/crew"

	"go.uber.org/zap"
)

// Stdio is a fairly simple Couplings that uses stdin for input and
// stdout for output.  Every line is input to one conversation.
//
// A few lines are commands rather than input:
//
//   quit               ends the session
//   # ...              is a comment
//   /topic NAME        sets the topic ("/topic" alone clears it)
//   /set NAME VALUE    sets a variable
//   /get NAME          shows a variable
type Stdio struct {
	// In is coupled to conversation input.
	In io.Reader

	// Out is coupled to conversation output.
	Out io.Writer

	// Conversation is the id of the conversation.
	Conversation string

	// Prompt, if not empty, is written before each line is read.
	Prompt string

	// JSON writes each Result as a line of JSON instead of
	// text.
	JSON bool

	// ShellExpand enables input to include inline shell commands
	// delimited by '<<' and '>>'.  Use at your own risk, of
	// course!
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "bot", "action").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	Logger *zap.Logger
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio() *Stdio {
	return &Stdio{
		In:           os.Stdin,
		Out:          os.Stdout,
		Conversation: "stdio",
		Logger:       zap.NewNop(),
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop does nothing.
func (s *Stdio) Stop(ctx context.Context) error {
	return nil
}

func (s *Stdio) printf(tag, format string, args ...interface{}) {
	if s.PadTags {
		tag = fmt.Sprintf("% 10s", tag)
	}
	if s.Tags {
		format = tag + " " + format
	}
	if s.Timestamps {
		ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
		format = ts + " " + format
	}
	fmt.Fprintf(s.Out, format, args...)
}

// Run reads lines until EOF, "quit", or the context is done.
func (s *Stdio) Run(ctx context.Context, c *crew.Crew) error {
	in := bufio.NewScanner(s.In)
	for {
		if s.Prompt != "" {
			fmt.Fprint(s.Out, s.Prompt)
		}
		if !in.Scan() {
			return in.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := in.Text()
		if s.EchoInput {
			s.printf("input", "%s\n", line)
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "quit":
			return nil
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "/"):
			s.command(c, line)
			continue
		}

		if s.ShellExpand {
			var err error
			if line, err = ShellExpand(ctx, line); err != nil {
				s.printf("error", "%s\n", err)
				continue
			}
		}

		r, err := c.Respond(ctx, s.Conversation, line)
		if err != nil {
			s.Logger.Warn("respond", zap.Error(err))
			s.printf("error", "%s\n", err)
		}
		s.write(r)
	}
}

func (s *Stdio) command(c *crew.Crew, line string) {
	var (
		parts = strings.SplitN(line, " ", 3)
		cmd   = parts[0]
		arg   = func(i int) string {
			if i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
			return ""
		}
	)
	c.With(s.Conversation, func(conv *crew.Conversation) {
		e := conv.Bot.Engine
		switch cmd {
		case "/topic":
			topic := strings.TrimSpace(strings.TrimPrefix(line, cmd))
			e.SetTopic(topic)
			s.printf("topic", "Topic set to: %s\n", e.Session().Topic)
		case "/set":
			e.SetVariable(arg(1), arg(2))
		case "/get":
			s.printf("var", "%s\n", e.Variable(arg(1)))
		default:
			s.printf("error", "unknown command %s\n", cmd)
		}
	})
}

func (s *Stdio) write(r *core.Result) {
	if r == nil {
		return
	}
	if s.JSON {
		s.printf("result", "%s\n", JS(r))
		return
	}

	s.printf("bot", "%s\n", r.Text)

	switch r.Action {
	case core.ActionWorkflow:
		s.printf("action", "[ACTION] Trigger workflow: %s\n", r.Workflow)
		s.printf("action", "[INPUTS] %s\n", JSON(r.Inputs))
	case core.ActionConfirm:
		s.printf("action", "[CONFIRM] %s\n", r.Confirm)
	case core.ActionLearn:
		if r.Learn != nil {
			s.printf("action", "[LEARN] %s\n", r.Learn.Pattern)
		}
	}

	if 0 < len(r.Choices) {
		s.printf("choices", "Choices:\n")
		for i, c := range r.Choices {
			s.printf("choices", "  [%d] %s\n", i+1, c.Label)
		}
	}
}
