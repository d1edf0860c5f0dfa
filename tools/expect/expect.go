/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package expect is a tool for testing category sets.
//
// You construct a Session, which has inputs and expected outputs.
// Then run the session to see if the expected outputs actually
// appeared.
//
// A Session can run in-process against anything that can Respond
// (like a crew.Crew) or against a subprocess that reads input lines
// and writes each Result as a line of JSON (like "parley chat
// --json").
//
// See ../../cmd/parley for command-line use.
package expect

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/match"

	"github.com/google/go-cmp/cmp"
	"github.com/jsccast/yaml"
	"go.uber.org/zap"
)

// Output describes a Result that's expected.  Empty
// fields aren't checked.
type Output struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Text must equal the Result's text.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Pattern is a wildcard pattern the Result's text must
	// match.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Regexp must match the Result's text.
	Regexp string `json:"regexp,omitempty" yaml:"regexp,omitempty"`

	Action   core.ActionKind `json:"action,omitempty" yaml:"action,omitempty"`
	Workflow string          `json:"workflow,omitempty" yaml:"workflow,omitempty"`

	// Inputs must be a subset of the Result's inputs.
	Inputs map[string]interface{} `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Choices are the expected menu labels.
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Inverted means that a matching Result isn't desired!
	Inverted bool `json:"inverted,omitempty" yaml:"inverted,omitempty"`
}

// IO is one input and the expected output.
type IO struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// WaitBefore is the time to wait before sending the input.
	WaitBefore time.Duration `json:"waitBefore,omitempty" yaml:"waitBefore,omitempty"`

	Input string `json:"input" yaml:"input"`

	Output Output `json:"output" yaml:"output"`

	// Timeout is the optional timeout for this IO.
	// Session.DefaultTimeout is the default value.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Session is mostly a sequence of IOs.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Conversation is the conversation id for in-process runs.
	Conversation string `json:"conversation,omitempty" yaml:"conversation,omitempty"`

	// IOs is sequence of IOs that this session will run.
	IOs []IO `json:"ios" yaml:"ios"`

	// DefaultTimeout is the default timeout for each IO.
	DefaultTimeout time.Duration `json:"defaultTimeout,omitempty" yaml:"defaultTimeout,omitempty"`

	Logger *zap.Logger `json:"-" yaml:"-"`
}

// Parse reads a Session (YAML or JSON).
func Parse(bs []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Responder is anything that can carry on conversations.
type Responder interface {
	Respond(ctx context.Context, conversation, input string) (*core.Result, error)
}

// Failure reports the first IO that didn't get what it expected.
type Failure struct {
	Index   int
	Input   string
	Problem string
	Result  *core.Result
}

func (f *Failure) Error() string {
	return fmt.Sprintf("IO %d (%q): %s", f.Index, f.Input, f.Problem)
}

var Timeout = errors.New("timeout")

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Run processes all the IOs in the Session against the Responder.
func (s *Session) Run(ctx context.Context, r Responder) error {
	id := s.Conversation
	if id == "" {
		id = "expect"
	}
	for i, iop := range s.IOs {
		if err := pause(ctx, iop.WaitBefore); err != nil {
			return err
		}
		res, err := r.Respond(ctx, id, iop.Input)
		if err != nil {
			return fmt.Errorf("IO %d (%q): %w", i, iop.Input, err)
		}
		if err := s.check(i, &iop, res); err != nil {
			return err
		}
	}
	return nil
}

// RunCommand processes all the IOs in the Session against a
// subprocess.
//
// The subprocess is given by the args. The first arg is the
// executable.  Example args:
//
//   "parley", "chat", "--json", "--patterns", "bot.aiml"
//
// Output lines that aren't JSON are ignored.
func (s *Session) RunCommand(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("need a command (and optional args)")
	}
	log := s.logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	defer stdin.Close()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	waited := false
	defer func() {
		if !waited {
			cancel()
			cmd.Wait()
		}
	}()

	results := make(chan *core.Result)
	readErr := make(chan error, 1)
	go func() {
		defer close(results)
		in := bufio.NewScanner(stdout)
		for in.Scan() {
			line := in.Bytes()
			log.Debug("stdout", zap.ByteString("line", line))
			var r core.Result
			if err := json.Unmarshal(line, &r); err != nil {
				log.Debug("ignoring", zap.ByteString("line", line))
				continue
			}
			select {
			case results <- &r:
			case <-ctx.Done():
				return
			}
		}
		if err := in.Err(); err != nil {
			readErr <- err
		}
	}()

	for i, iop := range s.IOs {
		if err := pause(ctx, iop.WaitBefore); err != nil {
			return err
		}
		log.Debug("stdin", zap.String("line", iop.Input))
		if _, err := io.WriteString(stdin, iop.Input+"\n"); err != nil {
			return err
		}

		timeout := iop.Timeout
		if timeout == 0 {
			timeout = s.DefaultTimeout
		}
		var expired <-chan time.Time
		if 0 < timeout {
			expired = time.After(timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			return &Failure{Index: i, Input: iop.Input, Problem: Timeout.Error()}
		case r, ok := <-results:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
				}
				return &Failure{Index: i, Input: iop.Input, Problem: "no more output"}
			}
			if err := s.check(i, &iop, r); err != nil {
				return err
			}
		}
	}

	if err := stdin.Close(); err != nil {
		log.Warn("stdin.Close()", zap.Error(err))
	}
	for range results {
	}
	waited = true
	return cmd.Wait()
}

func (s *Session) check(i int, iop *IO, r *core.Result) error {
	problem := iop.Output.Check(r)
	if iop.Output.Inverted {
		if problem == "" {
			problem = "undesired output " + r.Text
		} else {
			problem = ""
		}
	}
	if problem != "" {
		return &Failure{Index: i, Input: iop.Input, Problem: problem, Result: r}
	}
	s.logger().Debug("happy", zap.Int("io", i), zap.String("input", iop.Input))
	return nil
}

// Check returns a description of the first way the Result doesn't
// meet the expectations.  Returns the empty string if it does.
func (o *Output) Check(r *core.Result) string {
	if r == nil {
		return "no result"
	}
	if o.Text != "" && o.Text != r.Text {
		return fmt.Sprintf("text %q != %q", r.Text, o.Text)
	}
	if o.Pattern != "" {
		if _, _, ok := match.Match(core.Normalize(o.Pattern), core.Normalize(r.Text)); !ok {
			return fmt.Sprintf("text %q doesn't match %q", r.Text, o.Pattern)
		}
	}
	if o.Regexp != "" {
		re, err := regexp.Compile(o.Regexp)
		if err != nil {
			return err.Error()
		}
		if !re.MatchString(r.Text) {
			return fmt.Sprintf("text %q doesn't match /%s/", r.Text, o.Regexp)
		}
	}
	if o.Action != "" && o.Action != r.Action {
		return fmt.Sprintf("action %q != %q", r.Action, o.Action)
	}
	if o.Workflow != "" && o.Workflow != r.Workflow {
		return fmt.Sprintf("workflow %q != %q", r.Workflow, o.Workflow)
	}
	for k, want := range o.Inputs {
		got, have := r.Inputs[k]
		if !have {
			return "missing input " + k
		}
		if diff := cmp.Diff(canonical(want), canonical(got)); diff != "" {
			return fmt.Sprintf("input %s (-want +got):\n%s", k, diff)
		}
	}
	if o.Choices != nil {
		labels := make([]string, len(r.Choices))
		for i, c := range r.Choices {
			labels[i] = c.Label
		}
		if diff := cmp.Diff(o.Choices, labels); diff != "" {
			return fmt.Sprintf("choices (-want +got):\n%s", diff)
		}
	}
	return ""
}

// canonical renders a value through JSON so that 2 and 2.0 are the
// same.
func canonical(x interface{}) interface{} {
	js, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	var y interface{}
	if err := json.Unmarshal(js, &y); err != nil {
		return string(js)
	}
	return y
}

// String renders the Session as YAML.
func (s *Session) String() string {
	bs, err := yaml.Marshal(s)
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%#v", s))
	}
	return string(bs)
}
