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

// Package dispatch hands workflow requests to something that can run
// them.
//
// The dialogue engine never runs a workflow.  It only reports that
// one was requested.  A Dispatcher is how an application acts on that
// report.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Comcast/parley/core"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request asks for a workflow to run.
type Request struct {
	Id           string                 `json:"id"`
	Conversation string                 `json:"conversation,omitempty"`
	Workflow     string                 `json:"workflow"`
	Inputs       map[string]interface{} `json:"inputs"`

	// Input is the user's text that led to the request.
	Input string `json:"input,omitempty"`

	At time.Time `json:"at"`
}

// NotWorkflow is returned by NewRequest for a Result that didn't
// request a workflow.
var NotWorkflow = errors.New("result has no workflow action")

// NewRequest makes a Request from a Result with ActionWorkflow.
func NewRequest(conversation, input string, r *core.Result) (*Request, error) {
	if r == nil || r.Action != core.ActionWorkflow {
		return nil, NotWorkflow
	}
	inputs := r.Inputs
	if inputs == nil {
		inputs = make(map[string]interface{})
	}
	return &Request{
		Id:           uuid.New().String(),
		Conversation: conversation,
		Workflow:     r.Workflow,
		Inputs:       inputs,
		Input:        input,
		At:           time.Now().UTC(),
	}, nil
}

// Dispatcher sends a Request on its way.
type Dispatcher interface {
	Dispatch(ctx context.Context, r *Request) error
}

// Func is a Dispatcher.
type Func func(ctx context.Context, r *Request) error

func (f Func) Dispatch(ctx context.Context, r *Request) error {
	return f(ctx, r)
}

// Log just logs Requests.
type Log struct {
	Logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		Logger: logger,
	}
}

func (d *Log) Dispatch(ctx context.Context, r *Request) error {
	d.Logger.Info("workflow requested",
		zap.String("id", r.Id),
		zap.String("conversation", r.Conversation),
		zap.String("workflow", r.Workflow),
		zap.Any("inputs", r.Inputs))
	return nil
}

// Multi dispatches to each Dispatcher in order and stops at the first
// error.
type Multi []Dispatcher

func (ds Multi) Dispatch(ctx context.Context, r *Request) error {
	for _, d := range ds {
		if err := d.Dispatch(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Recorder remembers Requests.
type Recorder struct {
	sync.Mutex

	requests []*Request
}

func (d *Recorder) Dispatch(ctx context.Context, r *Request) error {
	d.Lock()
	d.requests = append(d.requests, r)
	d.Unlock()
	return nil
}

// Requests returns what's been dispatched so far.
func (d *Recorder) Requests() []*Request {
	d.Lock()
	acc := make([]*Request, len(d.requests))
	copy(acc, d.requests)
	d.Unlock()
	return acc
}
