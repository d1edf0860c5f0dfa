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

package fallback

import (
	"context"
	"testing"

	"github.com/Comcast/parley/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	r := NewIntents()
	tests := []struct {
		input string
		want  string
	}{
		{"Please create a user", "create"},
		{"tear down staging", "delete"},
		{"show me the repos", "list"},
		{"edit the config", "update"},
		{"mirror the repo", "sync"},
		{"Ship it!", "deploy"},
		{"hello there", ""},
	}
	for _, tt := range tests {
		in := r.Classify(tt.input)
		if tt.want == "" {
			assert.Nil(t, in, tt.input)
			continue
		}
		require.NotNil(t, in, tt.input)
		assert.Equal(t, tt.want, in.Name, tt.input)
	}
}

func TestSuggest(t *testing.T) {
	r := NewIntents()
	tests := []struct {
		input string
		want  string
	}{
		{"create user alice", "CREATE *"},
		{"create 10 new users", "CREATE * NEW *"},
		{"deploy api to staging", "DEPLOY API TO *"},
		{"remove the old repos now", "REMOVE THE OLD * NOW"},
	}
	for _, tt := range tests {
		in := r.Classify(tt.input)
		require.NotNil(t, in, tt.input)
		assert.Equal(t, tt.want, r.Suggest(tt.input, in), tt.input)
	}
}

func TestIntentsRespond(t *testing.T) {
	r := NewIntents()
	s := core.NewSession()
	ctx := context.Background()

	res := r.Respond(ctx, "create user alice", s)
	require.NotNil(t, res)
	assert.Equal(t, core.ActionLearn, res.Action)
	require.NotNil(t, res.Learn)
	assert.Equal(t, "CREATE *", res.Learn.Pattern)
	assert.Equal(t, "create", res.Learn.Intent)
	assert.Contains(t, res.Text, "`CREATE *`")

	res = r.Respond(ctx, "hello", s)
	require.NotNil(t, res)
	assert.Equal(t, DefaultHelp, res.Text)
	assert.Equal(t, core.ActionNone, res.Action)

	r.Else = nil
	assert.Nil(t, r.Respond(ctx, "hello", s))
}

func TestChain(t *testing.T) {
	var (
		ctx     = context.Background()
		decline = Func(func(ctx context.Context, input string, s *core.Session) *core.Result {
			return nil
		})
		echo = Func(func(ctx context.Context, input string, s *core.Session) *core.Result {
			return core.TextResult(input)
		})
	)
	assert.Equal(t, "hi", Chain{decline, echo, &Static{Text: "no"}}.Respond(ctx, "hi", nil).Text)
	assert.Nil(t, Chain{decline}.Respond(ctx, "hi", nil))
}
