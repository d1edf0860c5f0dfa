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

package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/util/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	_, err := NewRequest("c", "hello", core.TextResult("hi"))
	assert.ErrorIs(t, err, NotWorkflow)

	_, err = NewRequest("c", "hello", nil)
	assert.ErrorIs(t, err, NotWorkflow)

	res := core.NewResult()
	res.Action = core.ActionWorkflow
	res.Workflow = "create_users"
	r, err := NewRequest("c", "create 10 users", res)
	require.NoError(t, err)
	assert.NotEmpty(t, r.Id)
	assert.Equal(t, "create_users", r.Workflow)
	assert.Equal(t, map[string]interface{}{}, r.Inputs)
	assert.False(t, r.At.IsZero())

	other, err := NewRequest("c", "create 10 users", res)
	require.NoError(t, err)
	assert.NotEqual(t, r.Id, other.Id)
}

func TestDispatchers(t *testing.T) {
	ctx := context.Background()
	logger, logs := testutil.Logger()

	var (
		rec   = &Recorder{}
		boom  = errors.New("boom")
		calls = 0
		fail  = Func(func(ctx context.Context, r *Request) error {
			calls++
			return boom
		})
		r = &Request{Id: "1", Workflow: "w"}
	)

	require.NoError(t, Multi{NewLog(logger), rec}.Dispatch(ctx, r))
	assert.Equal(t, []*Request{r}, rec.Requests())
	assert.Equal(t, 1, logs.FilterMessage("workflow requested").Len())

	err := Multi{fail, rec}.Dispatch(ctx, r)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Len(t, rec.Requests(), 1)
}
