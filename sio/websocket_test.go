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

package sio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/util/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, f *Frame) *Reply {
	require.NoError(t, conn.WriteJSON(f))
	var r Reply
	require.NoError(t, conn.ReadJSON(&r))
	return &r
}

func TestWebSocket(t *testing.T) {
	c := testCrew()
	ws := NewWebSocket("", nil)
	srv := httptest.NewServer(ws.Handler(c))
	defer srv.Close()

	conn := dial(t, srv, "?id=homer")

	var hello Reply
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "homer", hello.Conversation)
	assert.Nil(t, hello.Result)

	r := exchange(t, conn, &Frame{Text: "hello"})
	assert.Equal(t, "homer", r.Conversation)
	require.NotNil(t, r.Result)
	assert.Equal(t, "Hi there!", r.Result.Text)
	assert.Empty(t, r.Error)

	r = exchange(t, conn, &Frame{Vars: map[string]string{"name": "Homer"}})
	assert.Nil(t, r.Result)

	r = exchange(t, conn, &Frame{Text: "who am i"})
	assert.Equal(t, "You are Homer.", r.Result.Text)

	ops := "ops"
	r = exchange(t, conn, &Frame{Text: "status", Topic: &ops})
	assert.Equal(t, "All quiet.", r.Result.Text)

	r = exchange(t, conn, &Frame{Text: "create 2 users"})
	assert.Equal(t, core.ActionWorkflow, r.Result.Action)
	assert.Equal(t, map[string]interface{}{"count": "2"}, r.Result.Inputs)

	// The conversation outlives the connection.
	sess := c.Copy()["homer"]
	require.NotNil(t, sess)
	assert.Equal(t, "OPS", sess.Topic)
	assert.Equal(t, "Homer", sess.Get("name"))
}

func TestWebSocketNewConversation(t *testing.T) {
	c := testCrew()
	srv := httptest.NewServer(NewWebSocket("", nil).Handler(c))
	defer srv.Close()

	var a, b Reply
	require.NoError(t, dial(t, srv, "").ReadJSON(&a))
	require.NoError(t, dial(t, srv, "").ReadJSON(&b))
	assert.NotEmpty(t, a.Conversation)
	assert.NotEqual(t, a.Conversation, b.Conversation)
	assert.ElementsMatch(t, []string{a.Conversation, b.Conversation}, c.Ids())
}

func TestWebSocketHealth(t *testing.T) {
	srv := httptest.NewServer(NewWebSocket("", nil).Handler(testCrew()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Not a websocket request.
	resp, err = http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocketRun(t *testing.T) {
	ws := NewWebSocket("127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ws.Run(ctx, testCrew())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run didn't return")
	}
}

func TestWebSocketReadLimit(t *testing.T) {
	ws := NewWebSocket("", nil)
	ws.ReadLimit = 64
	srv := httptest.NewServer(ws.Handler(testCrew()))
	defer srv.Close()

	conn := dial(t, srv, "")
	var hello Reply
	require.NoError(t, conn.ReadJSON(&hello))

	require.NoError(t, conn.WriteJSON(&Frame{Text: strings.Repeat("x ", 100)}))
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r Reply
	err := conn.ReadJSON(&r)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), err.Error())
}

func TestWebSocketLogsFrames(t *testing.T) {
	logger, logs := testutil.Logger()
	srv := httptest.NewServer(NewWebSocket("", logger).Handler(testCrew()))
	defer srv.Close()

	conn := dial(t, srv, "?id=marge")
	var hello Reply
	require.NoError(t, conn.ReadJSON(&hello))
	exchange(t, conn, &Frame{Text: strings.Repeat("hello ", 20)})

	frames := logs.FilterMessage("frame").All()
	require.Len(t, frames, 1)
	logged := frames[0].ContextMap()["frame"].(string)
	assert.Len(t, logged, 73)
	assert.True(t, strings.HasSuffix(logged, "..."))
	assert.Equal(t, "marge", frames[0].ContextMap()["conversation"])
}
