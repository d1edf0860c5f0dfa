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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/crew"
	"github.com/Comcast/parley/fallback"
	"github.com/Comcast/parley/util/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCrew() *crew.Crew {
	store := core.NewStore(
		core.NewCategory("HELLO", "Hi there!", "", ""),
		core.NewCategory("WHO AM I", `You are <get name="name"/>.`, "", ""),
		core.NewCategory("CREATE * USERS", `<action workflow="create_users" inputs='{"count": "<star/>"}'/>OK`, "", ""),
		core.NewCategory("PICK", `Pick one: <choice>Red | Blue</choice>`, "", ""),
		core.NewCategory("DEPLOY", `<confirm>Really deploy?</confirm>Checking.`, "", ""),
		core.NewCategory("STATUS", "All quiet.", "", "ops"))
	return crew.NewCrew("test", store, &crew.Config{
		Fallback: &fallback.Static{Text: "Eh?"},
	})
}

func runStdio(t *testing.T, s *Stdio, input string) string {
	var out bytes.Buffer
	s.In = strings.NewReader(input)
	s.Out = &out
	require.NoError(t, s.Run(context.Background(), testCrew()))
	return out.String()
}

func TestStdioText(t *testing.T) {
	out := runStdio(t, NewStdio(), `
# comment
hello
create 10 users
pick
deploy
quit
hello
`)
	assert.Equal(t, `Hi there!
OK
[ACTION] Trigger workflow: create_users
[INPUTS] {
  "count": "10"
}
Pick one: Red | Blue
Choices:
  [1] Red
  [2] Blue
Checking.
[CONFIRM] Really deploy?
`, out)
}

func TestStdioCommands(t *testing.T) {
	out := runStdio(t, NewStdio(), `/set name Homer
/get name
who am i
status
/topic ops
status
/bogus
`)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Homer", lines[0])
	assert.Equal(t, "You are Homer.", lines[1])
	assert.Equal(t, "Eh?", lines[2])
	assert.Equal(t, "Topic set to: OPS", lines[3])
	assert.Equal(t, "All quiet.", lines[4])
	assert.Equal(t, "unknown command /bogus", lines[5])
}

func TestStdioJSON(t *testing.T) {
	s := NewStdio()
	s.JSON = true
	out := runStdio(t, s, "create 3 users\n")

	var r core.Result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, core.ActionWorkflow, r.Action)
	assert.Equal(t, "create_users", r.Workflow)
	assert.Equal(t, map[string]interface{}{"count": "3"}, r.Inputs)
	assert.Equal(t, []string{"3"}, r.Captures)

	m, ok := testutil.Dwimjs(strings.TrimSpace(out)).(map[string]interface{})
	require.True(t, ok, out)
	assert.Equal(t, "workflow", m["action"])
	assert.Equal(t, "CREATE * USERS", m["pattern"])
}

func TestStdioTags(t *testing.T) {
	s := NewStdio()
	s.Tags = true
	s.EchoInput = true
	s.Prompt = "> "
	out := runStdio(t, s, "hello\n")
	assert.Equal(t, "> input hello\nbot Hi there!\n> ", out)
}

func TestStdioCanceled(t *testing.T) {
	s := NewStdio()
	s.In = strings.NewReader("hello\n")
	s.Out = &bytes.Buffer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, testCrew()), context.Canceled)
}

func TestShellExpand(t *testing.T) {
	got, err := ShellExpand(context.Background(), "create <<echo 4>> users")
	require.NoError(t, err)
	assert.Equal(t, "create 4 users", got)

	got, err = ShellExpand(context.Background(), "no commands")
	require.NoError(t, err)
	assert.Equal(t, "no commands", got)

	_, err = ShellExpand(context.Background(), "<<exit 3>>")
	assert.Error(t, err)
}

func TestJShort(t *testing.T) {
	assert.Equal(t, "null", JS(nil))
	assert.Equal(t, `{"a":1}`, JS(map[string]int{"a": 1}))
	long := JShort(strings.Repeat("x", 100))
	assert.Len(t, long, 73)
	assert.True(t, strings.HasSuffix(long, "..."))
}
