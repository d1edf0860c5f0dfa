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

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAIML = `<?xml version="1.0" encoding="UTF-8"?>
<aiml version="2.0">
  <category>
    <pattern>HELLO</pattern>
    <template>Hi there!</template>
  </category>
  <category>
    <pattern>CREATE * USERS</pattern>
    <template><action workflow="create_users" inputs='{"count": "&lt;star/&gt;"}'/>Creating <star/> users.</template>
  </category>
  <category>
    <pattern>GREET</pattern>
    <template><srai>HELLO</srai></template>
  </category>
</aiml>
`

func patterns(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bot.aiml"), []byte(testAIML), 0644))
	return dir
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup, like testing.T.Chdir (Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// No parley.yaml from the working directory.
	chdir(t, t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := loadConfig(newViper(""))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "parley", cfg.Storage.Crew)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.Equal(t, time.Hour, cfg.Serve.Idle)
	assert.Equal(t, "parley", cfg.MQTT.ClientId)
	assert.Empty(t, cfg.Patterns)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "parley.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(`
patterns: [a, b]
max_depth: 4
serve:
  addr: ":9000"
  idle: 10m
mqtt:
  broker: tcp://localhost:1883
`), 0644))

	t.Setenv("PARLEY_MAX_DEPTH", "3")
	t.Setenv("PARLEY_STORAGE_CREW", "ops")

	cfg, err := loadConfig(newViper(filename))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.Patterns)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, "ops", cfg.Storage.Crew)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Serve.Idle)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
}

func TestConfigInvalid(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("max_depth", -1)
	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "max_depth")

	_, err = loadConfig(newViper(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	out, err := run(t, "", "match", "create * users", "Create ten new users")
	require.NoError(t, err)
	assert.Equal(t, "pattern: CREATE * USERS\nscore: 21\ncaptures: \"ten new\"\n", out)

	_, err = run(t, "", "match", "hello", "goodbye")
	assert.ErrorContains(t, err, "no match")
}

func TestMatchStore(t *testing.T) {
	out, err := run(t, "", "match", "-p", patterns(t), "--store", "-", "create 3 users")
	require.NoError(t, err)
	assert.Contains(t, out, "pattern: CREATE * USERS")
	assert.Contains(t, out, `captures: "3"`)
}

func TestChat(t *testing.T) {
	dir := patterns(t)
	learned := filepath.Join(t.TempDir(), "learned.aiml")

	out, err := run(t, "hello\ngreet\ncreate 5 users\ndeploy the app\nyes\nquit\n",
		"chat", "-p", dir, "--learned", learned)
	require.NoError(t, err)
	assert.Contains(t, out, "Hi there!\nHi there!\nCreating 5 users.\n")
	assert.Contains(t, out, "[ACTION] Trigger workflow: create_users")
	assert.Contains(t, out, "[LEARN]")
	assert.Contains(t, out, "Learned!")

	// The learned category is saved and loaded next time.
	bs, err := os.ReadFile(learned)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "<pattern>DEPLOY THE APP</pattern>")

	out, err = run(t, "deploy the app\n", "chat", "-p", dir, "--learned", learned)
	require.NoError(t, err)
	assert.Contains(t, out, "Executing DEPLOY THE APP")
}

func TestChatStorage(t *testing.T) {
	dir := patterns(t)
	db := filepath.Join(t.TempDir(), "sessions.json")

	_, err := run(t, "hello\n", "chat", "-p", dir, "--storage", db)
	require.NoError(t, err)

	bs, err := os.ReadFile(db)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "stdio")
}

func TestRender(t *testing.T) {
	dir := patterns(t)

	for _, tt := range []struct {
		format string
		want   string
	}{
		{"html", "<h1>Categories</h1>"},
		{"dot", "digraph G {"},
		{"mermaid", "graph LR"},
		{"yaml", "pattern: CREATE * USERS"},
		{"aiml", `<aiml version="2.0">`},
	} {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "", "render", "-p", dir, "-f", tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err := run(t, "", "render", "-p", dir, "-f", "pdf")
	assert.ErrorContains(t, err, "unknown format")
}

func TestRenderPNG(t *testing.T) {
	dir := patterns(t)

	_, err := run(t, "", "render", "-p", dir, "-f", "png")
	assert.ErrorContains(t, err, "--output")

	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip(err)
	}
	base := filepath.Join(t.TempDir(), "graph")
	out, err := run(t, "", "render", "-p", dir, "-f", "png", "-o", base)
	require.NoError(t, err)
	assert.Equal(t, base+".png\n", out)
	assert.FileExists(t, base+".dot")
	assert.FileExists(t, base+".png")
}

func TestAnalyze(t *testing.T) {
	out, err := run(t, "", "analyze", "-p", patterns(t), "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "categories: 3")
	assert.Contains(t, out, "create_users")
}

func TestExpect(t *testing.T) {
	session := filepath.Join(t.TempDir(), "hello.yaml")
	require.NoError(t, os.WriteFile(session, []byte(`
ios:
- input: greet
  output:
    text: Hi there!
- input: create 2 users
  output:
    workflow: create_users
    inputs:
      count: "2"
`), 0644))

	out, err := run(t, "", "expect", "-p", patterns(t), session)
	require.NoError(t, err)
	assert.Contains(t, out, "2 ok")
}
