/* Copyright 2018 Comcast Cable Communications Management, LLC
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

// Package testutil has helpers for tests of packages that sit above
// core.
package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/Comcast/parley/aiml"
	"github.com/Comcast/parley/core"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// JS renders its argument as JSON or as a string indicating an error.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes, parses that data as JSON.
// When given anything else, just returns what's given.  A string that
// isn't JSON is returned as is.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			return vv
		}
		return v
	default:
		return x
	}
}

// Store parses the AIML categories (which don't need the <aiml>
// wrapper) and fails the test if that doesn't work.
func Store(t testing.TB, src string) *core.Store {
	t.Helper()
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "<aiml") {
		src = "<aiml>" + src + "</aiml>"
	}
	cs, err := aiml.Read(strings.NewReader(src), t.Name())
	if err != nil {
		t.Fatalf("aiml: %v", err)
	}
	return core.NewStore(cs...)
}

// Logger returns a logger that records everything at debug level and
// above.
func Logger() (*zap.Logger, *observer.ObservedLogs) {
	obs, logs := observer.New(zapcore.DebugLevel)
	return zap.New(obs), logs
}
