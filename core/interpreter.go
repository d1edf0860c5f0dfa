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

package core

import (
	"context"

	"github.com/Comcast/parley/interpreters/arith"
)

// Interpreter evaluates the expression in a compute tag.
type Interpreter interface {
	Eval(ctx context.Context, expr string) (string, error)
}

// Interpreters maps names to Interpreters.
type Interpreters map[string]Interpreter

func NewInterpreters() Interpreters {
	return make(Interpreters, 4)
}

var (
	// DefaultInterpreter is used by a compute tag that doesn't
	// name an interpreter.
	DefaultInterpreter = "arith"

	// DefaultInterpreters is used by an Engine that wasn't given
	// any Interpreters.
	DefaultInterpreters = Interpreters{
		"arith": arith.NewInterpreter(),
	}
)
