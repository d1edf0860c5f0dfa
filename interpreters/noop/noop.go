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

package noop

import (
	"context"

	"go.uber.org/zap"
)

// Interpreter is an expression interpreter which just returns the
// expression without evaluating it.
type Interpreter struct {
	// Silent, if true, will suppress warning log messages.
	Silent bool

	Logger *zap.Logger
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		Logger: zap.NewNop(),
	}
}

func (i *Interpreter) Eval(ctx context.Context, expr string) (string, error) {
	if !i.Silent && i.Logger != nil {
		i.Logger.Warn("using noop interpreter", zap.String("expr", expr))
	}
	return expr, nil
}
