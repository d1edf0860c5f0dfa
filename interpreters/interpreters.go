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

// Package interpreters collects the expression interpreters available
// to the compute tag.
package interpreters

import (
	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/interpreters/arith"
	"github.com/Comcast/parley/interpreters/noop"
)

// Standard returns the standard interpreters: "arith" (the default
// for the compute tag) and "noop", which echoes its expression.
func Standard() core.Interpreters {
	is := core.NewInterpreters()

	a := arith.NewInterpreter()
	is["arith"] = a
	is["arithmetic"] = a

	n := noop.NewInterpreter()
	n.Silent = true
	is["noop"] = n

	return is
}
