/* Copyright 2019 Comcast Cable Communications Management, LLC
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

// Package sio couples a crew of conversations to the outside world.
package sio

import (
	"context"

	"github.com/Comcast/parley/crew"
)

// Couplings connect people to a Crew.
//
// For example, an implementation could couple a crew to a terminal
// or to websocket clients.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// Run serves the Crew until the input ends or the context is
	// done.
	Run(context.Context, *crew.Crew) error

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}
