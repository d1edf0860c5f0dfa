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

// Package storage is a persistence interface for conversations.
package storage

import (
	"context"
	"time"

	"github.com/Comcast/parley/core"
)

// SessionState is a presentation of a conversation's Session as
// stored in a Storage system.
type SessionState struct {
	// Id is the conversation id.
	Id string `json:"id,omitempty"`

	Session *core.Session `json:"session"`

	// Touched is when the conversation last did something.
	Touched time.Time `json:"touched"`

	// Deleted indicates that this conversation has been removed.
	Deleted bool `json:"-"`
}

// Storage is a persistence interface that's suitable for a crew of
// conversations.
//
// A crew is a namespace for conversations.
type Storage interface {
	MakeCrew(ctx context.Context, crew string) error

	RemCrew(ctx context.Context, crew string) error

	// GetCrew returns all the conversations in the crew.  A crew
	// that doesn't exist has no conversations.
	GetCrew(ctx context.Context, crew string) ([]*SessionState, error)

	// WriteState writes (or, for Deleted states, removes) the
	// given conversations.
	WriteState(ctx context.Context, crew string, ss []*SessionState) error

	Open(ctx context.Context) error
	Close(ctx context.Context) error
}
