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

package crew

import (
	"sync"
	"time"

	"github.com/Comcast/parley/bot"
)

// Conversation is a Bot with an id.
type Conversation struct {
	sync.Mutex

	Id      string    `json:"id"`
	Bot     *bot.Bot  `json:"-"`
	Touched time.Time `json:"touched"`

	// removed is set, with the lock held, when the Crew forgets
	// this conversation.
	removed bool
}
