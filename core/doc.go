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

// Package core provides the core gear for pattern-driven dialogue.
//
// The knowledge is a Store: an ordered sequence of Categories.  Each
// Category pairs a wildcard pattern (see package match) with a
// Template, which is a small tree of text and tags.  A Category can
// also require a conversational topic and a preceding response
// ("that").
//
// The primary type is Engine, and the primary method is Respond().
// Respond normalizes the input, finds the best Category for the
// current Session, evaluates that Category's Template, and records
// the exchange in the Session.  When no Category matches, Respond
// returns nil, and the caller can hand the input to some fallback.
//
// Template evaluation produces text and, optionally, a side-channel
// command in the Result: a workflow to dispatch, a menu of choices, a
// confirmation prompt, or a suggestion to learn a new pattern.  This
// package does not act on these commands.  That's the caller's job.
//
// A Template can re-submit text through the whole pipeline (the
// "srai" tag).  That recursion is bounded by Engine.MaxDepth.
//
// An Engine and its Session are not safe for concurrent use.  Give
// each conversation its own Engine.  A Store, on the other hand, can
// be shared by many Engines.
package core
