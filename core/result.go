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

// ActionKind says what (if anything) the caller should do with a
// Result besides showing its Text.
type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionWorkflow ActionKind = "workflow" // Dispatch Workflow with Inputs.
	ActionConfirm  ActionKind = "confirm"  // Ask the user to confirm Confirm.
	ActionLearn    ActionKind = "learn"    // Consider adding Learn as a Category.
)

// Choice is a menu entry.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LearnSuggestion proposes a new pattern.
type LearnSuggestion struct {
	Pattern  string `json:"pattern"`
	Workflow string `json:"workflow,omitempty"`

	// Intent is set by fallback responders that classified the
	// input.
	Intent string `json:"intent,omitempty"`
}

// Result is what Respond returns.
//
// The side-channel fields are written as the Template is evaluated.
// When a Template writes the same field twice, the last write wins.
type Result struct {
	Text     string                 `json:"text"`
	Action   ActionKind             `json:"action"`
	Workflow string                 `json:"workflow,omitempty"`
	Inputs   map[string]interface{} `json:"inputs,omitempty"`
	Choices  []Choice               `json:"choices,omitempty"`
	Confirm  string                 `json:"confirm,omitempty"`
	Learn    *LearnSuggestion       `json:"learn,omitempty"`

	// Pattern is the pattern of the Category that matched.
	Pattern string `json:"pattern,omitempty"`

	// Captures are the spans captured by the pattern's wildcards.
	Captures []string `json:"captures,omitempty"`
}

// NewResult makes a Result with ActionNone.
func NewResult() *Result {
	return &Result{
		Action: ActionNone,
	}
}

// TextResult makes a Result with just the given text.
func TextResult(text string) *Result {
	r := NewResult()
	r.Text = text
	return r
}
