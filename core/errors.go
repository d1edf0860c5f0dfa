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

// These errors never escape Engine.Respond.  They are recorded (on a
// Template) or logged so that callers can diagnose their knowledge.

import (
	"errors"
	"strconv"
)

// TemplateError occurs when a template source isn't a well-formed
// tag tree.  The Template then evaluates to its source as literal
// text.
type TemplateError struct {
	Source string
	Err    error
}

func (e *TemplateError) Error() string {
	return "malformed template " + strconv.Quote(e.Source) + ": " + e.Err.Error()
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// RecursionLimit occurs when recursive evaluation ("srai") goes
// deeper than the Engine allows.  The offending sub-evaluation is
// treated as no match.
type RecursionLimit struct {
	Input string
	Depth int
}

func (e *RecursionLimit) Error() string {
	return "recursion limit " + strconv.Itoa(e.Depth) + " reached for " + strconv.Quote(e.Input)
}

// UnknownInterpreter occurs when a compute tag names an interpreter
// the Engine doesn't have.
type UnknownInterpreter struct {
	Name string
}

func (e *UnknownInterpreter) Error() string {
	return `interpreter "` + e.Name + `" not found`
}

// UnbalancedTemplate occurs when a template has content after its
// root element.
var UnbalancedTemplate = errors.New("content after template element")
