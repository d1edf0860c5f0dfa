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
	"encoding/json"
	"encoding/xml"
	"strings"
)

// Node is an element of a Template's tag tree.
//
// The set of Node types is closed: every type below implements the
// unexported method node().  Evaluation switches over these types.
type Node interface {
	node()
}

// Text is literal output.
type Text struct {
	Text string
}

// Star outputs a captured span.  Index is 1-based.
type Star struct {
	Index int
}

// Get outputs a session variable (or nothing if it's unset).
type Get struct {
	Name string
}

// Set stores its content in a session variable and outputs it.
type Set struct {
	Name    string
	Content []Node
}

// Think evaluates its content for side effects and outputs nothing.
type Think struct {
	Content []Node
}

// Random evaluates one of its Items chosen uniformly at random.
type Random struct {
	Items [][]Node
}

// Condition has two forms.
//
// With a Name and a Value, the Content is output if the variable
// has exactly that value.
//
// Otherwise, the Items are tried in order.  The first Item whose
// variable (the Item's Name or else the Condition's Name) has the
// Item's Value wins.  An Item without a Value always wins.
type Condition struct {
	Name     string
	Value    string
	HasValue bool
	Content  []Node
	Items    []*ConditionItem
}

type ConditionItem struct {
	Name     string
	Value    string
	HasValue bool
	Content  []Node
}

// Srai re-submits its content as new input and outputs the response
// text.
type Srai struct {
	Content []Node
}

// CaseKind selects a CaseTransform.
type CaseKind int

const (
	Uppercase CaseKind = iota
	Lowercase
	Formal // Title case.
)

// CaseTransform changes the case of its content.
type CaseTransform struct {
	Kind    CaseKind
	Content []Node
}

// Action requests a workflow.
//
// The workflow inputs come from the Inputs template if present,
// otherwise from the InputsSource text, in which star markers
// (<star/> and <star index="N"/>) are replaced with captures.  The
// result is parsed as a JSON (or YAML) map.
//
// The Content is output as commentary.
type Action struct {
	Workflow     string
	InputsSource string
	Inputs       []Node
	Content      []Node
}

// MenuOption is an explicit menu entry.
type MenuOption struct {
	Value string
	Label []Node
}

// Menu presents a choice.  Without Options, the evaluated Content is
// read as a pipe-delimited list.
type Menu struct {
	ID      string
	Options []*MenuOption
	Content []Node
}

// Confirm asks the caller to confirm something.  The evaluated
// Content is the prompt.
type Confirm struct {
	Content []Node
}

// Learn suggests a new pattern.  Star markers in Pattern become
// wildcards.
type Learn struct {
	Pattern  string
	Workflow string
}

// Compute evaluates its content as an expression using the named
// interpreter (default "arith").
type Compute struct {
	Interpreter string
	Content     []Node
}

// Unknown is a tag this package doesn't recognize.  Its content is
// evaluated and output.
type Unknown struct {
	Tag     string
	Content []Node

	attrs []xml.Attr
}

func (u *Unknown) attr(name string) (string, bool) {
	for _, a := range u.attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (u *Unknown) option() *MenuOption {
	v, _ := u.attr("value")
	return &MenuOption{Value: v, Label: u.Content}
}

func (*Text) node()          {}
func (*Star) node()          {}
func (*Get) node()           {}
func (*Set) node()           {}
func (*Think) node()         {}
func (*Random) node()        {}
func (*Condition) node()     {}
func (*Srai) node()          {}
func (*CaseTransform) node() {}
func (*Action) node()        {}
func (*Menu) node()          {}
func (*Confirm) node()       {}
func (*Learn) node()         {}
func (*Compute) node()       {}
func (*Unknown) node()       {}

// Template is a parsed template.
type Template struct {
	// Source is the text the Template was parsed from.
	Source string

	// Nodes is the content of the template.
	Nodes []Node

	// Err is not nil when the Source was malformed.  In that
	// case, Nodes is a single Text with the whole Source.
	Err error
}

// Literal reports whether the Template fell back to literal text.
func (t *Template) Literal() bool {
	return t.Err != nil
}

// MarshalJSON renders the Template as its source.
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Source)
}

// UnmarshalJSON parses a source string.
func (t *Template) UnmarshalJSON(bs []byte) error {
	var src string
	if err := json.Unmarshal(bs, &src); err != nil {
		return err
	}
	*t = *ParseTemplate(src)
	return nil
}
