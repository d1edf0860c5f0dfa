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

package arith

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 + 2", "4"},
		{"2+3*4", "14"},
		{"(2+3)*4", "20"},
		{"7 / 2", "3.5"},
		{"8 / 4", "2"},
		{"-3 + 1", "-2"},
		{"--3", "3"},
		{"+1.5 * 2", "3"},
		{" 10 - 2 - 3 ", "5"},
		{"0 * -1", "0"},
		{".5 + .25", "0.75"},
		{"((((1))))", "1"},
	}

	i := NewInterpreter()
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := i.Eval(ctx, tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("Eval(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"   ",
		"2 + ",
		"2 +* 3",
		"(1 + 2",
		"1 + 2)",
		"x + 1",
		"__import__('os')",
		"2 ** 3",
		"1.2.3",
		"abs(1)",
		".",
	} {
		if _, err := Eval(expr); err == nil {
			t.Fatalf("Eval(%q) should have failed", expr)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := Eval("1 / (2 - 2)"); !errors.Is(err, DivisionByZero) {
		t.Fatal(err)
	}
}

func TestNesting(t *testing.T) {
	deep := strings.Repeat("(", MaxNesting+2) + "1" + strings.Repeat(")", MaxNesting+2)
	if _, err := Eval(deep); !errors.Is(err, TooDeep) {
		t.Fatal(err)
	}
	if _, err := Eval(strings.Repeat("-", MaxNesting+2) + "1"); !errors.Is(err, TooDeep) {
		t.Fatal(err)
	}
}

func TestSyntaxError(t *testing.T) {
	_, err := Eval("1 + @")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("%#v", err)
	}
	if se.Pos != 4 {
		t.Fatalf("pos %d", se.Pos)
	}
}
