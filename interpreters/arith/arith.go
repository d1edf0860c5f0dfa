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

// Package arith is a tiny arithmetic interpreter.
//
// The grammar:
//
//   expr   = term { ("+" | "-") term }
//   term   = unary { ("*" | "/") unary }
//   unary  = { "+" | "-" } primary
//   primary = number | "(" expr ")"
//
// There are no identifiers and no function calls, so an expression
// can't reach anything outside this package.
package arith

import (
	"context"
	"errors"
	"math"
	"strconv"
)

var (
	// MaxNesting limits parenthesis and unary operator nesting.
	MaxNesting = 64

	DivisionByZero = errors.New("division by zero")
	TooDeep        = errors.New("expression nested too deeply")
	Empty          = errors.New("empty expression")
)

// SyntaxError reports where an expression stopped making sense.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return "arith: " + e.Msg + " at offset " + strconv.Itoa(e.Pos) + " in " + strconv.Quote(e.Expr)
}

// Interpreter evaluates arithmetic expressions and renders the
// result as text.
type Interpreter struct {
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Eval evaluates the expression and formats the result.  Integral
// results have no fractional part.
func (i *Interpreter) Eval(ctx context.Context, expr string) (string, error) {
	x, err := Eval(expr)
	if err != nil {
		return "", err
	}
	return Format(x), nil
}

// Format renders a number using the fewest digits that represent it
// exactly.
func Format(x float64) string {
	if x == 0 {
		// No "-0".
		x = 0
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Eval parses and evaluates the expression.
func Eval(expr string) (float64, error) {
	p := &parser{src: expr}
	p.skip()
	if p.pos == len(p.src) {
		return 0, Empty
	}
	x, err := p.expr(0)
	if err != nil {
		return 0, err
	}
	p.skip()
	if p.pos != len(p.src) {
		return 0, p.unexpected(p.src[p.pos])
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, p.errorf("result out of range")
	}
	return x, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(msg string) error {
	return &SyntaxError{Expr: p.src, Pos: p.pos, Msg: msg}
}

func (p *parser) unexpected(c byte) error {
	return p.errorf("unexpected " + strconv.QuoteRune(rune(c)))
}

func (p *parser) skip() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peek returns the next non-space byte or 0 at the end.
func (p *parser) peek() byte {
	p.skip()
	if p.pos == len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr(depth int) (float64, error) {
	x, err := p.term(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			y, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			x += y
		case '-':
			p.pos++
			y, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			x -= y
		default:
			return x, nil
		}
	}
}

func (p *parser) term(depth int) (float64, error) {
	x, err := p.unary(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			y, err := p.unary(depth)
			if err != nil {
				return 0, err
			}
			x *= y
		case '/':
			p.pos++
			at := p.pos
			y, err := p.unary(depth)
			if err != nil {
				return 0, err
			}
			if y == 0 {
				p.pos = at
				return 0, DivisionByZero
			}
			x /= y
		default:
			return x, nil
		}
	}
}

func (p *parser) unary(depth int) (float64, error) {
	if MaxNesting < depth {
		return 0, TooDeep
	}
	switch p.peek() {
	case '-':
		p.pos++
		x, err := p.unary(depth + 1)
		return -x, err
	case '+':
		p.pos++
		return p.unary(depth + 1)
	}
	return p.primary(depth)
}

func (p *parser) primary(depth int) (float64, error) {
	c := p.peek()
	switch {
	case c == 0:
		return 0, p.errorf("unexpected end")
	case c == '(':
		p.pos++
		x, err := p.expr(depth + 1)
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing ')'")
		}
		p.pos++
		return x, nil
	case isDigit(c) || c == '.':
		return p.number()
	}
	return 0, p.unexpected(c)
}

func (p *parser) number() (float64, error) {
	start := p.pos
	digits := 0
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
		digits++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		p.pos = start
		return 0, p.errorf("malformed number")
	}
	x, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("malformed number")
	}
	return x, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
