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

// Walk calls f on each Node in depth-first order.  When f returns
// false, the Node's children are skipped.
func Walk(ns []Node, f func(Node) bool) {
	for _, n := range ns {
		if !f(n) {
			continue
		}
		for _, kids := range Children(n) {
			Walk(kids, f)
		}
	}
}

// Children returns the Node's child lists.
func Children(n Node) [][]Node {
	switch vv := n.(type) {
	case *Set:
		return [][]Node{vv.Content}
	case *Think:
		return [][]Node{vv.Content}
	case *Random:
		return vv.Items
	case *Condition:
		if len(vv.Items) == 0 {
			return [][]Node{vv.Content}
		}
		acc := make([][]Node, len(vv.Items))
		for i, item := range vv.Items {
			acc[i] = item.Content
		}
		return acc
	case *Srai:
		return [][]Node{vv.Content}
	case *CaseTransform:
		return [][]Node{vv.Content}
	case *Action:
		return [][]Node{vv.Inputs, vv.Content}
	case *Menu:
		acc := make([][]Node, 0, len(vv.Options)+1)
		for _, o := range vv.Options {
			acc = append(acc, o.Label)
		}
		return append(acc, vv.Content)
	case *Confirm:
		return [][]Node{vv.Content}
	case *Compute:
		return [][]Node{vv.Content}
	case *Unknown:
		return [][]Node{vv.Content}
	}
	return nil
}
