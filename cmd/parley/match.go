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

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/match"

	"github.com/spf13/cobra"
)

func matchCmd(a *app) *cobra.Command {
	var (
		bench   int
		against bool
	)

	cmd := &cobra.Command{
		Use:   "match PATTERN INPUT",
		Short: "Match a pattern against input",
		Long: `Reports the captures and score, or "no match".

With --store, the INPUT is matched against the configured categories
instead, and PATTERN is ignored.`,
		Example: `  parley match 'CREATE * USERS' 'create 10 users'
  parley match -p patterns/ --store - 'create 10 users'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			pattern, input := args[0], args[1]

			if against {
				store, err := a.loadStore()
				if err != nil {
					return err
				}
				m := core.DefaultMatcher.Match(core.NewInput(input), store.Categories(), core.NewSession())
				if !m.Matched {
					return fmt.Errorf("no match")
				}
				fmt.Fprintf(out, "pattern: %s\n", m.Category.Pattern)
				fmt.Fprintf(out, "score: %d\n", m.Score)
				fmt.Fprintf(out, "captures: %s\n", strings.Join(quote(m.Captures), " "))
				return nil
			}

			p := match.Parse(core.Normalize(pattern))
			in := core.NewInput(input)
			spans, ok := p.Match(in.Words)
			if !ok {
				return fmt.Errorf("no match")
			}
			fmt.Fprintf(out, "pattern: %s\n", p.Source)
			fmt.Fprintf(out, "score: %d\n", p.Score())
			fmt.Fprintf(out, "captures: %s\n", strings.Join(quote(in.Captures(spans)), " "))

			if 0 < bench {
				then := time.Now()
				for i := 0; i < bench; i++ {
					p.Match(in.Words)
				}
				elapsed := time.Since(then)
				fmt.Fprintf(out, "%d matches in %v (%v per match)\n", bench, elapsed, elapsed/time.Duration(bench))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bench, "bench", 0, "number of times to run (and report time)")
	cmd.Flags().BoolVar(&against, "store", false, "match against the configured categories")

	return cmd
}

func quote(ss []string) []string {
	acc := make([]string, len(ss))
	for i, s := range ss {
		acc[i] = fmt.Sprintf("%q", s)
	}
	return acc
}
