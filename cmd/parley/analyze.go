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

	"github.com/Comcast/parley/interpreters"
	"github.com/Comcast/parley/sio"
	"github.com/Comcast/parley/tools"

	"github.com/spf13/cobra"
)

func analyzeCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report facts about the categories and likely mistakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			an := tools.Analyze(store.Categories(), interpreters.Standard())
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), sio.JSON(an))
			} else {
				fmt.Fprint(cmd.OutOrStdout(), an.String())
			}
			if strict && 0 < len(an.Errors) {
				return fmt.Errorf("%d errors", len(an.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the analysis as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if there are errors")

	return cmd
}
