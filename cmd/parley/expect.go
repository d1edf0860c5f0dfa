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
	"context"
	"fmt"
	"os"

	"github.com/Comcast/parley/storage"
	"github.com/Comcast/parley/tools/expect"

	"github.com/spf13/cobra"
)

func expectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expect SESSION [-- COMMAND ARGS...]",
		Short: "Check a conversation transcript",
		Long: `Runs the inputs in the SESSION file and checks each result.

Without a COMMAND, the session runs in-process against the configured
categories.  With a COMMAND, the session runs against a subprocess
that writes results as lines of JSON (like "parley chat --json").`,
		Example: `  parley expect -p patterns/ tests/hello.yaml
  parley expect tests/hello.yaml -- parley chat --json -p patterns/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bs, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			s, err := expect.Parse(bs)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			s.Logger = a.logger

			if 1 < len(args) {
				err = s.RunCommand(ctx, args[1:]...)
			} else {
				err = runInProcess(ctx, a, s)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ok\n", args[0], len(s.IOs))
			return nil
		},
	}
	return cmd
}

func runInProcess(ctx context.Context, a *app, s *expect.Session) error {
	store, err := a.loadStore()
	if err != nil {
		return err
	}
	d, release, err := a.dispatcher(ctx)
	if err != nil {
		return err
	}
	defer release()
	c, err := a.newCrew(ctx, store, &storage.NoopStorage{}, d)
	if err != nil {
		return err
	}
	return s.Run(ctx, c)
}
