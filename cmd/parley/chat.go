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
	"github.com/Comcast/parley/sio"

	"github.com/spf13/cobra"
)

func chatCmd(a *app) *cobra.Command {
	stdio := sio.NewStdio()

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Converse on stdin and stdout",
		Long: `Each line of input goes to one conversation.  "quit" ends the
chat.  Lines starting with "/" are commands:

  /topic NAME        sets the topic
  /set NAME VALUE    sets a variable
  /get NAME          shows a variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.loadStore()
			if err != nil {
				return err
			}
			st, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			d, release, err := a.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer release()

			c, err := a.newCrew(ctx, store, st, d)
			if err != nil {
				return err
			}

			stdio.In = cmd.InOrStdin()
			stdio.Out = cmd.OutOrStdout()
			stdio.Logger = a.logger

			if err := stdio.Start(ctx); err != nil {
				return err
			}
			err = stdio.Run(ctx, c)
			if serr := stdio.Stop(ctx); err == nil {
				err = serr
			}
			if lerr := a.saveLearned(store); err == nil {
				err = lerr
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&stdio.Conversation, "conversation", stdio.Conversation, "conversation id")
	flags.StringVar(&stdio.Prompt, "prompt", "", "prompt before each line")
	flags.BoolVar(&stdio.JSON, "json", false, "write each result as a line of JSON")
	flags.BoolVar(&stdio.Tags, "tags", false, "tag output lines")
	flags.BoolVar(&stdio.PadTags, "pad-tags", false, "pad tags")
	flags.BoolVar(&stdio.EchoInput, "echo", false, "echo input")
	flags.BoolVar(&stdio.Timestamps, "timestamps", false, "timestamp output lines")
	flags.BoolVar(&stdio.ShellExpand, "sh", false, "expand <<shell commands>> in input")

	return cmd
}
