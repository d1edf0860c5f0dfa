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
	"errors"

	"github.com/Comcast/parley/crew"
	"github.com/Comcast/parley/sio"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversations over websockets",
		Long: `Each websocket connection to /ws is a conversation.  The query
parameter "id" resumes a conversation.  Clients send {"text": "..."}
and get {"conversation": "...", "result": {...}}.

Idle conversations are evicted on the serve.evict_schedule cron
schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if addr != "" {
				a.cfg.Serve.Addr = addr
			}

			store, err := a.loadStore()
			if err != nil {
				return err
			}
			st, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			d, release, err := a.dispatcher(ctx)
			if err != nil {
				return err
			}
			defer release()

			c, err := a.newCrew(ctx, store, st, d)
			if err != nil {
				return err
			}

			errs := make(chan error, 2)

			if a.cfg.Serve.EvictSchedule != "" && 0 < a.cfg.Serve.Idle {
				r, err := crew.NewReaper(c, a.cfg.Serve.EvictSchedule, a.cfg.Serve.Idle)
				if err != nil {
					return err
				}
				go func() {
					errs <- r.Run(ctx)
				}()
			} else {
				errs <- nil
			}

			ws := sio.NewWebSocket(a.cfg.Serve.Addr, a.logger)
			go func() {
				errs <- ws.Run(ctx, c)
			}()

			var first error
			for i := 0; i < 2; i++ {
				err := <-errs
				if err != nil && !errors.Is(err, context.Canceled) && first == nil {
					first = err
					a.logger.Error("serve", zap.Error(err))
				}
				cancel()
			}

			if err := a.saveLearned(store); err != nil && first == nil {
				first = err
			}
			return first
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")

	return cmd
}
