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

package sio

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/crew"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Frame is a message from a websocket client.
type Frame struct {
	// Text is input for the conversation.  A Frame without Text
	// only changes the session.
	Text string `json:"text"`

	// Topic, if given, sets the topic before the Text is
	// considered.
	Topic *string `json:"topic,omitempty"`

	// Vars are set before the Text is considered.
	Vars map[string]string `json:"vars,omitempty"`
}

// Reply is a message to a websocket client.
type Reply struct {
	Conversation string       `json:"conversation"`
	Result       *core.Result `json:"result,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// WebSocket is a Couplings that serves conversations over
// websockets.  Each connection is one conversation.  The client can
// resume a conversation with the query parameter "id".
//
// The first Reply on a connection has just the conversation id.
type WebSocket struct {
	Addr string

	// Path is where the websocket handler is mounted.
	Path string

	Upgrader websocket.Upgrader

	// ReadLimit is the maximum size in bytes of a Frame.
	ReadLimit int64

	// ShutdownTimeout bounds Stop.
	ShutdownTimeout time.Duration

	Logger *zap.Logger

	server *http.Server
}

// DefaultReadLimit is the default WebSocket.ReadLimit.
var DefaultReadLimit int64 = 4096

func NewWebSocket(addr string, logger *zap.Logger) *WebSocket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocket{
		Addr:            addr,
		Path:            "/ws",
		ReadLimit:       DefaultReadLimit,
		ShutdownTimeout: 5 * time.Second,
		Logger:          logger,
	}
}

// Start does nothing.
func (s *WebSocket) Start(ctx context.Context) error {
	return nil
}

// Handler returns the HTTP handler for the given Crew.
func (s *WebSocket) Handler(c *crew.Crew) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.Path, func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, c)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *WebSocket) serve(w http.ResponseWriter, r *http.Request, c *crew.Crew) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	if 0 < s.ReadLimit {
		conn.SetReadLimit(s.ReadLimit)
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		id = uuid.New().String()
	}
	log := s.Logger.With(zap.String("conversation", id), zap.String("remote", r.RemoteAddr))
	log.Info("connected")

	c.Open(id)
	if err := conn.WriteJSON(&Reply{Conversation: id}); err != nil {
		log.Warn("write", zap.Error(err))
		return
	}

	ctx := r.Context()
	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read", zap.Error(err))
			}
			return
		}

		log.Debug("frame", zap.String("frame", JShort(&f)))
		reply := &Reply{Conversation: id}

		if f.Topic != nil || 0 < len(f.Vars) {
			c.With(id, func(conv *crew.Conversation) {
				e := conv.Bot.Engine
				if f.Topic != nil {
					e.SetTopic(*f.Topic)
				}
				for name, val := range f.Vars {
					e.SetVariable(name, val)
				}
			})
		}

		if f.Text != "" {
			res, err := c.Respond(ctx, id, f.Text)
			reply.Result = res
			if err != nil {
				reply.Error = err.Error()
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("write", zap.Error(err))
			return
		}
	}
}

// Run serves until the context is done.
func (s *WebSocket) Run(ctx context.Context, c *crew.Crew) error {
	s.server = &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(c),
	}

	errs := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", zap.String("addr", s.Addr), zap.String("path", s.Path))
		errs <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	if err := s.Stop(context.Background()); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// Stop shuts down the server (if any).
func (s *WebSocket) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
