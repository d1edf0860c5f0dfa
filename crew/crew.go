/* Copyright 2018 Comcast Cable Communications Management, LLC
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

// Package crew manages many conversations that share one Store.
package crew

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Comcast/parley/bot"
	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/dispatch"
	"github.com/Comcast/parley/fallback"
	"github.com/Comcast/parley/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config is what every Conversation in a Crew gets.
type Config struct {
	Fallback     fallback.Responder
	Dispatcher   dispatch.Dispatcher
	Storage      storage.Storage
	Interpreters core.Interpreters

	// MaxDepth, if positive, overrides core.DefaultMaxDepth.
	MaxDepth int

	Logger *zap.Logger
}

// Crew is a set of Conversations.
//
// The Crew's lock protects the map.  Each Conversation has its own
// lock, so different conversations can proceed concurrently.
type Crew struct {
	sync.RWMutex

	Id            string                   `json:"id"`
	Conversations map[string]*Conversation `json:"conversations"`

	// Store is shared by all Conversations.
	Store *core.Store `json:"-"`

	// Now is the clock.
	Now func() time.Time `json:"-"`

	cfg    Config
	logger *zap.Logger
}

// NewCrew makes an empty Crew.
func NewCrew(id string, store *core.Store, cfg *Config) *Crew {
	c := &Crew{
		Id:            id,
		Conversations: make(map[string]*Conversation, 32),
		Store:         store,
		Now:           time.Now,
	}
	if cfg != nil {
		c.cfg = *cfg
	}
	if c.cfg.Storage == nil {
		c.cfg.Storage = &storage.NoopStorage{}
	}
	if c.cfg.Fallback == nil {
		c.cfg.Fallback = fallback.NewIntents()
	}
	if c.cfg.Logger == nil {
		c.cfg.Logger = zap.NewNop()
	}
	c.logger = c.cfg.Logger.With(zap.String("crew", id))
	return c
}

func (c *Crew) newConversation(id string, s *core.Session) *Conversation {
	opts := []core.Option{
		core.WithSession(s),
		core.WithLogger(c.cfg.Logger.With(zap.String("conversation", id))),
	}
	if c.cfg.Interpreters != nil {
		opts = append(opts, core.WithInterpreters(c.cfg.Interpreters))
	}
	if 0 < c.cfg.MaxDepth {
		opts = append(opts, core.WithMaxDepth(c.cfg.MaxDepth))
	}
	e := core.NewEngine(c.Store, opts...)
	return &Conversation{
		Id:      id,
		Bot:     bot.New(id, e, c.cfg.Fallback, c.cfg.Dispatcher, c.cfg.Logger),
		Touched: c.Now().UTC(),
	}
}

// Load reads the Crew's conversations from storage.  Conversations
// already in memory are replaced.
func (c *Crew) Load(ctx context.Context) error {
	if err := c.cfg.Storage.MakeCrew(ctx, c.Id); err != nil {
		return fmt.Errorf("making crew %s: %w", c.Id, err)
	}
	sss, err := c.cfg.Storage.GetCrew(ctx, c.Id)
	if err != nil {
		return fmt.Errorf("loading crew %s: %w", c.Id, err)
	}
	c.Lock()
	for _, ss := range sss {
		s := ss.Session
		if s == nil {
			s = core.NewSession()
		}
		conv := c.newConversation(ss.Id, s)
		if !ss.Touched.IsZero() {
			conv.Touched = ss.Touched
		}
		c.Conversations[ss.Id] = conv
	}
	c.Unlock()
	c.logger.Info("loaded", zap.Int("conversations", len(sss)))
	return nil
}

// Get returns the Conversation with the given id.
func (c *Crew) Get(id string) (*Conversation, bool) {
	c.RLock()
	conv, have := c.Conversations[id]
	c.RUnlock()
	return conv, have
}

// Open returns the Conversation with the given id, creating it if
// necessary.  An empty id gets a new random id.
func (c *Crew) Open(id string) *Conversation {
	if id == "" {
		id = uuid.New().String()
	}
	c.Lock()
	defer c.Unlock()
	if conv, have := c.Conversations[id]; have {
		return conv
	}
	conv := c.newConversation(id, core.NewSession())
	c.Conversations[id] = conv
	c.logger.Debug("opened", zap.String("conversation", id))
	return conv
}

// lock returns the conversation (which is created if necessary)
// locked.  A conversation removed while waiting for its lock is
// replaced by a new one.
func (c *Crew) lock(id string) *Conversation {
	for {
		conv := c.Open(id)
		conv.Lock()
		if !conv.removed {
			return conv
		}
		conv.Unlock()
	}
}

// With calls the function with the conversation (which is created if
// necessary) locked.
func (c *Crew) With(id string, f func(*Conversation)) {
	conv := c.lock(id)
	defer conv.Unlock()
	f(conv)
}

// Respond gives the input to the conversation (which is created if
// necessary) and persists the conversation's Session.
func (c *Crew) Respond(ctx context.Context, id, input string) (*core.Result, error) {
	conv := c.lock(id)
	defer conv.Unlock()

	r, err := conv.Bot.Respond(ctx, input)
	conv.Touched = c.Now().UTC()

	ss := &storage.SessionState{
		Id:      conv.Id,
		Session: conv.Bot.Session(),
		Touched: conv.Touched,
	}
	if werr := c.cfg.Storage.WriteState(ctx, c.Id, []*storage.SessionState{ss}); werr != nil {
		c.logger.Error("write state", zap.String("conversation", conv.Id), zap.Error(werr))
		if err == nil {
			err = fmt.Errorf("writing state for %s: %w", conv.Id, werr)
		}
	}
	return r, err
}

// Remove forgets the conversation in memory and in storage.
//
// A Respond in progress on a conversation finishes (and writes its
// state) before the conversation is removed.
func (c *Crew) Remove(ctx context.Context, ids ...string) error {
	_, err := c.remove(ctx, ids, time.Time{})
	return err
}

// remove deletes the conversations.  If cutoff isn't zero, a
// conversation touched after cutoff is kept.  Returns the ids that
// were removed.
func (c *Crew) remove(ctx context.Context, ids []string, cutoff time.Time) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var (
		removed = make([]string, 0, len(ids))
		sss     = make([]*storage.SessionState, 0, len(ids))
	)

	// The crew lock is held through the storage write so that a
	// replacement conversation can't write its state first.
	c.Lock()
	defer c.Unlock()
	for _, id := range ids {
		if conv, have := c.Conversations[id]; have {
			conv.Lock()
			if !cutoff.IsZero() && conv.Touched.After(cutoff) {
				conv.Unlock()
				continue
			}
			conv.removed = true
			conv.Unlock()
			delete(c.Conversations, id)
		} else if !cutoff.IsZero() {
			continue
		}
		removed = append(removed, id)
		sss = append(sss, &storage.SessionState{Id: id, Deleted: true})
	}
	if len(sss) == 0 {
		return nil, nil
	}
	return removed, c.cfg.Storage.WriteState(ctx, c.Id, sss)
}

// Idle returns the ids of conversations that haven't done anything
// for at least the given duration.
func (c *Crew) Idle(idle time.Duration) []string {
	cutoff := c.Now().UTC().Add(-idle)
	var acc []string
	c.RLock()
	for id, conv := range c.Conversations {
		conv.Lock()
		if !conv.Touched.After(cutoff) {
			acc = append(acc, id)
		}
		conv.Unlock()
	}
	c.RUnlock()
	sort.Strings(acc)
	return acc
}

// Evict removes the conversations that have been idle for at least
// the given duration.
func (c *Crew) Evict(ctx context.Context, idle time.Duration) ([]string, error) {
	cutoff := c.Now().UTC().Add(-idle)
	ids, err := c.remove(ctx, c.Idle(idle), cutoff)
	if 0 < len(ids) {
		c.logger.Info("evicted", zap.Strings("conversations", ids))
	}
	return ids, err
}

// Ids returns the conversation ids in order.
func (c *Crew) Ids() []string {
	c.RLock()
	acc := make([]string, 0, len(c.Conversations))
	for id := range c.Conversations {
		acc = append(acc, id)
	}
	c.RUnlock()
	sort.Strings(acc)
	return acc
}

// Copy gets a read lock and returns a copy of the crew.  Each
// Conversation's Session is copied.
func (c *Crew) Copy() map[string]*core.Session {
	c.RLock()
	acc := make(map[string]*core.Session, len(c.Conversations))
	for id, conv := range c.Conversations {
		conv.Lock()
		acc[id] = conv.Bot.Session().Copy()
		conv.Unlock()
	}
	c.RUnlock()
	return acc
}
