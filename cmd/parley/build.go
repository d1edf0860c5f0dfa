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
	"path/filepath"

	"github.com/Comcast/parley/aiml"
	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/crew"
	"github.com/Comcast/parley/dispatch"
	"github.com/Comcast/parley/dispatch/mqtt"
	"github.com/Comcast/parley/interpreters"
	"github.com/Comcast/parley/storage"
	"github.com/Comcast/parley/storage/bolt"

	"go.uber.org/zap"
)

// loadStore reads the configured categories and, if there is a
// learned file, the categories learned earlier.
func (a *app) loadStore() (*core.Store, error) {
	l := aiml.NewLoader(a.logger)
	cs, err := l.Load(a.cfg.Patterns...)
	if err != nil {
		return nil, err
	}
	if a.cfg.Learned != "" && exists(a.cfg.Learned) {
		learned, err := l.LoadFile(a.cfg.Learned)
		if err != nil {
			return nil, err
		}
		for _, c := range learned {
			c.Learned = true
		}
		cs = append(cs, learned...)
	}
	a.logger.Info("loaded categories", zap.Int("count", len(cs)))
	return core.NewStore(cs...), nil
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// saveLearned writes the learned categories if there's a learned file.
func (a *app) saveLearned(s *core.Store) error {
	if a.cfg.Learned == "" || len(s.Learned()) == 0 {
		return nil
	}
	return aiml.NewLoader(a.logger).SaveLearned(a.cfg.Learned, s)
}

// openStorage opens the configured storage.
func (a *app) openStorage(ctx context.Context) (storage.Storage, error) {
	var s storage.Storage
	switch path := a.cfg.Storage.Path; {
	case path == "":
		s = &storage.NoopStorage{}
	case filepath.Ext(path) == ".json":
		s = storage.NewJSONStorage(path)
	default:
		s = bolt.NewStorage(path, a.logger)
	}
	if err := s.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening storage %s: %w", a.cfg.Storage.Path, err)
	}
	return s, nil
}

// dispatcher logs workflow requests and, if there's an MQTT broker,
// publishes them.  The returned function releases resources.
func (a *app) dispatcher(ctx context.Context) (dispatch.Dispatcher, func(), error) {
	ds := dispatch.Multi{dispatch.NewLog(a.logger)}
	if a.cfg.MQTT.Broker == "" {
		return ds, func() {}, nil
	}
	client := mqtt.NewClient(&a.cfg.MQTT, a.logger)
	p := mqtt.NewPublisher(client, a.cfg.MQTT.Topic, a.logger)
	if err := p.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", a.cfg.MQTT.Broker, err)
	}
	ds = append(ds, p)
	return ds, func() {
		if err := p.Close(); err != nil {
			a.logger.Warn("mqtt close", zap.Error(err))
		}
	}, nil
}

// newCrew makes a Crew with the configured everything and loads its
// conversations from storage.
func (a *app) newCrew(ctx context.Context, store *core.Store, st storage.Storage, d dispatch.Dispatcher) (*crew.Crew, error) {
	c := crew.NewCrew(a.cfg.Storage.Crew, store, &crew.Config{
		Dispatcher:   d,
		Storage:      st,
		Interpreters: interpreters.Standard(),
		MaxDepth:     a.cfg.MaxDepth,
		Logger:       a.logger,
	})
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
