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

// Package bolt is a storage.Storage that uses bbolt.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Comcast/parley/storage"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var NotOpen = errors.New("bolt storage isn't open")

// Storage keeps each crew in a bucket.  The key is the conversation
// id.
type Storage struct {
	// Timeout is how long Open waits for the file lock.
	Timeout time.Duration

	filename string
	db       *bolt.DB
	logger   *zap.Logger
}

func NewStorage(filename string, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{
		Timeout:  time.Second,
		filename: filename,
		logger:   logger.With(zap.String("bolt", filename)),
	}
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: s.Timeout,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) MakeCrew(ctx context.Context, crew string) error {
	if s.db == nil {
		return NotOpen
	}
	s.logger.Debug("MakeCrew", zap.String("crew", crew))
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(crew))
		return err
	})
}

func (s *Storage) RemCrew(ctx context.Context, crew string) error {
	if s.db == nil {
		return NotOpen
	}
	s.logger.Debug("RemCrew", zap.String("crew", crew))
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(crew))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (s *Storage) GetCrew(ctx context.Context, crew string) ([]*storage.SessionState, error) {
	if s.db == nil {
		return nil, NotOpen
	}
	sss := make([]*storage.SessionState, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(crew))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for id, bs := c.First(); id != nil; id, bs = c.Next() {
			var ss storage.SessionState
			if err := json.Unmarshal(bs, &ss); err != nil {
				return err
			}
			ss.Id = string(id)
			sss = append(sss, &ss)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("GetCrew", zap.String("crew", crew), zap.Int("found", len(sss)))

	if len(sss) == 0 {
		return nil, nil
	}

	return sss, nil
}

func (s *Storage) WriteState(ctx context.Context, crew string, sss []*storage.SessionState) error {
	if 0 == len(sss) {
		return nil
	}
	if s.db == nil {
		return NotOpen
	}

	vals := make(map[string][]byte, len(sss))

	for _, ss := range sss {
		id := ss.Id
		if ss.Deleted {
			vals[id] = nil
			continue
		}
		// The id is the key.
		js, err := json.Marshal(&storage.SessionState{
			Session: ss.Session,
			Touched: ss.Touched,
		})
		if err != nil {
			return err
		}
		vals[id] = js
	}

	s.logger.Debug("WriteState", zap.String("crew", crew), zap.Int("states", len(vals)))

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(crew))
		if err != nil {
			return err
		}
		for id, bs := range vals {
			var (
				key = []byte(id)
				err error
			)
			if bs == nil {
				err = b.Delete(key)
			} else {
				err = b.Put(key, bs)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
