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

package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemStorage keeps serialized SessionStates in memory.
type MemStorage struct {
	sync.Mutex

	crews map[string]map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		crews: make(map[string]map[string][]byte),
	}
}

func (s *MemStorage) MakeCrew(ctx context.Context, crew string) error {
	s.Lock()
	if _, have := s.crews[crew]; !have {
		s.crews[crew] = make(map[string][]byte)
	}
	s.Unlock()
	return nil
}

func (s *MemStorage) RemCrew(ctx context.Context, crew string) error {
	s.Lock()
	delete(s.crews, crew)
	s.Unlock()
	return nil
}

func (s *MemStorage) GetCrew(ctx context.Context, crew string) ([]*SessionState, error) {
	s.Lock()
	defer s.Unlock()
	var acc []*SessionState
	for id, bs := range s.crews[crew] {
		var ss SessionState
		if err := json.Unmarshal(bs, &ss); err != nil {
			return nil, err
		}
		ss.Id = id
		acc = append(acc, &ss)
	}
	return acc, nil
}

func (s *MemStorage) WriteState(ctx context.Context, crew string, ss []*SessionState) error {
	s.Lock()
	defer s.Unlock()
	c, have := s.crews[crew]
	if !have {
		c = make(map[string][]byte)
		s.crews[crew] = c
	}
	for _, st := range ss {
		if st.Deleted {
			delete(c, st.Id)
			continue
		}
		bs, err := json.Marshal(st)
		if err != nil {
			return err
		}
		c[st.Id] = bs
	}
	return nil
}

func (s *MemStorage) Open(ctx context.Context) error {
	return nil
}

func (s *MemStorage) Close(ctx context.Context) error {
	return nil
}
