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
	"errors"
	"io/fs"
	"os"
)

// JSONStorage is a primitive facility to keep conversations as JSON
// in a file.
//
// Not glamorous or efficient.  State is read by Open and written by
// Close (and Flush).  In between it's a MemStorage.
type JSONStorage struct {
	*MemStorage

	// Filename is read (if it exists) and written.
	Filename string
}

func NewJSONStorage(filename string) *JSONStorage {
	return &JSONStorage{
		MemStorage: NewMemStorage(),
		Filename:   filename,
	}
}

// Open reads the file if it exists.
func (s *JSONStorage) Open(ctx context.Context) error {
	js, err := os.ReadFile(s.Filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	crews := make(map[string]map[string]json.RawMessage)
	if err = json.Unmarshal(js, &crews); err != nil {
		return err
	}
	s.Lock()
	for crew, ss := range crews {
		c := make(map[string][]byte, len(ss))
		for id, raw := range ss {
			c[id] = []byte(raw)
		}
		s.crews[crew] = c
	}
	s.Unlock()
	return nil
}

// Flush writes everything as JSON.
func (s *JSONStorage) Flush(ctx context.Context) error {
	s.Lock()
	crews := make(map[string]map[string]json.RawMessage, len(s.crews))
	for crew, ss := range s.crews {
		c := make(map[string]json.RawMessage, len(ss))
		for id, bs := range ss {
			c[id] = json.RawMessage(bs)
		}
		crews[crew] = c
	}
	s.Unlock()

	js, err := json.MarshalIndent(crews, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Filename, js, 0644)
}

// Close calls Flush.
func (s *JSONStorage) Close(ctx context.Context) error {
	return s.Flush(ctx)
}
