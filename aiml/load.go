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

package aiml

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/tools"

	"go.uber.org/zap"
)

// Extensions maps file extensions to formats.
var Extensions = map[string]string{
	".aiml": "aiml",
	".xml":  "aiml",
	".yaml": "yaml",
	".yml":  "yaml",
}

// Loader reads category files and directories.
type Loader struct {
	Logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Logger: logger,
	}
}

// LoadFile reads the categories in the given file.  The format is
// determined by the file's extension.
func (l *Loader) LoadFile(filename string) ([]*core.Category, error) {
	format, have := Extensions[strings.ToLower(filepath.Ext(filename))]
	if !have {
		return nil, fmt.Errorf("%s: unknown category file extension", filename)
	}

	var (
		cs  []*core.Category
		err error
	)
	switch format {
	case "yaml":
		var bs []byte
		if bs, err = tools.ReadFileWithInlines(filename); err != nil {
			return nil, err
		}
		cs, err = ReadYAML(bs, filename)
	default:
		var bs []byte
		if bs, err = os.ReadFile(filename); err != nil {
			return nil, err
		}
		cs, err = Read(bytes.NewReader(bs), filename)
	}
	if err != nil {
		return nil, err
	}

	l.Logger.Debug("loaded categories", zap.String("file", filename), zap.Int("count", len(cs)))
	return cs, nil
}

// LoadDir reads every category file in the directory (not
// recursively) in lexical order of file names.
func (l *Loader) LoadDir(dir string) ([]*core.Category, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var acc []*core.Category
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		if _, have := Extensions[strings.ToLower(filepath.Ext(de.Name()))]; !have {
			continue
		}
		cs, err := l.LoadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		acc = append(acc, cs...)
	}
	return acc, nil
}

// Load reads the given files and directories in order.
func (l *Loader) Load(paths ...string) ([]*core.Category, error) {
	var acc []*core.Category
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		var cs []*core.Category
		if fi.IsDir() {
			cs, err = l.LoadDir(path)
		} else {
			cs, err = l.LoadFile(path)
		}
		if err != nil {
			return nil, err
		}
		acc = append(acc, cs...)
	}
	return acc, nil
}

// LoadStore makes a Store from the given files and directories.
func (l *Loader) LoadStore(paths ...string) (*core.Store, error) {
	cs, err := l.Load(paths...)
	if err != nil {
		return nil, err
	}
	l.Logger.Info("loaded store", zap.Int("categories", len(cs)))
	return core.NewStore(cs...), nil
}

// SaveLearned writes the Store's learned Categories to the given
// file as AIML.
func (l *Loader) SaveLearned(filename string, s *core.Store) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = WriteLearned(f, s); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	l.Logger.Info("saved learned categories", zap.String("file", filename), zap.Int("count", len(s.Learned())))
	return nil
}
