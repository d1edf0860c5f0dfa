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

package tools

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var inlineDirective = regexp.MustCompile(`%inline *\("([^"]*)"\)`)

// Inline replaces '%inline("NAME")' with f(NAME).
//
// Replacements are not themselves expanded.
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	var (
		acc = make([]byte, 0, len(bs))
		i   = 0
	)
	for _, loc := range inlineDirective.FindAllSubmatchIndex(bs, -1) {
		acc = append(acc, bs[i:loc[0]]...)
		replacement, err := f(string(bs[loc[2]:loc[3]]))
		if err != nil {
			return nil, err
		}
		acc = append(acc, replacement...)
		i = loc[1]
	}
	return append(acc, bs[i:]...), nil
}

// InlineYAML is Inline for YAML sources: each replacement is
// rendered as a double-quoted YAML string so that a template file's
// markup and line breaks survive.
func InlineYAML(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	return Inline(bs, func(name string) ([]byte, error) {
		bs, err := f(name)
		if err != nil {
			return nil, err
		}
		return []byte(strconv.Quote(string(bs))), nil
	})
}

func dirReader(dir string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.ReadFile(name)
	}
}

// ReadFileWithInlines is a replacement for os.ReadFile that adds
// automatic InlineYAML()ing based on the directory obtained from the
// filename.
//
// '%inline("NAME")' is replaced with ReadFile(NAME).
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return InlineYAML(bs, dirReader(filepath.Dir(filename)))
}

// ReadAllWithInlines is a replacement for io.ReadAll that adds
// automatic InlineYAML()ing based on the given directory.
func ReadAllWithInlines(in io.Reader, dir string) ([]byte, error) {
	bs, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return InlineYAML(bs, dirReader(dir))
}
