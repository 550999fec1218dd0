/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"dirpx.dev/typecheck"
	"dirpx.dev/typecheck/config"
	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
)

// FileConfig is the YAML configuration file of the CLI. Unset fields keep
// their defaults.
type FileConfig struct {
	MaxDepth    *int                       `yaml:"max_depth"`
	MaxUnwrap   *int                       `yaml:"max_unwrap"`
	Caching     *bool                      `yaml:"caching"`
	Noncachable []string                   `yaml:"noncachable"`
	Definitions []Definition               `yaml:"definitions"`
	Shapes      map[string]shape.Structure `yaml:"shapes"`
}

// Definition names a hint expression. Later definitions may refer to
// earlier ones.
type Definition struct {
	Name string `yaml:"name"`
	Hint string `yaml:"hint"`
}

// documentTypes are the Go types documents decode to, by the name the
// configuration file uses for them.
var documentTypes = map[string]reflect.Type{
	"list":       reflect.TypeFor[[]any](),
	"dict":       reflect.TypeFor[map[string]any](),
	"tuple":      reflect.TypeFor[*frozen.Tuple[any]](),
	"frozendict": reflect.TypeFor[*frozen.Map[string, any]](),
}

// LoadConfig reads a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read config"), "path", path)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parse config"), "path", path)
	}
	return &fc, nil
}

// Apply installs the configuration as the global typecheck configuration,
// registers its shapes and returns a parser knowing its definitions.
func (fc *FileConfig) Apply(log *slog.Logger) (*hint.Parser, error) {
	opts := []config.Option{config.WithLogger(log)}
	if fc.MaxDepth != nil {
		opts = append(opts, config.WithMaxDepth(*fc.MaxDepth))
	}
	if fc.MaxUnwrap != nil {
		opts = append(opts, config.WithMaxUnwrap(*fc.MaxUnwrap))
	}
	if fc.Caching != nil {
		opts = append(opts, config.WithCaching(*fc.Caching))
	}
	for _, name := range fc.Noncachable {
		t, err := documentType(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithNoncachable(t))
	}
	typecheck.SetConfig(config.NewConfig(opts...))

	for _, name := range slices.Sorted(maps.Keys(fc.Shapes)) {
		t, err := documentType(name)
		if err != nil {
			return nil, err
		}
		if err := typecheck.RegisterShape(t, fc.Shapes[name]); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "register shape"), "type", name)
		}
	}

	p := hint.NewParser()
	for _, d := range fc.Definitions {
		h, err := p.Parse(d.Hint)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid definition"), "name", d.Name)
		}
		if err := p.Define(d.Name, h); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid definition"), "name", d.Name)
		}
	}
	return p, nil
}

func documentType(name string) (reflect.Type, error) {
	t, ok := documentTypes[name]
	if !ok {
		return nil, zerr.With(zerr.New("unknown document type"), "type", name)
	}
	return t, nil
}
