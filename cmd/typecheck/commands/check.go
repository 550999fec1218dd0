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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"dirpx.dev/typecheck"
	"dirpx.dev/typecheck/cache"
	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/hint"
)

// ErrCheckFailed is returned when at least one document does not conform.
var ErrCheckFailed = errors.New("typecheck: check failed")

// stdinPath names standard input as a document.
const stdinPath = "-"

type checkOptions struct {
	hint    string
	freeze  bool
	jobs    int
	metrics bool
}

func (c *CLI) newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check --hint EXPR [files...]",
		Short: "Check YAML or JSON documents against a type hint",
		Long: "Check decodes every file (or standard input when none is given) and\n" +
			"validates it against the hint. Sequences decode to lists and mappings\n" +
			"to dicts; --freeze turns them into tuples and frozendicts instead.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.hint, "hint", "", "Type hint expression, e.g. dict[str, list[int]]")
	cmd.Flags().BoolVar(&opts.freeze, "freeze", false, "Decode documents into immutable containers")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Number of documents checked concurrently")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print cache metrics in Prometheus text format")
	_ = cmd.MarkFlagRequired("hint")
	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	h, err := c.parser.Parse(opts.hint)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid hint"), "hint", opts.hint)
	}
	if len(args) == 0 {
		args = []string{stdinPath}
	}

	results := make([]error, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.checkDocument(cmd.InOrStdin(), path, h, opts.freeze)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, path := range args {
		if results[i] != nil {
			failed++
			fmt.Fprintf(out, "%s: FAIL: %v\n", path, results[i])
			zerr.Log(cmd.Context(), c.log, zerr.With(results[i], "path", path))
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", path)
	}

	if opts.metrics {
		if err := writeMetrics(out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return zerr.Wrap(ErrCheckFailed, fmt.Sprintf("%d of %d documents failed", failed, len(args)))
	}
	return nil
}

func (c *CLI) checkDocument(stdin io.Reader, path string, h hint.Hint, freeze bool) error {
	doc, err := readDocument(stdin, path)
	if err != nil {
		return err
	}
	if freeze {
		doc = freezeValue(doc)
	}
	c.log.Debug("checking document", "path", path, "hint", h.String())
	return typecheck.Validate(doc, h)
}

func readDocument(stdin io.Reader, path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read document"), "path", path)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decode document"), "path", path)
	}
	return doc, nil
}

// freezeValue rebuilds decoded sequences as tuples and mappings as
// frozendicts, recursively.
func freezeValue(v any) any {
	switch v := v.(type) {
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = freezeValue(item)
		}
		return frozen.TupleOf(items...)
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = freezeValue(item)
		}
		return frozen.MapOf(m)
	case map[any]any:
		m := make(map[any]any, len(v))
		for k, item := range v {
			m[k] = freezeValue(item)
		}
		return frozen.MapOf(m)
	default:
		return v
	}
}

// writeMetrics prints the global cache statistics in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer) error {
	c, ok := typecheck.Cache().(*cache.Cache)
	if !ok {
		return nil
	}
	reg := prometheus.NewRegistry()
	if err := reg.Register(cache.NewCollector(c)); err != nil {
		return zerr.Wrap(err, "register cache collector")
	}
	families, err := reg.Gather()
	if err != nil {
		return zerr.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return zerr.Wrap(err, "write metrics")
		}
	}
	return nil
}
