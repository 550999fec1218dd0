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

// Package commands implements the CLI commands of the typecheck tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"dirpx.dev/typecheck/hint"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// CLI represents the command line interface for typecheck.
type CLI struct {
	rootCmd *cobra.Command
	log     *slog.Logger
	parser  *hint.Parser
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "typecheck",
		Short:         "Validate documents against Python-style type hints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-format", LogFormatText, "Log format: text or json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		rootCmd: rootCmd,
		log:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
		parser:  hint.NewParser(),
	}
	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newParseCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO redirects the standard streams of every command.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
	c.log = slog.New(slog.NewTextHandler(errOut, nil))
}

// Report logs err with its structured metadata.
func (c *CLI) Report(ctx context.Context, err error) {
	zerr.Log(ctx, c.log, err)
}

// setup builds the logger and applies the configuration file before any
// command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("log-format")
	if err != nil {
		return err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), format, verbose)
	if err != nil {
		return err
	}
	c.log = log

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	fc := &FileConfig{}
	if path != "" {
		if fc, err = LoadConfig(path); err != nil {
			return err
		}
		c.log.Debug("loaded configuration", "path", path)
	}
	parser, err := fc.Apply(c.log)
	if err != nil {
		return err
	}
	c.parser = parser
	return nil
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case LogFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, zerr.With(zerr.New(fmt.Sprintf("unknown log format %q", format)), "flag", "log-format")
	}
}
