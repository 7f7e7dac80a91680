// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli holds the root command of osmwrangle and the helpers shared
// by its subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/rules"
)

// DSNEnv is the environment variable holding the default database.
const DSNEnv = "OSMWRANGLE_DSN"

var RootCmd = &cobra.Command{
	Use:   "osmwrangle",
	Short: "Sample, audit, clean and load OpenStreetMap extracts",
	Long: `osmwrangle wrangles an OpenStreetMap extract into a relational database.

  sample  keep every k-th element of a document
  audit   report malformed street names, postcodes, cities and cuisines
  shape   clean address tags and write the five tables as CSV files
  load    load the CSV files into SQLite or PostgreSQL
  import  shape and load in a single run
  info    count the elements of a document`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "log debug output")
	flags.Bool("progress", true, "show a progress bar while reading input files")
	flags.String("env-file", ".env", "file of environment variables to load")
}

// Execute runs the root command, cancelling it on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to load %s: %w", envFile, err)
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("run", uuid.NewString()))

	slog.Debug("starting", "command", cmd.Name())

	return nil
}

// Input is a decoder over the input document of a command.
type Input struct {
	*osmwrangle.Decoder

	in io.Closer
}

// Close closes the decoder and the underlying file.
func (i *Input) Close() error {
	return errors.Join(i.Decoder.Close(), i.in.Close())
}

// OpenInput opens the document named by args, or stdin when args is empty.
// Compression and format follow the file name; stdin is plain XML.
func OpenInput(cmd *cobra.Command, args []string, opts ...osmwrangle.DecoderOption) (*Input, error) {
	f, name := os.Stdin, ""

	if len(args) > 0 && args[0] != "-" {
		var err error
		if f, err = os.Open(args[0]); err != nil {
			return nil, err
		}

		name = args[0]
	}

	var in io.ReadCloser = f

	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		var err error
		if in, err = WrapInputFile(f); err != nil {
			_ = f.Close()

			return nil, err
		}
	}

	d, err := osmwrangle.NewDecoderForPath(cmd.Context(), in, name, opts...)
	if err != nil {
		_ = in.Close()

		return nil, err
	}

	return &Input{Decoder: d, in: in}, nil
}

// LoadRules reads the rules file at path, the built-in rules when path is
// empty, and compiles them.
func LoadRules(path string) (*rules.Compiled, error) {
	r, err := rules.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return rules.Compile(r)
}

// DSN returns the --dsn flag, falling back to the environment.
func DSN(cmd *cobra.Command) (string, error) {
	dsn, err := cmd.Flags().GetString("dsn")
	if err != nil {
		return "", err
	}

	if dsn == "" {
		dsn = os.Getenv(DSNEnv)
	}

	if dsn == "" {
		return "", fmt.Errorf("no database: set --dsn or %s", DSNEnv)
	}

	return dsn, nil
}
