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

package load

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/shape"
	"m4o.io/osmwrangle/store"
)

var out io.Writer = os.Stdout

var municipalities *os.File

func init() {
	cli.RootCmd.AddCommand(loadCmd)

	AddFlags(loadCmd)
	loadCmd.Flags().StringP("csv-dir", "i", "", "directory holding the CSV files written by shape")
	_ = loadCmd.MarkFlagRequired("csv-dir")
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the CSV tables written by shape into a database",
	Long: `Load the CSV tables written by shape into a database, in a single transaction.

The database is a sqlite:// path or a postgres:// URL, taken from --dsn or
the ` + cli.DSNEnv + ` environment variable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := cmd.Flags().GetString("csv-dir")
		if err != nil {
			return err
		}

		src, err := shape.OpenCSVDir(dir)
		if err != nil {
			return err
		}

		return Execute(cmd, src)
	},
}

// AddFlags registers the database flags on cmd.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("dsn", "", "database, sqlite://path or postgres://... (default $"+cli.DSNEnv+")")
	flags.Var(cli.NewFileValue(&municipalities, "file"), "municipalities", "municipalities CSV file to load alongside")
	flags.Bool("check", false, "list city and postcode values missing from the municipalities table")
	flags.Int("batch-size", 0, "maximum rows per INSERT statement")
	flags.BoolP("json", "j", false, "format the result in JSON")
}

// Result is the outcome of a load.
type Result struct {
	Counts store.Counts       `json:"counts"`
	Check  *store.CheckReport `json:"check,omitempty"`
}

// Execute opens the database named by the flags of cmd, loads src and
// prints the result.
func Execute(cmd *cobra.Command, src shape.RowSource) error {
	flags := cmd.Flags()

	dsn, err := cli.DSN(cmd)
	if err != nil {
		return err
	}

	batch, err := flags.GetInt("batch-size")
	if err != nil {
		return err
	}

	check, err := flags.GetBool("check")
	if err != nil {
		return err
	}

	var ms []store.Municipality

	if municipalities != nil {
		ms, err = store.ReadMunicipalities(municipalities)
		_ = municipalities.Close()

		if err != nil {
			return err
		}
	}

	s, err := store.Open(cmd.Context(), dsn, store.WithBatchSize(batch))
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := Run(cmd.Context(), s, src, ms, check)
	if err != nil {
		return err
	}

	jsonfmt, err := flags.GetBool("json")
	if err != nil {
		return err
	}

	if jsonfmt {
		return renderJSON(result)
	}

	renderTxt(result)

	return nil
}

// Run creates the schema and loads src, with the municipalities when given,
// then optionally cross-checks the address values.
func Run(ctx context.Context, s *store.Store, src shape.RowSource, ms []store.Municipality, check bool) (*Result, error) {
	if err := s.CreateSchema(ctx); err != nil {
		return nil, err
	}

	var opts []store.LoadOption
	if ms != nil {
		opts = append(opts, store.WithMunicipalities(ms))
	}

	counts, err := s.Load(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	result := &Result{Counts: counts}

	if check {
		report, err := s.CrossCheck(ctx)
		if err != nil {
			return nil, err
		}

		result.Check = &report
	}

	return result, nil
}

func renderJSON(result *Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(result *Result) {
	for _, t := range store.Schema {
		n, ok := result.Counts[t.Name]
		if !ok {
			continue
		}

		fmt.Fprintf(out, "%s: %s\n", t.Name, humanize.Comma(n))
	}

	if result.Check == nil {
		return
	}

	fmt.Fprintf(out, "UnknownCities: %s\n", strings.Join(result.Check.UnknownCities, " | "))
	fmt.Fprintf(out, "UnknownPostcodes: %s\n", strings.Join(result.Check.UnknownPostcodes, " | "))
}
