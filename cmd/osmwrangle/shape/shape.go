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

package shape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/clean"
	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/shape"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(shapeCmd)

	AddFlags(shapeCmd)
	shapeCmd.Flags().StringP("out-dir", "o", "", "directory receiving the CSV files")
	_ = shapeCmd.MarkFlagRequired("out-dir")
}

var shapeCmd = &cobra.Command{
	Use:   "shape [<OSM file>]",
	Short: "Clean address tags and write nodes and ways as CSV tables",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		dir, err := flags.GetString("out-dir")
		if err != nil {
			return err
		}

		shaper, err := NewShaper(cmd)
		if err != nil {
			return err
		}

		in, err := cli.OpenInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		stats, err := runShape(cmd.Context(), in.Decoder, shaper, dir)
		if err != nil {
			return err
		}

		RenderTxt(out, stats)

		return nil
	},
}

// AddFlags registers the shaping flags on another command.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("rules", "r", "", "YAML rules file overriding the built-in rules")
	flags.Bool("validate", false, "fail on elements missing a required attribute")
	flags.Bool("cuisine", false, "normalise cuisine values")
}

// NewShaper builds a shaper from the rules, validate and cuisine flags.
func NewShaper(cmd *cobra.Command) (*shape.Shaper, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("rules")
	if err != nil {
		return nil, err
	}

	compiled, err := cli.LoadRules(path)
	if err != nil {
		return nil, err
	}

	validate, err := flags.GetBool("validate")
	if err != nil {
		return nil, err
	}

	cuisine, err := flags.GetBool("cuisine")
	if err != nil {
		return nil, err
	}

	return shape.New(clean.New(compiled),
		shape.WithValidation(validate),
		shape.WithCuisineNormalization(cuisine)), nil
}

func runShape(ctx context.Context, d *osmwrangle.Decoder, shaper *shape.Shaper, dir string) (shape.Stats, error) {
	w, err := shape.NewCSVWriter(dir)
	if err != nil {
		return shape.Stats{}, err
	}

	stats, err := shaper.ShapeAll(ctx, d.Elements(), w)

	return stats, errors.Join(err, w.Close())
}

// RenderTxt prints the shaping statistics.
func RenderTxt(w io.Writer, stats shape.Stats) {
	fmt.Fprintf(w, "NodeCount: %s\n", humanize.Comma(stats.Nodes))
	fmt.Fprintf(w, "WayCount: %s\n", humanize.Comma(stats.Ways))
	fmt.Fprintf(w, "TagCount: %s\n", humanize.Comma(stats.Tags))
	fmt.Fprintf(w, "WayNodeCount: %s\n", humanize.Comma(stats.WayNodes))
	fmt.Fprintf(w, "CleanedCount: %s\n", humanize.Comma(stats.Cleaned))
	fmt.Fprintf(w, "DroppedTagCount: %s\n", humanize.Comma(stats.Dropped))
	fmt.Fprintf(w, "SkippedRelationCount: %s\n", humanize.Comma(stats.Relations))
}
