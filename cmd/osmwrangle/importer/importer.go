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

package importer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/cmd/osmwrangle/load"
	cmdshape "m4o.io/osmwrangle/cmd/osmwrangle/shape"
	"m4o.io/osmwrangle/model"
	"m4o.io/osmwrangle/shape"
)

var out io.Writer = os.Stderr

func init() {
	cli.RootCmd.AddCommand(importCmd)

	cmdshape.AddFlags(importCmd)
	load.AddFlags(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [<OSM file>]",
	Short: "Shape an OSM document and load it into a database in one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shaper, err := cmdshape.NewShaper(cmd)
		if err != nil {
			return err
		}

		in, err := cli.OpenInput(cmd, args, osmwrangle.WithTypes(model.NODE, model.WAY))
		if err != nil {
			return err
		}
		defer in.Close()

		recs, err := runShape(cmd.Context(), in.Decoder, shaper)
		if err != nil {
			return err
		}

		return load.Execute(cmd, recs)
	},
}

func runShape(ctx context.Context, d *osmwrangle.Decoder, shaper *shape.Shaper) (*shape.Records, error) {
	var recs shape.Records

	stats, err := shaper.ShapeAll(ctx, d.Elements(), &recs)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Shaped:")
	cmdshape.RenderTxt(out, stats)

	return &recs, nil
}
