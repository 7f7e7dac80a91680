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

package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/model"
)

var out io.Writer = os.Stdout

type extendedHeader struct {
	model.Header

	Extent        *model.BoundingBox `json:"extent,omitempty"`
	NodeCount     int64              `json:"node_count"`
	WayCount      int64              `json:"way_count"`
	RelationCount int64              `json:"relation_count"`
	TagCount      int64              `json:"tag_count"`
	OutsideCount  int64              `json:"outside_count"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.Uint16P("cpu", "c", osmwrangle.DefaultNCpu(), "number of CPUs to use for decoding PBF input")
}

var infoCmd = &cobra.Command{
	Use:   "info [<OSM file>]",
	Short: "Print information about an OSM file",
	Long:  "Print the header, element counts and node extent of an OSM file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		ncpu, err := flags.GetUint16("cpu")
		if err != nil {
			return err
		}

		in, err := cli.OpenInput(cmd, args, osmwrangle.WithNCpus(ncpu))
		if err != nil {
			return err
		}
		defer in.Close()

		info, err := runInfo(cmd.Context(), in.Decoder)
		if err != nil {
			return err
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			return err
		}

		if jsonfmt {
			return renderJSON(info)
		}

		renderTxt(info)

		return nil
	},
}

func runInfo(ctx context.Context, d *osmwrangle.Decoder) (*extendedHeader, error) {
	info := &extendedHeader{Header: d.Header}
	extent := model.InitialBoundingBox()

	for e, err := range d.Elements() {
		if err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info.TagCount += int64(len(e.GetTags()))

		switch v := e.(type) {
		case *model.Node:
			info.NodeCount++
			extent.ExpandWithLatLng(v.Lat, v.Lon)

			if b := info.BoundingBox; b != nil && !b.Contains(v.Lat, v.Lon) {
				info.OutsideCount++
			}
		case *model.Way:
			info.WayCount++
		case *model.Relation:
			info.RelationCount++
		default:
			return nil, fmt.Errorf("unknown type %T", v)
		}
	}

	if !extent.IsEmpty() {
		info.Extent = extent
	}

	return info, nil
}

func renderJSON(info *extendedHeader) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(info *extendedHeader) {
	fmt.Fprintf(out, "Version: %s\n", info.Version)
	fmt.Fprintf(out, "Generator: %s\n", info.Generator)

	if info.BoundingBox != nil {
		fmt.Fprintf(out, "BoundingBox: %s\n", info.BoundingBox)
	}

	if info.Extent != nil {
		// an extent matching the declared bounds is not repeated
		if info.BoundingBox == nil || !info.Extent.EqualWithin(info.BoundingBox, model.E7) {
			fmt.Fprintf(out, "Extent: %s\n", info.Extent)
		}

		height, width := info.Extent.Span()
		fmt.Fprintf(out, "Span: %s° x %s°\n", height, width)
	}

	fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(info.NodeCount))
	fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(info.WayCount))
	fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(info.RelationCount))
	fmt.Fprintf(out, "TagCount: %s\n", humanize.Comma(info.TagCount))

	if info.BoundingBox != nil {
		fmt.Fprintf(out, "OutsideCount: %s\n", humanize.Comma(info.OutsideCount))
	}
}
