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

package sample

import (
	"context"
	"fmt"
	"io"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/sample"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(sampleCmd)

	flags := sampleCmd.Flags()
	flags.IntP("stride", "k", 10, "keep every k-th element")
	flags.StringP("output", "o", "", "sampled document, compressed by extension (.gz, .zst, .lz4, .xz)")
	_ = sampleCmd.MarkFlagRequired("output")
}

var sampleCmd = &cobra.Command{
	Use:   "sample [<OSM file>]",
	Short: "Write every k-th element of an OSM document to a new document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		k, err := flags.GetInt("stride")
		if err != nil {
			return err
		}

		dst, err := flags.GetString("output")
		if err != nil {
			return err
		}

		in, err := cli.OpenInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		stats, err := runSample(cmd.Context(), in.Decoder, k, dst)
		if err != nil {
			return err
		}

		renderTxt(stats, dst)

		return nil
	},
}

func runSample(ctx context.Context, d *osmwrangle.Decoder, k int, dst string) (sample.Stats, error) {
	s, err := sample.New(k)
	if err != nil {
		return sample.Stats{}, err
	}

	return s.SampleTo(ctx, d, dst)
}

func renderTxt(stats sample.Stats, dst string) {
	fmt.Fprintf(out, "Read: %s\n", humanize.Comma(stats.Read))
	fmt.Fprintf(out, "Written: %s\n", humanize.Comma(stats.Written))
	fmt.Fprintf(out, "Output: %s\n", dst)
}
