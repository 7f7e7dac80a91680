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

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmwrangle"
	"m4o.io/osmwrangle/audit"
	"m4o.io/osmwrangle/cmd/osmwrangle/cli"
	"m4o.io/osmwrangle/rules"
)

var out io.Writer = os.Stdout

func init() {
	cli.RootCmd.AddCommand(auditCmd)

	flags := auditCmd.Flags()
	flags.StringP("rules", "r", "", "YAML rules file overriding the built-in rules")
	flags.BoolP("json", "j", false, "format the reports in JSON")
	flags.IntP("limit", "l", 5, "maximum number of values shown per defect, 0 for all")
	flags.StringSliceP("category", "c", nil, "restrict the audit to these categories")
}

var auditCmd = &cobra.Command{
	Use:   "audit [<OSM file>]",
	Short: "Report malformed address and cuisine values",
	Long: "Report malformed address and cuisine values, grouped by defect category.\n\nCategories: " +
		categoryList(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		path, err := flags.GetString("rules")
		if err != nil {
			return err
		}

		compiled, err := cli.LoadRules(path)
		if err != nil {
			return err
		}

		names, err := flags.GetStringSlice("category")
		if err != nil {
			return err
		}

		categories, err := parseCategories(names)
		if err != nil {
			return err
		}

		in, err := cli.OpenInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		result, err := runAudit(cmd.Context(), in.Decoder, compiled, categories)
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

		limit, err := flags.GetInt("limit")
		if err != nil {
			return err
		}

		renderTxt(result, limit)

		return nil
	},
}

func categoryList() string {
	names := make([]string, 0, len(rules.Categories()))
	for _, c := range rules.Categories() {
		names = append(names, c.String())
	}

	return strings.Join(names, ", ")
}

func parseCategories(names []string) ([]rules.Category, error) {
	var categories []rules.Category

	for _, n := range names {
		c, err := rules.ParseCategory(n)
		if err != nil {
			return nil, err
		}

		categories = append(categories, c)
	}

	return categories, nil
}

func runAudit(ctx context.Context, d *osmwrangle.Decoder, compiled *rules.Compiled, categories []rules.Category) (*audit.Result, error) {
	var opts []audit.Option
	if len(categories) > 0 {
		opts = append(opts, audit.WithCategories(categories...))
	}

	return audit.New(compiled, opts...).Audit(ctx, d.Elements())
}

func renderJSON(result *audit.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(result *audit.Result, limit int) {
	c := result.Counts

	fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(c.Nodes))
	fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(c.Ways))
	fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(c.Relations))
	fmt.Fprintf(out, "TagCount: %s\n", humanize.Comma(c.Tags))
	fmt.Fprintf(out, "DroppedTagCount: %s\n", humanize.Comma(c.DroppedTags))

	for _, category := range rules.Categories() {
		report := result.Report(category)
		if report.Len() == 0 {
			continue
		}

		fmt.Fprintf(out, "\n%s (%s)\n", category, humanize.Comma(int64(report.Len())))

		for key, values := range report.All() {
			shown := values
			if limit > 0 && len(values) > limit {
				shown = values[:limit]
			}

			fmt.Fprintf(out, "  %s: %s", key, strings.Join(shown, " | "))

			if more := len(values) - len(shown); more > 0 {
				fmt.Fprintf(out, " (+%s more)", humanize.Comma(int64(more)))
			}

			fmt.Fprintln(out)
		}
	}
}
