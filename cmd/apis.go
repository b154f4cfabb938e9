package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/apireg/core/api"
)

var outputFormat string

var apisCmd = &cobra.Command{
	Use:   "apis",
	Short: "Inspect registered APIs",
}

var apisLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered APIs with their winning scope",
	Args:  cobra.NoArgs,
	RunE:  runApisLs,
}

var apisResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Instantiate an API and its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runApisResolve,
}

func init() {
	apisLsCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	apisCmd.AddCommand(apisLsCmd, apisResolveCmd)
	rootCmd.AddCommand(apisCmd)
}

type apiRow struct {
	API      string   `json:"api" yaml:"api"`
	Scope    string   `json:"scope" yaml:"scope"`
	Priority int      `json:"priority" yaml:"priority"`
	Deps     []string `json:"deps,omitempty" yaml:"deps,omitempty"`
}

func rows(entries []api.Entry) []apiRow {
	out := make([]apiRow, len(entries))
	for i, e := range entries {
		r := apiRow{API: e.API.ID(), Scope: e.Scope.String(), Priority: e.Priority}
		for _, d := range e.Factory.Deps {
			r.Deps = append(r.Deps, d.ID())
		}
		sort.Strings(r.Deps)
		out[i] = r
	}
	return out
}

func writeRows(w io.Writer, format string, rs []apiRow) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rs); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "API\tSCOPE\tPRIORITY\tDEPS")
		for _, r := range rs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.API, r.Scope, r.Priority, strings.Join(r.Deps, ","))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %s", format)
}

func runApisLs(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeService(svc)
	return writeRows(cmd.OutOrStdout(), outputFormat, rows(svc.Registry.Entries()))
}

func runApisResolve(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeService(svc)
	ref, err := svc.Lookup(args[0])
	if err != nil {
		return err
	}
	inst, err := svc.Resolve(cmd.Context(), ref)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %T\n", ref.ID(), inst)
	return err
}
