package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/infra/audit"
)

var (
	auditAPI    string
	auditKind   string
	auditFailed bool
	auditSince  time.Duration
	auditJSON   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the registration and resolution audit log",
}

var auditLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List audit records",
	Args:  cobra.NoArgs,
	RunE:  runAuditLs,
}

func init() {
	f := auditLsCmd.Flags()
	f.StringVar(&auditAPI, "api", "", "only records for this api id")
	f.StringVar(&auditKind, "kind", "", "registration or resolution")
	f.BoolVar(&auditFailed, "failed", false, "only rejected registrations and failed resolutions")
	f.DurationVar(&auditSince, "since", 0, "only records newer than this duration")
	f.BoolVar(&auditJSON, "json", false, "print one JSON record per line")
	auditCmd.AddCommand(auditLsCmd)
	rootCmd.AddCommand(auditCmd)
}

func auditQuery() (coreaudit.Query, error) {
	q := coreaudit.Query{API: auditAPI}
	switch k := events.Kind(auditKind); k {
	case "", events.KindRegistration, events.KindResolution:
		q.Kind = k
	default:
		return q, fmt.Errorf("unknown record kind %s", auditKind)
	}
	if auditFailed {
		ok := false
		q.OK = &ok
	}
	if auditSince > 0 {
		q.Start = time.Now().Add(-auditSince)
	}
	return q, nil
}

func runAuditLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	q, err := auditQuery()
	if err != nil {
		return err
	}
	store, err := audit.New(cfg.Audit)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()

	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if auditJSON {
		enc := json.NewEncoder(out)
		for _, r := range recs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tAPI\tOK\tDETAIL")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", r.Timestamp.Format(time.RFC3339), r.Kind, r.API, r.OK, detail(r))
	}
	return tw.Flush()
}

func detail(r coreaudit.Record) string {
	switch r.Kind {
	case events.KindRegistration:
		if r.Previous != "" {
			return fmt.Sprintf("scope=%s previous=%s", r.Scope, r.Previous)
		}
		return "scope=" + r.Scope
	case events.KindResolution:
		if r.Error != "" {
			return r.Error
		}
		if r.Cached {
			return "cached"
		}
		return fmt.Sprintf("%.3fms", r.DurationMS)
	}
	return ""
}
