// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const probeTimeout = 2 * time.Second

// ProbeStatus is the result of one health probe against a running server.
type ProbeStatus struct {
	Probe  string `json:"probe"`
	OK     bool   `json:"ok"`
	Code   int    `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

var probes = []struct{ name, path string }{
	{"liveness", "/healthz/liveness"},
	{"readiness", "/healthz/readiness"},
}

// newStatusCmd creates the status subcommand.
func newStatusCmd(deps *Deps) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the health of a running authcore serve process",
		Long: `Query the liveness and readiness probes of the serve process listening on
metrics.addr. The command exits non-zero unless both probes pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, deps, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, deps *Deps, jsonOutput bool) error {
	a, err := loadApp(cmd, deps)
	if err != nil {
		return err
	}
	if a.cfg.Metrics.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("field", "metrics.addr").Errorf("metrics.addr is empty; serve exposes no probes")
	}

	client := &http.Client{Timeout: probeTimeout}
	statuses := make([]ProbeStatus, 0, len(probes))
	healthy := true
	for _, p := range probes {
		st := queryProbe(cmd.Context(), client, "http://"+a.cfg.Metrics.Addr+p.path)
		st.Probe = p.name
		healthy = healthy && st.OK
		statuses = append(statuses, st)
	}

	if jsonOutput {
		if err := printJSON(cmd, statuses); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), formatStatusTable(a.cfg.Metrics.Addr, statuses))
	}

	if !healthy {
		return oops.Code("NOT_HEALTHY").With("addr", a.cfg.Metrics.Addr).Errorf("authcore at %s is not healthy", a.cfg.Metrics.Addr)
	}
	return nil
}

func queryProbe(ctx context.Context, client *http.Client, url string) ProbeStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return ProbeStatus{Detail: err.Error()}
	}
	resp, err := client.Do(req)
	if err != nil {
		return ProbeStatus{Detail: fmt.Sprintf("failed to connect: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return ProbeStatus{
		OK:     resp.StatusCode == http.StatusOK,
		Code:   resp.StatusCode,
		Detail: strings.TrimSpace(string(body)),
	}
}

// formatStatusTable formats the probe results as a human-readable table.
func formatStatusTable(addr string, statuses []ProbeStatus) string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "authcore at %s\n", addr)

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t------\t------")
	for _, st := range statuses {
		state := "fail"
		if st.OK {
			state = "ok"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", st.Probe, state, st.Detail)
	}
	_ = w.Flush()
	return sb.String()
}
