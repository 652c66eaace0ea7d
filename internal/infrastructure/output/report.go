// Package output renders guard verdicts for the command line.
package output

import (
	"context"

	"github.com/reglet-dev/voyage/internal/application/ports"
)

// VerdictRow is the outcome of one evaluated URL.
type VerdictRow struct {
	URL      string `json:"url" yaml:"url"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Allowed  bool   `json:"allowed" yaml:"allowed"`
}

// Evaluate runs every target through g in order.
func Evaluate(ctx context.Context, g ports.Guard, targets []string) []VerdictRow {
	rows := make([]VerdictRow, 0, len(targets))
	for _, target := range targets {
		v := g.Check(ctx, target)
		rows = append(rows, VerdictRow{
			URL:      target,
			Hostname: v.Hostname,
			Reason:   string(v.Reason),
			Allowed:  v.Allowed,
		})
	}
	return rows
}
