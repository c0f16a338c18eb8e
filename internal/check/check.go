// Package check runs the quota report pipeline: fetch raw metrics, reduce them
// to a per-model limits table, render it, and optionally splice the report
// into a managed document section.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/docpatch"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/report"
)

// ErrServiceNotEnabled is returned when the service is not enabled for the project.
var ErrServiceNotEnabled = errors.New("check: service not enabled")

// Troubleshooting is printed after a failed fetch.
var Troubleshooting = []string{
	"1. Ensure you have run 'gcloud auth application-default login'.",
	"2. Ensure your account has 'Service Usage Consumer' role.",
	"3. Ensure the Project ID is correct.",
}

type Options struct {
	ProjectID string
	Service   string

	// UpdateDocument enables splicing the report into DocumentPath.
	UpdateDocument bool
	DocumentPath   string
	StartMarker    string
	EndMarker      string
	// Timestamp prefixes the persisted block with a generation time.
	Timestamp bool

	MetricsFile string

	// Styler colors the report written to the output; nil prints plain text.
	Styler *report.Styler
	Now    func() time.Time
}

type Result struct {
	Table           core.ModelLimitsTable
	Models          []string
	Report          string
	DocumentUpdated bool
}

// Run executes the pipeline against src, writing progress and the report to
// out. The document is only touched after the report is fully rendered, and
// never when fetching fails.
func Run(ctx context.Context, src core.QuotaSource, out io.Writer, opts Options) (Result, error) {
	fmt.Fprintf(out, "Checking quotas for Project ID: %s...\n", opts.ProjectID)

	state, err := src.ServiceState(ctx, opts.ProjectID, opts.Service)
	if err != nil {
		return Result{}, fmt.Errorf("check: service state: %w", err)
	}
	if state != core.ServiceStateEnabled {
		fmt.Fprintf(out, "Service '%s' is NOT ENABLED for this project.\n", opts.Service)
		return Result{}, fmt.Errorf("%w: %s is %s", ErrServiceNotEnabled, opts.Service, stateOrUnknown(state))
	}
	fmt.Fprintf(out, "Service '%s' is ENABLED. Fetching consumer quota metrics...\n", opts.Service)

	metrics, err := src.ConsumerQuotaMetrics(ctx, opts.ProjectID, opts.Service)
	if err != nil {
		return Result{}, fmt.Errorf("check: consumer quota metrics: %w", err)
	}
	log.Debugf("check: fetched %d quota metrics for %s", len(metrics), opts.ProjectID)

	tuples := core.CollectTuples(metrics)
	table := core.ReduceLimits(tuples)
	models := core.FilterModels(table.Models())
	log.Debugf("check: %d tuples reduced to %d models, %d shown", len(tuples), len(table), len(models))

	res := Result{
		Table:  table,
		Models: models,
		Report: report.Render(table, models),
	}

	fmt.Fprintln(out)
	if opts.Styler != nil {
		fmt.Fprint(out, opts.Styler.Render(table, models))
	} else {
		fmt.Fprint(out, res.Report)
	}

	if opts.MetricsFile != "" {
		if err := report.WriteMetricsFile(opts.MetricsFile, table); err != nil {
			log.Warnf("check: %v", err)
		}
	}

	if opts.UpdateDocument {
		res.DocumentUpdated = updateDocument(out, res.Report, opts)
	}
	return res, nil
}

func updateDocument(out io.Writer, rendered string, opts Options) bool {
	var generatedAt time.Time
	if opts.Timestamp {
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		generatedAt = now()
	}

	block := report.Block(rendered, generatedAt)
	changed, err := docpatch.PatchFile(opts.DocumentPath, opts.StartMarker, opts.EndMarker, block)
	switch {
	case errors.Is(err, docpatch.ErrMarkersNotFound):
		log.Warnf("Markers %s and %s not found in %s", opts.StartMarker, opts.EndMarker, opts.DocumentPath)
		return false
	case err != nil:
		log.Warnf("Error updating %s: %v", opts.DocumentPath, err)
		return false
	case !changed:
		fmt.Fprintf(out, "%s is already up to date\n", opts.DocumentPath)
		return false
	}
	fmt.Fprintf(out, "Successfully updated %s\n", opts.DocumentPath)
	return true
}

func stateOrUnknown(state string) string {
	if state == "" {
		return "STATE_UNSPECIFIED"
	}
	return state
}
