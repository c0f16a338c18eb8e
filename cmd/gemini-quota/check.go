package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/check"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/config"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/providers/serviceusage"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/report"
)

// reportedError marks errors whose user-facing message was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

type checkFlags struct {
	updateReadme bool
	readme       string
	project      string
	timestamp    bool
	metricsFile  string
	noColor      bool
}

func newCheckCommand() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fetch quota limits and print the per-model table.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, f)
		},
	}
	cmd.Flags().BoolVar(&f.updateReadme, "update-readme", false, "update the README file with the output")
	cmd.Flags().StringVar(&f.readme, "readme", "", "document to update (default from settings, README.md)")
	cmd.Flags().StringVar(&f.project, "project", "", "Google Cloud project id (default: $GCP_PROJECT_ID, $GOOGLE_CLOUD_PROJECT, settings, credentials)")
	cmd.Flags().BoolVar(&f.timestamp, "timestamp", false, "prefix the document block with a generation timestamp")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "also write limits to a Prometheus textfile")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored output")
	return cmd
}

func runCheck(cmd *cobra.Command, f checkFlags) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- Gemini API Quota Checker (Discovery) ---")

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error loading config: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Config path: %s\n", cfgPath)
		return reportedError{err}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectID, err := config.ResolveProjectID(ctx, f.project, cfg, serviceusage.DefaultProjectID)
	if err != nil {
		fmt.Fprintln(out, "Could not automatically determine Google Cloud Project ID.")
		fmt.Fprintln(out, "Please set the 'GCP_PROJECT_ID' environment variable.")
		return reportedError{err}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	opts := check.Options{
		ProjectID:      projectID,
		Service:        cfg.ServiceName,
		UpdateDocument: f.updateReadme,
		DocumentPath:   firstNonEmpty(f.readme, cfg.Report.ReadmePath),
		StartMarker:    cfg.Report.StartMarker,
		EndMarker:      cfg.Report.EndMarker,
		Timestamp:      f.timestamp || cfg.Report.Timestamp,
		MetricsFile:    firstNonEmpty(f.metricsFile, cfg.Report.MetricsFile),
	}
	if !f.noColor && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		opts.Styler = report.NewStyler(os.Stdout)
	}

	src, err := serviceusage.NewDefault(ctx, serviceusage.WithBaseURL(cfg.BaseURL))
	if err == nil {
		_, err = check.Run(ctx, src, out, opts)
	}
	if err != nil {
		if errors.Is(err, check.ErrServiceNotEnabled) {
			log.Debugf("%v", err)
			return reportedError{err}
		}
		fmt.Fprintf(out, "Error fetching quotas: %v\n", err)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Troubleshooting:")
		for _, line := range check.Troubleshooting {
			fmt.Fprintln(out, line)
		}
		return reportedError{err}
	}
	return nil
}

func newInitConfigCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a settings file with default values.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path, _ := loadConfig(cmd)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			cfg.ProjectID = firstNonEmpty(os.Getenv(config.ProjectEnvVars[0]), os.Getenv(config.ProjectEnvVars[1]))
			if err := config.SaveTo(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
