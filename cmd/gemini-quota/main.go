package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/config"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/version"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if os.Getenv("GEMINI_QUOTA_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warnf("%v", err)
	}

	root := &cobra.Command{
		Use:           "gemini-quota",
		Short:         "Report Gemini API quota limits per model for a Google Cloud project.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to settings file (default "+config.ConfigPath()+")")

	check := newCheckCommand()
	root.AddCommand(check, newInitConfigCommand())
	// The bare command behaves like "check".
	root.Flags().AddFlagSet(check.Flags())
	root.RunE = check.RunE

	if err := root.Execute(); err != nil {
		if !isReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cfg, err := config.Load()
		return cfg, config.ConfigPath(), err
	}
	cfg, err := config.LoadFrom(path)
	return cfg, path, err
}
