package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
)

const metricsNamespace = "gemini_quota"

// Registry builds a Prometheus registry exposing every entry of the table.
// Numeric limits are reported by the limit gauge; Unlimited entries set the
// unlimited gauge to 1 instead.
func Registry(table core.ModelLimitsTable) (*prometheus.Registry, error) {
	limit := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "limit",
			Help:      "Effective quota limit per model and category",
		},
		[]string{"model", "category"},
	)
	unlimited := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "unlimited",
			Help:      "Whether the quota is unlimited for the model and category (1 = unlimited)",
		},
		[]string{"model", "category"},
	)

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{limit, unlimited} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("report: registering collector: %w", err)
		}
	}

	for _, model := range table.Models() {
		for _, cat := range core.Categories {
			v, ok := table.Get(model, cat)
			if !ok {
				continue
			}
			switch {
			case v.IsUnlimited():
				unlimited.WithLabelValues(model, string(cat)).Set(1)
			case v.IsNumeric():
				limit.WithLabelValues(model, string(cat)).Set(float64(v.Value))
			}
		}
	}
	return reg, nil
}

// WriteMetricsFile writes the table in the Prometheus text format, suitable
// for the node exporter's textfile collector.
func WriteMetricsFile(path string, table core.ModelLimitsTable) error {
	reg, err := Registry(table)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("report: writing metrics file: %w", err)
	}
	return nil
}
