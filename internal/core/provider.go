package core

import "context"

// ServiceStateEnabled is the state a service must be in before its quotas are read.
const ServiceStateEnabled = "ENABLED"

// QuotaSource supplies raw quota data for a service enabled on a project.
type QuotaSource interface {
	// ServiceState returns the service's state, e.g. "ENABLED" or "DISABLED".
	ServiceState(ctx context.Context, projectID, service string) (string, error)

	// ConsumerQuotaMetrics returns every consumer quota metric of the service.
	ConsumerQuotaMetrics(ctx context.Context, projectID, service string) ([]QuotaMetric, error)
}
