// Package serviceusage implements core.QuotaSource on top of the Google Cloud
// Service Usage API (v1beta1).
//
// Two endpoints are used:
//
//   - GET /v1beta1/projects/{project}/services/{service} — service state
//   - GET /v1beta1/projects/{project}/services/{service}/consumerQuotaMetrics
//     — paginated quota metrics, each with consumerQuotaLimits[].quotaBuckets[]
//
// Requests are authorized with Application Default Credentials.
package serviceusage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2/google"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/parsers"
	"github.com/wenchiehlee-investment/Gemini-CLI/internal/version"
)

const (
	DefaultBaseURL     = "https://serviceusage.googleapis.com"
	CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

	maxPages = 100
)

// ErrNoCredentials is returned when Application Default Credentials carry no project.
var ErrNoCredentials = errors.New("serviceusage: default credentials carry no project id")

// APIError is a non-2xx response from the Service Usage API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("serviceusage: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("serviceusage: HTTP %d", e.StatusCode)
}

// Client talks to the Service Usage API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New builds a client around an already authorized HTTP client.
func New(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{baseURL: DefaultBaseURL, httpClient: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault builds a client authorized with Application Default Credentials.
func NewDefault(ctx context.Context, opts ...Option) (*Client, error) {
	httpClient, err := google.DefaultClient(ctx, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("serviceusage: default credentials: %w", err)
	}
	return New(httpClient, opts...), nil
}

// DefaultProjectID returns the project bound to Application Default Credentials.
func DefaultProjectID(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, CloudPlatformScope)
	if err != nil {
		return "", fmt.Errorf("serviceusage: default credentials: %w", err)
	}
	if strings.TrimSpace(creds.ProjectID) == "" {
		return "", ErrNoCredentials
	}
	return creds.ProjectID, nil
}

func (c *Client) ServiceState(ctx context.Context, projectID, service string) (string, error) {
	body, err := c.get(ctx, servicePath(projectID, service), nil)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "state").String(), nil
}

func (c *Client) ConsumerQuotaMetrics(ctx context.Context, projectID, service string) ([]core.QuotaMetric, error) {
	path := servicePath(projectID, service) + "/consumerQuotaMetrics"

	var metrics []core.QuotaMetric
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}
		body, err := c.get(ctx, path, query)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("serviceusage: invalid JSON in consumerQuotaMetrics response")
		}

		root := gjson.ParseBytes(body)
		metrics = append(metrics, parseMetrics(root.Get("metrics"))...)

		pageToken = root.Get("nextPageToken").String()
		if pageToken == "" {
			return metrics, nil
		}
	}
	return nil, fmt.Errorf("serviceusage: consumerQuotaMetrics exceeded %d pages", maxPages)
}

func parseMetrics(arr gjson.Result) []core.QuotaMetric {
	var out []core.QuotaMetric
	arr.ForEach(func(_, m gjson.Result) bool {
		name := m.Get("name").String()
		metric := core.QuotaMetric{
			Name: name,
			ID:   parsers.MetricID(name),
		}
		m.Get("consumerQuotaLimits").ForEach(func(_, l gjson.Result) bool {
			limit := core.QuotaLimit{
				Name: l.Get("name").String(),
				Unit: l.Get("unit").String(),
			}
			l.Get("quotaBuckets").ForEach(func(_, b gjson.Result) bool {
				limit.Buckets = append(limit.Buckets, core.QuotaBucket{
					EffectiveLimit: parsers.ParseEffectiveLimit(b.Get("effectiveLimit")),
					Dimensions:     parsers.StringMap(b.Get("dimensions")),
				})
				return true
			})
			metric.Limits = append(metric.Limits, limit)
			return true
		})
		out = append(out, metric)
		return true
	})
	return out
}

func servicePath(projectID, service string) string {
	return fmt.Sprintf("/v1beta1/projects/%s/services/%s", url.PathEscape(projectID), url.PathEscape(service))
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("serviceusage: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serviceusage: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serviceusage: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     gjson.GetBytes(body, "error.status").String(),
			Message:    gjson.GetBytes(body, "error.message").String(),
		}
	}
	return body, nil
}
