package serviceusage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testService = "generativelanguage.googleapis.com"

func TestServiceState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta1/projects/my-proj/services/"+testService {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "gemini-quota/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"name": "projects/123/services/generativelanguage.googleapis.com", "state": "ENABLED"}`))
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL))
	state, err := c.ServiceState(context.Background(), "my-proj", testService)
	if err != nil {
		t.Fatalf("ServiceState() error: %v", err)
	}
	if state != "ENABLED" {
		t.Errorf("state = %q, want ENABLED", state)
	}
}

func TestConsumerQuotaMetrics_ParsesAndPaginates(t *testing.T) {
	pages := map[string]string{
		"": `{
			"metrics": [{
				"name": "projects/123/services/generativelanguage.googleapis.com/consumerQuotaMetrics/generate_content_free_tier_requests",
				"consumerQuotaLimits": [{
					"name": "limit-a",
					"unit": "1/min/{project}/{model}",
					"quotaBuckets": [
						{"effectiveLimit": "15", "dimensions": {"model": "gemini-2.5-flash"}},
						{"effectiveLimit": "-1"},
						{"defaultLimit": "10", "dimensions": {"model": "gemini-2.0-flash"}}
					]
				}]
			}],
			"nextPageToken": "page-2"
		}`,
		"page-2": `{
			"metrics": [{
				"name": "projects/123/services/generativelanguage.googleapis.com/consumerQuotaMetrics/generate_content_free_tier_tokens",
				"consumerQuotaLimits": [{"quotaBuckets": [{"effectiveLimit": 250000}]}]
			}]
		}`,
	}
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if !strings.HasSuffix(r.URL.Path, "/consumerQuotaMetrics") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, ok := pages[r.URL.Query().Get("pageToken")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL))
	metrics, err := c.ConsumerQuotaMetrics(context.Background(), "my-proj", testService)
	if err != nil {
		t.Fatalf("ConsumerQuotaMetrics() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(metrics) != 2 {
		t.Fatalf("metrics = %d, want 2", len(metrics))
	}

	first := metrics[0]
	if first.ID != "generate_content_free_tier_requests" {
		t.Errorf("ID = %q", first.ID)
	}
	buckets := first.Buckets()
	if len(buckets) != 3 {
		t.Fatalf("buckets = %d, want 3", len(buckets))
	}
	if buckets[0].EffectiveLimit == nil || *buckets[0].EffectiveLimit != 15 {
		t.Errorf("bucket 0 limit = %v, want 15", buckets[0].EffectiveLimit)
	}
	if buckets[0].Model() != "gemini-2.5-flash" {
		t.Errorf("bucket 0 model = %q", buckets[0].Model())
	}
	if buckets[1].EffectiveLimit == nil || *buckets[1].EffectiveLimit != -1 {
		t.Errorf("bucket 1 limit = %v, want -1", buckets[1].EffectiveLimit)
	}
	if buckets[1].Model() != "Global" {
		t.Errorf("bucket 1 model = %q, want Global", buckets[1].Model())
	}
	if buckets[2].EffectiveLimit != nil {
		t.Errorf("bucket 2 limit = %v, want nil", *buckets[2].EffectiveLimit)
	}

	second := metrics[1].Buckets()
	if len(second) != 1 || second[0].EffectiveLimit == nil || *second[0].EffectiveLimit != 250000 {
		t.Errorf("second metric buckets = %+v", second)
	}
}

func TestGet_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "Permission denied on resource project my-proj.", "status": "PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL))
	_, err := c.ServiceState(context.Background(), "my-proj", testService)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Status != "PERMISSION_DENIED" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "Permission denied") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestConsumerQuotaMetrics_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := New(server.Client(), WithBaseURL(server.URL))
	if _, err := c.ConsumerQuotaMetrics(context.Background(), "my-proj", testService); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestWithBaseURL_TrimsSlash(t *testing.T) {
	c := New(nil, WithBaseURL("http://localhost:1234/ "))
	if c.baseURL != "http://localhost:1234" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	c = New(nil, WithBaseURL(""))
	if c.baseURL != DefaultBaseURL {
		t.Errorf("empty base URL should keep default, got %q", c.baseURL)
	}
}
