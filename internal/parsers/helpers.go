package parsers

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// MetricID returns the trailing segment of a fully qualified resource name,
// e.g. "generate_content_free_tier_requests" for
// "projects/p/services/s/consumerQuotaMetrics/generate_content_free_tier_requests".
func MetricID(name string) string {
	name = strings.TrimRight(strings.TrimSpace(name), "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ParseInt parses a decimal integer, returning nil for empty or invalid input.
func ParseInt(val string) *int64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseEffectiveLimit decodes an effectiveLimit field. Google APIs encode
// int64 as a JSON string, but plain numbers are accepted too. Absent, null
// or non-integer values yield nil.
func ParseEffectiveLimit(r gjson.Result) *int64 {
	switch r.Type {
	case gjson.Number:
		return ParseInt(r.Raw)
	case gjson.String:
		return ParseInt(r.Str)
	}
	return nil
}

// StringMap converts a JSON object of string values into a map. Non-object
// input yields nil.
func StringMap(r gjson.Result) map[string]string {
	if !r.IsObject() {
		return nil
	}
	out := make(map[string]string)
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}
