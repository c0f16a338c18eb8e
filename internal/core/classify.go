package core

import (
	"strings"

	"github.com/samber/lo"
)

type classifierRule struct {
	match    func(id string) bool
	category LimitCategory
}

// Rules are evaluated top to bottom; the first match wins. An id containing
// both "per_day" and "token_count" is therefore RequestsPerDay.
var classifierRules = []classifierRule{
	{match: containsAny("per_day"), category: RequestsPerDay},
	{match: containsAny("token_count", "tokens"), category: TokensPerMinute},
	{match: containsAny("requests"), category: RequestsPerMinute},
}

var (
	generativeMetric = containsAny("generate_content", "generate_requests")
	limitMetric      = containsAny("requests", "token_count", "tokens")
)

// Classify maps a metric id to the limit category it tracks. The second
// return value is false for metrics that are excluded from the table.
func Classify(id string) (LimitCategory, bool) {
	if !generativeMetric(id) || !limitMetric(id) {
		return "", false
	}
	for _, rule := range classifierRules {
		if rule.match(id) {
			return rule.category, true
		}
	}
	return "", false
}

func containsAny(substrs ...string) func(string) bool {
	return func(s string) bool {
		return lo.SomeBy(substrs, func(sub string) bool {
			return strings.Contains(s, sub)
		})
	}
}
