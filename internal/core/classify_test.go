package core

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		id      string
		want    LimitCategory
		include bool
	}{
		{"generate_content_free_tier_requests_per_day", RequestsPerDay, true},
		{"generate_content_free_tier_tokens", TokensPerMinute, true},
		{"generate_content_free_tier_requests", RequestsPerMinute, true},
		{"generate_content_paid_tier_input_token_count", TokensPerMinute, true},
		{"generate_requests_per_model", RequestsPerMinute, true},
		{"generate_content_input_token_count_per_day", RequestsPerDay, true},
		{"unrelated_metric_tokens", "", false},
		{"generate_content_free_tier", "", false},
		{"embed_content_requests", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.id)
		if ok != tt.include {
			t.Errorf("Classify(%q) included = %v, want %v", tt.id, ok, tt.include)
			continue
		}
		if got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestClassifierRules_Order(t *testing.T) {
	want := []LimitCategory{RequestsPerDay, TokensPerMinute, RequestsPerMinute}
	if len(classifierRules) != len(want) {
		t.Fatalf("rules = %d, want %d", len(classifierRules), len(want))
	}
	for i, rule := range classifierRules {
		if rule.category != want[i] {
			t.Errorf("rule %d category = %q, want %q", i, rule.category, want[i])
		}
	}
}
