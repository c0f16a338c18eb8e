package core

// ExtractBuckets emits one tuple per bucket of a classified metric.
func ExtractBuckets(metric QuotaMetric, category LimitCategory) []LimitTuple {
	buckets := metric.Buckets()
	out := make([]LimitTuple, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, LimitTuple{
			Model:    b.Model(),
			Category: category,
			Value:    bucketValue(b.EffectiveLimit),
		})
	}
	return out
}

func bucketValue(raw *int64) LimitValue {
	switch {
	case raw == nil:
		return LimitValue{}
	case *raw == UnlimitedSentinel:
		return UnlimitedLimit()
	default:
		return NumericLimit(*raw)
	}
}

// CollectTuples classifies every metric and extracts the buckets of those
// that are not excluded, preserving input order.
func CollectTuples(metrics []QuotaMetric) []LimitTuple {
	var out []LimitTuple
	for _, m := range metrics {
		category, ok := Classify(m.ID)
		if !ok {
			continue
		}
		out = append(out, ExtractBuckets(m, category)...)
	}
	return out
}
