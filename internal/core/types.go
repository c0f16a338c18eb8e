package core

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// GlobalModel names buckets that carry no model dimension.
const GlobalModel = "Global"

// UnlimitedSentinel is the raw effective limit the service uses for "no limit".
const UnlimitedSentinel int64 = -1

type LimitCategory string

const (
	RequestsPerMinute LimitCategory = "rpm"
	RequestsPerDay    LimitCategory = "rpd"
	TokensPerMinute   LimitCategory = "tpm"
)

// Categories lists every category in report column order.
var Categories = []LimitCategory{RequestsPerMinute, RequestsPerDay, TokensPerMinute}

func (c LimitCategory) Abbrev() string {
	switch c {
	case RequestsPerMinute:
		return "RPM"
	case RequestsPerDay:
		return "RPD"
	case TokensPerMinute:
		return "TPM"
	}
	return string(c)
}

type LimitKind int

const (
	LimitUnset LimitKind = iota
	LimitNumeric
	LimitUnlimited
)

// LimitValue is an effective limit: a number, Unlimited, or Unset.
// The zero value is Unset.
type LimitValue struct {
	Kind  LimitKind
	Value int64
}

func NumericLimit(n int64) LimitValue { return LimitValue{Kind: LimitNumeric, Value: n} }

func UnlimitedLimit() LimitValue { return LimitValue{Kind: LimitUnlimited} }

func (v LimitValue) IsUnset() bool     { return v.Kind == LimitUnset }
func (v LimitValue) IsUnlimited() bool { return v.Kind == LimitUnlimited }
func (v LimitValue) IsNumeric() bool   { return v.Kind == LimitNumeric }

func (v LimitValue) String() string {
	switch v.Kind {
	case LimitNumeric:
		return strconv.FormatInt(v.Value, 10)
	case LimitUnlimited:
		return "Unlimited"
	}
	return ""
}

// QuotaBucket is one concrete limit for a dimension combination.
// EffectiveLimit is nil when the service omitted the field.
type QuotaBucket struct {
	EffectiveLimit *int64            `json:"effective_limit,omitempty"`
	Dimensions     map[string]string `json:"dimensions,omitempty"`
}

// Model returns the bucket's model dimension, or GlobalModel if it has none.
// A model dimension that is present but empty is returned as is.
func (b QuotaBucket) Model() string {
	if m, ok := b.Dimensions["model"]; ok {
		return m
	}
	return GlobalModel
}

type QuotaLimit struct {
	Name    string        `json:"name,omitempty"`
	Unit    string        `json:"unit,omitempty"`
	Buckets []QuotaBucket `json:"buckets"`
}

// QuotaMetric is one consumer quota metric. ID is the trailing segment of Name.
type QuotaMetric struct {
	Name   string       `json:"name"`
	ID     string       `json:"id"`
	Limits []QuotaLimit `json:"limits"`
}

// Buckets flattens the metric's limits into a single bucket list.
func (m QuotaMetric) Buckets() []QuotaBucket {
	return lo.FlatMap(m.Limits, func(l QuotaLimit, _ int) []QuotaBucket {
		return l.Buckets
	})
}

// LimitTuple is one bucket's contribution to the limits table.
type LimitTuple struct {
	Model    string
	Category LimitCategory
	Value    LimitValue
}

// ModelLimitsTable maps model → category → effective limit. It never holds
// Unset values.
type ModelLimitsTable map[string]map[LimitCategory]LimitValue

func (t ModelLimitsTable) Get(model string, category LimitCategory) (LimitValue, bool) {
	v, ok := t[model][category]
	return v, ok
}

// Models returns the table's model names in lexicographic order.
func (t ModelLimitsTable) Models() []string {
	out := lo.Keys(t)
	sort.Strings(out)
	return out
}

// Equal reports whether both tables hold the same entries.
func (t ModelLimitsTable) Equal(other ModelLimitsTable) bool {
	if len(t) != len(other) {
		return false
	}
	for model, row := range t {
		otherRow, ok := other[model]
		if !ok || len(row) != len(otherRow) {
			return false
		}
		for cat, v := range row {
			if ov, ok := otherRow[cat]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}
