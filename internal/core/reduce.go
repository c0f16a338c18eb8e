package core

// MergeLimit combines the stored value for a (model, category) pair with an
// incoming one. Unset is the identity, Unlimited absorbs everything, and two
// numbers reduce to the smaller. The operation is commutative and associative.
func MergeLimit(stored, incoming LimitValue) LimitValue {
	switch {
	case incoming.IsUnset():
		return stored
	case stored.IsUnset():
		return incoming
	case stored.IsUnlimited():
		return stored
	case incoming.IsUnlimited():
		return incoming
	case incoming.Value < stored.Value:
		return incoming
	default:
		return stored
	}
}

// ReduceLimits folds tuples into a table holding one effective value per
// (model, category). Unset tuples never create entries.
func ReduceLimits(tuples []LimitTuple) ModelLimitsTable {
	table := make(ModelLimitsTable)
	for _, tp := range tuples {
		if tp.Value.IsUnset() {
			continue
		}
		row, ok := table[tp.Model]
		if !ok {
			row = make(map[LimitCategory]LimitValue, len(Categories))
			table[tp.Model] = row
		}
		row[tp.Category] = MergeLimit(row[tp.Category], tp.Value)
	}
	return table
}
