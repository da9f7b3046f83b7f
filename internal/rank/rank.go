package rank

import "sort"

// Top returns the limit highest records ordered descending by metric. The
// sort is stable: records with equal metric values keep their relative input
// order, so a deterministic input yields a deterministic ranking. When fewer
// than limit records exist they are all returned, without padding.
func Top[T any](records []T, metric func(T) uint64, limit int) []T {
	out := make([]T, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return metric(out[i]) > metric(out[j])
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
