package finance

import (
	"math"
	"time"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

// Buckets is a disjoint partition of open items. Every input item lands
// in exactly one bucket; Pending absorbs whatever the draws leave over.
type Buckets struct {
	Canceled []OpenItem
	Paid     []OpenItem
	Overdue  []OpenItem
	Pending  []OpenItem
}

// ComputeBuckets partitions items into lifecycle buckets in a fixed
// order: canceled first, then paid from the remainder, then overdue from
// what is still left. Each target size is rounded from the ratio against
// the full population, so draws can undershoot when the remainder runs
// short. Overdue only admits items already past due relative to today.
func ComputeBuckets(src *randgen.Source, items []OpenItem, ratios Ratios, today time.Time) Buckets {
	total := len(items)
	nCancel := int(math.Round(float64(total) * ratios.Cancel))
	nPaid := int(math.Round(float64(total) * ratios.Paid))
	nOverdue := int(math.Round(float64(total) * ratios.Overdue))

	canceled := toSet(randgen.PickUniqueSubset(src, items, nCancel))
	remainder := subtract(items, canceled)

	paid := toSet(randgen.PickUniqueSubset(src, remainder, nPaid))
	remainder = subtract(remainder, paid)

	eligible := make([]OpenItem, 0, len(remainder))
	for _, it := range remainder {
		if it.DueDate.Before(today) {
			eligible = append(eligible, it)
		}
	}
	overdue := toSet(randgen.PickUniqueSubset(src, eligible, nOverdue))

	// Buckets keep the input order so later per-item draws walk the
	// population the same way it was listed.
	var b Buckets
	for _, it := range items {
		switch {
		case canceled[it.ID]:
			b.Canceled = append(b.Canceled, it)
		case paid[it.ID]:
			b.Paid = append(b.Paid, it)
		case overdue[it.ID]:
			b.Overdue = append(b.Overdue, it)
		default:
			b.Pending = append(b.Pending, it)
		}
	}
	return b
}

func toSet(items []OpenItem) map[int64]bool {
	set := make(map[int64]bool, len(items))
	for _, it := range items {
		set[it.ID] = true
	}
	return set
}

func subtract(items []OpenItem, taken map[int64]bool) []OpenItem {
	out := make([]OpenItem, 0, len(items)-len(taken))
	for _, it := range items {
		if !taken[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
