package randgen

// Weighted pairs a candidate value with its selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Pick returns a uniformly chosen element. Panics on an empty list, which
// is a caller bug: reference pools are validated before generation starts.
func Pick[T any](s *Source, list []T) T {
	return list[int(s.Float64()*float64(len(list)))]
}

// PickUniqueSubset returns n distinct elements via a Fisher-Yates shuffle
// truncated to n. When the list holds fewer than n elements the whole
// shuffled list is returned; the result never contains duplicates.
func PickUniqueSubset[T any](s *Source, list []T, n int) []T {
	pool := make([]T, len(list))
	copy(pool, list)
	for i := len(pool) - 1; i > 0; i-- {
		j := int(s.Float64() * float64(i+1))
		pool[i], pool[j] = pool[j], pool[i]
	}
	if n < 0 {
		n = 0
	}
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// WeightedChoice selects one item with probability proportional to its
// weight using a cumulative scan. The last item is returned when
// floating-point rounding leaves the target just past the final cumulative
// bound, so a result is always produced.
func WeightedChoice[T any](s *Source, items []Weighted[T]) T {
	var total float64
	for _, item := range items {
		total += item.Weight
	}
	target := s.Float64() * total
	var acc float64
	for _, item := range items {
		acc += item.Weight
		if target <= acc {
			return item.Value
		}
	}
	return items[len(items)-1].Value
}
