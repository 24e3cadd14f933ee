package index

// Comparator orders two keys: negative if a < b, zero if equal,
// positive if a > b. The B+Tree never assumes anything about K
// beyond what Comparator tells it, the same contract BusTub's
// KeyComparator functor fulfills for GenericKey.
type Comparator[K any] func(a, b K) int

// Int64Comparator orders int64 keys numerically.
func Int64Comparator(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
