package almanac

// SelectOne returns list[(hash+seed) mod len(list)].
// It panics on an empty list; callers only pass the fixed catalogs.
func SelectOne[T any](list []T, hash, seed int) T {
	if len(list) == 0 {
		panic("almanac: SelectOne called with an empty list")
	}
	return list[(hash+seed)%len(list)]
}

// SelectMany picks up to count distinct entries from list.
//
// The i-th pick starts at (hash + seed + 7i) mod len and probes forward past
// indices that were already taken. Picks are returned in the order they were
// resolved. The result is shorter than count only when list is.
func SelectMany[T any](list []T, hash, count, seed int) []T {
	n := len(list)
	if n == 0 || count <= 0 {
		return nil
	}
	result := make([]T, 0, min(count, n))
	used := make([]bool, n)
	for i := 0; i < count && len(result) < n; i++ {
		idx := (hash + seed + 7*i) % n
		for attempts := 0; used[idx] && attempts < n; attempts++ {
			idx = (idx + 1) % n
		}
		if !used[idx] {
			used[idx] = true
			result = append(result, list[idx])
		}
	}
	return result
}
