// Package prefix computes shortest unique identifier prefixes.
package prefix

// ShortestUniquePrefixLen returns the smallest k such that no other id in
// universe shares its first k characters with target. The universe is
// expected to contain target itself; a single-element universe yields 1.
// If another id is identical to target (malformed input), the full length
// of target is returned rather than an error.
func ShortestUniquePrefixLen(target string, universe []string) int {
	longest := 0
	seenSelf := false

	for _, id := range universe {
		if !seenSelf && id == target {
			seenSelf = true
			continue
		}
		if n := commonPrefixLen(target, id); n > longest {
			longest = n
		}
	}

	k := longest + 1
	if k > len(target) {
		k = len(target)
	}
	if k < 1 {
		k = 1
	}
	return k
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
