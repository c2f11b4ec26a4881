// Package graph finds the nearest referenced ancestors of a revision.
package graph

import "slices"

// DefaultMaxVisited bounds the traversal so a pathological history cannot
// stall an interactive prompt. Exceeding it reports "not found".
const DefaultMaxVisited = 4096

// Ref is a named reference discovered at some backward edge-distance from
// the starting revision.
type Ref struct {
	Name     string
	Distance int
}

// Finder performs a breadth-first search backward over parent edges.
type Finder struct {
	// Parents returns the parent commit ids of the given commit. Unknown
	// commits may return no parents, ending that path of the search.
	Parents func(commitID string) ([]string, error)

	// Refs returns the reference names pointing at the given commit.
	Refs func(commitID string) []string

	// MaxVisited caps the number of distinct commits examined.
	// DefaultMaxVisited is used when zero.
	MaxVisited int
}

// NearestRefs returns every reference found at the minimum backward
// distance from start, sorted by name. The search walks whole frontier
// tiers at a time, so references reachable over several parent paths of a
// merge are reported once at their true minimal distance. An exhausted
// graph or an exceeded visit cap yields an empty result, not an error.
func (f *Finder) NearestRefs(start string) ([]Ref, error) {
	maxVisited := f.MaxVisited
	if maxVisited <= 0 {
		maxVisited = DefaultMaxVisited
	}

	visited := make(map[string]bool)
	tier := []string{start}

	for distance := 0; len(tier) > 0; distance++ {
		var fresh []string
		var names []string

		for _, id := range tier {
			if visited[id] {
				continue
			}
			if len(visited) >= maxVisited {
				return nil, nil
			}
			visited[id] = true
			fresh = append(fresh, id)
			names = append(names, f.Refs(id)...)
		}

		if len(names) > 0 {
			slices.Sort(names)
			names = slices.Compact(names)
			refs := make([]Ref, 0, len(names))
			for _, name := range names {
				refs = append(refs, Ref{Name: name, Distance: distance})
			}
			return refs, nil
		}

		var next []string
		for _, id := range fresh {
			parents, err := f.Parents(id)
			if err != nil {
				return nil, err
			}
			for _, parent := range parents {
				if !visited[parent] {
					next = append(next, parent)
				}
			}
		}
		tier = next
	}

	return nil, nil
}
