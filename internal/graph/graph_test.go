package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinder(parents map[string][]string, refs map[string][]string, maxVisited int) *Finder {
	return &Finder{
		Parents: func(id string) ([]string, error) {
			return parents[id], nil
		},
		Refs: func(id string) []string {
			return refs[id]
		},
		MaxVisited: maxVisited,
	}
}

func TestNearestRefsAtStart(t *testing.T) {
	f := newFinder(
		map[string][]string{"a": {"b"}},
		map[string][]string{"a": {"main"}},
		0,
	)

	refs, err := f.NearestRefs("a")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{Name: "main", Distance: 0}}, refs)
}

// A bookmark two edges back along both sides of a diamond merge must be
// reported once, at distance 2.
func TestNearestRefsDiamond(t *testing.T) {
	f := newFinder(
		map[string][]string{
			"top":   {"left", "right"},
			"left":  {"base"},
			"right": {"base"},
		},
		map[string][]string{"base": {"main"}},
		0,
	)

	refs, err := f.NearestRefs("top")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{Name: "main", Distance: 2}}, refs)
}

// Once a tier yields references, deeper tiers are not reported.
func TestNearestRefsStopsAtFirstTier(t *testing.T) {
	f := newFinder(
		map[string][]string{
			"a": {"b"},
			"b": {"c"},
		},
		map[string][]string{
			"b": {"feature"},
			"c": {"main"},
		},
		0,
	)

	refs, err := f.NearestRefs("a")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{Name: "feature", Distance: 1}}, refs)
}

// Several bookmarks in the same tier come back together, sorted by name.
func TestNearestRefsTiedTierSorted(t *testing.T) {
	f := newFinder(
		map[string][]string{
			"top":   {"left", "right"},
			"left":  nil,
			"right": nil,
		},
		map[string][]string{
			"left":  {"zeta"},
			"right": {"alpha"},
		},
		0,
	)

	refs, err := f.NearestRefs("top")
	require.NoError(t, err)
	assert.Equal(t, []Ref{
		{Name: "alpha", Distance: 1},
		{Name: "zeta", Distance: 1},
	}, refs)
}

func TestNearestRefsNoneFound(t *testing.T) {
	f := newFinder(
		map[string][]string{
			"a": {"b"},
			"b": {"c"},
		},
		map[string][]string{},
		0,
	)

	refs, err := f.NearestRefs("a")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

// Exceeding the visit cap is "not found", never an error.
func TestNearestRefsVisitCap(t *testing.T) {
	f := newFinder(
		map[string][]string{
			"a": {"b"},
			"b": {"c"},
			"c": {"d"},
		},
		map[string][]string{"d": {"main"}},
		2,
	)

	refs, err := f.NearestRefs("a")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestNearestRefsParentError(t *testing.T) {
	wantErr := errors.New("backend gone")
	f := &Finder{
		Parents: func(string) ([]string, error) { return nil, wantErr },
		Refs:    func(string) []string { return nil },
	}

	_, err := f.NearestRefs("a")
	assert.ErrorIs(t, err, wantErr)
}
