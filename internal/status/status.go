// Package status derives a point-in-time snapshot of a Jujutsu workspace
// for prompt rendering.
package status

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cbrewster/jj-prompt/internal/graph"
	"github.com/cbrewster/jj-prompt/internal/prefix"
)

// changeIDDisplayLen is the fixed display length of a change id, matching
// jj's short form.
const changeIDDisplayLen = 8

// Commit is the raw metadata of a single revision as supplied by the data
// source.
type Commit struct {
	CommitID    string
	ChangeID    string // full reverse-hex change id
	Parents     []string
	Description string
	Empty       bool
	Conflict    bool
	Hidden      bool
}

// Bookmark is a local bookmark with its optional remote-tracking
// counterpart.
type Bookmark struct {
	Name         string
	Target       string // local target commit id
	HasRemote    bool
	RemoteTarget string // last-known remote position, empty when HasRemote is false
}

// Source is the narrow read-only capability interface the reader needs
// from a repository backend. Tests substitute an in-memory fake.
type Source interface {
	// Root returns the absolute workspace root path.
	Root() string

	// WorkingCopy returns the current working-copy commit.
	WorkingCopy(ctx context.Context) (Commit, error)

	// VisibleChangeIDs returns the change ids of all visible commits,
	// with multiplicity: a change rewritten into several visible commits
	// appears once per commit.
	VisibleChangeIDs(ctx context.Context) ([]string, error)

	// Bookmarks returns all local bookmarks.
	Bookmarks(ctx context.Context) ([]Bookmark, error)

	// ImmutableHeads returns the commit ids of the immutable-heads
	// boundary set.
	ImmutableHeads(ctx context.Context) (map[string]bool, error)

	// Parents returns the parent commit ids of the given commit. Commits
	// outside the source's loaded range may return none.
	Parents(ctx context.Context, commitID string) ([]string, error)
}

// BookmarkRef is a bookmark found at the minimal backward distance from
// the working copy.
type BookmarkRef struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// RepoState is the immutable snapshot produced once per invocation. It is
// either fully populated or not produced at all.
type RepoState struct {
	RepoRoot          string        `json:"repo_root"`
	ChangeID          string        `json:"change_id"`
	ChangeIDPrefixLen int           `json:"change_id_prefix_len"`
	Bookmarks         []BookmarkRef `json:"bookmarks"`
	Description       string        `json:"description"`
	Empty             bool          `json:"empty"`
	Conflict          bool          `json:"conflict"`
	Divergent         bool          `json:"divergent"`
	Hidden            bool          `json:"hidden"`
	Immutable         bool          `json:"immutable"`
	HasRemote         bool          `json:"has_remote"`
	IsSynced          bool          `json:"is_synced"`
}

// Reader builds RepoState snapshots from a Source.
type Reader struct {
	source     Source
	maxVisited int
}

// NewReader returns a reader over the given source.
func NewReader(source Source) *Reader {
	return &Reader{source: source, maxVisited: graph.DefaultMaxVisited}
}

// Read derives one snapshot. Any failure while gathering data surfaces as
// an error; callers render nothing in that case rather than a partial
// prompt segment.
func (r *Reader) Read(ctx context.Context) (*RepoState, error) {
	wc, err := r.source.WorkingCopy(ctx)
	if err != nil {
		return nil, err
	}

	var (
		universe       []string
		bookmarks      []Bookmark
		immutableHeads map[string]bool
	)

	// The remaining loads are independent backend queries; run them
	// concurrently to keep prompt latency down.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		universe, err = r.source.VisibleChangeIDs(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		bookmarks, err = r.source.Bookmarks(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		immutableHeads, err = r.source.ImmutableHeads(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	nearest, err := r.nearestBookmarks(ctx, wc, bookmarks)
	if err != nil {
		return nil, err
	}

	changeID := wc.ChangeID
	if len(changeID) > changeIDDisplayLen {
		changeID = changeID[:changeIDDisplayLen]
	}
	prefixLen := prefix.ShortestUniquePrefixLen(wc.ChangeID, universe)
	if prefixLen > len(changeID) {
		prefixLen = len(changeID)
	}

	hasRemote, isSynced := syncStatus(bookmarks, nearest)

	description, _, _ := strings.Cut(wc.Description, "\n")

	return &RepoState{
		RepoRoot:          r.source.Root(),
		ChangeID:          changeID,
		ChangeIDPrefixLen: prefixLen,
		Bookmarks:         nearest,
		Description:       description,
		Empty:             wc.Empty,
		Conflict:          wc.Conflict,
		Divergent:         isDivergent(wc.ChangeID, universe),
		Hidden:            wc.Hidden,
		Immutable:         immutableHeads[wc.CommitID],
		HasRemote:         hasRemote,
		IsSynced:          isSynced,
	}, nil
}

// nearestBookmarks finds every bookmark at the minimal backward distance
// from the working copy, sorted by name.
func (r *Reader) nearestBookmarks(ctx context.Context, wc Commit, bookmarks []Bookmark) ([]BookmarkRef, error) {
	refsByCommit := make(map[string][]string)
	for _, b := range bookmarks {
		refsByCommit[b.Target] = append(refsByCommit[b.Target], b.Name)
	}

	finder := &graph.Finder{
		Parents: func(commitID string) ([]string, error) {
			if commitID == wc.CommitID {
				return wc.Parents, nil
			}
			return r.source.Parents(ctx, commitID)
		},
		Refs: func(commitID string) []string {
			return refsByCommit[commitID]
		},
		MaxVisited: r.maxVisited,
	}

	found, err := finder.NearestRefs(wc.CommitID)
	if err != nil {
		return nil, err
	}

	refs := make([]BookmarkRef, 0, len(found))
	for _, ref := range found {
		refs = append(refs, BookmarkRef{Name: ref.Name, Distance: ref.Distance})
	}
	return refs, nil
}

// isDivergent reports whether more than one visible commit carries the
// given change id.
func isDivergent(changeID string, universe []string) bool {
	seen := false
	for _, id := range universe {
		if id != changeID {
			continue
		}
		if seen {
			return true
		}
		seen = true
	}
	return false
}

// syncStatus reports the remote-tracking state of the nearest bookmark.
// Ties at the minimal distance are broken lexicographically (nearest is
// already sorted by name). Without a remote counterpart both flags are
// false; "synced" is meaningless without a remote.
func syncStatus(bookmarks []Bookmark, nearest []BookmarkRef) (hasRemote, isSynced bool) {
	if len(nearest) == 0 {
		return false, false
	}

	name := nearest[0].Name
	for _, b := range bookmarks {
		if b.Name != name {
			continue
		}
		if !b.HasRemote {
			return false, false
		}
		return true, b.RemoteTarget == b.Target
	}
	return false, false
}
