// Package render turns a repository snapshot into a styled prompt line.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/cbrewster/jj-prompt/internal/status"
	"github.com/cbrewster/jj-prompt/internal/style"
)

const truncationMarker = "…"

// Format renders state into a single prompt line without a trailing
// newline. Empty segments are omitted. The operation is pure: it never
// consults the repository and cannot fail.
func Format(state *status.RepoState, cfg style.Config, r *lipgloss.Renderer) string {
	styles := cfg.Styles(r)

	var segments []string

	if cfg.Icon != "" {
		segments = append(segments, styles.Icon.Render(cfg.Icon))
	}

	if id := changeID(state, cfg, styles); id != "" {
		segments = append(segments, id)
	}

	if len(state.Bookmarks) > 0 {
		segments = append(segments, styles.Bookmark.Render(bookmarks(state.Bookmarks)))
	}

	segments = append(segments, description(state, cfg, styles)...)

	for _, indicator := range []struct {
		on   bool
		text string
	}{
		{state.Conflict, cfg.ConflictText},
		{state.Divergent, cfg.DivergentText},
		{state.Hidden, cfg.HiddenText},
		{state.Immutable, cfg.ImmutableText},
	} {
		if indicator.on && indicator.text != "" {
			segments = append(segments, indicator.text)
		}
	}

	return strings.Join(segments, " ")
}

// changeID renders the id truncated to the configured display length,
// with the unique prefix and the remainder in their own styles.
func changeID(state *status.RepoState, cfg style.Config, styles style.Styles) string {
	id := state.ChangeID
	if cfg.ChangeIDLen > 0 && len(id) > cfg.ChangeIDLen {
		id = id[:cfg.ChangeIDLen]
	}
	if id == "" {
		return ""
	}

	split := state.ChangeIDPrefixLen
	if split > len(id) {
		split = len(id)
	}
	if split < 0 {
		split = 0
	}

	out := styles.ChangeID.Render(id[:split])
	if split < len(id) {
		out += styles.ChangeIDRest.Render(id[split:])
	}
	return out
}

// bookmarks joins the nearest bookmarks, annotating non-zero distances
// git-style (name~N).
func bookmarks(refs []status.BookmarkRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Distance > 0 {
			names = append(names, fmt.Sprintf("%s~%d", ref.Name, ref.Distance))
			continue
		}
		names = append(names, ref.Name)
	}
	return strings.Join(names, " ")
}

func description(state *status.RepoState, cfg style.Config, styles style.Styles) []string {
	desc := truncate(state.Description, cfg.DescLen)

	var segments []string
	if state.Empty && cfg.EmptyText != "" {
		segments = append(segments, styles.Status.Render(cfg.EmptyText))
	}

	switch {
	case desc == "" && cfg.NoDescText != "":
		segments = append(segments, styles.Status.Render(cfg.NoDescText))
	case desc != "" && state.Empty:
		segments = append(segments, styles.Status.Render(desc))
	case desc != "":
		segments = append(segments, desc)
	}
	return segments
}

// truncate limits s to max grapheme clusters, appending a marker when
// anything was cut. max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < max && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString(truncationMarker)
	return b.String()
}
