package jj

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cbrewster/jj-prompt/internal/status"
)

// Templates emit JSON so output survives descriptions with quotes or
// newlines; objects are concatenated and read back with a streaming
// decoder.
const (
	commitTemplate = `"{\"commit_id\": \"" ++ commit_id ++ "\", \"change_id\": \"" ++ change_id ++ "\", \"empty\": " ++ empty ++ ", \"conflict\": " ++ conflict ++ ", \"hidden\": " ++ hidden ++ ", \"description\": " ++ json(description) ++ ", \"parents\": " ++ json(parents) ++ "}"`

	bookmarkTemplate = `"{\"name\": " ++ json(name) ++ ", \"remote\": " ++ if(remote, json(remote), "\"\"") ++ ", \"commit_id\": " ++ if(normal_target, json(normal_target.commit_id()), "\"\"") ++ "}"`
)

// ancestorDepth bounds how much of the working copy's history is loaded
// for the bookmark search. Anything further back reads as "no bookmark".
const ancestorDepth = 64

// ErrNoWorkingCopy is returned when the workspace has no working-copy
// commit (e.g. inside a bare repository).
var ErrNoWorkingCopy = errors.New("workspace has no working-copy commit")

// Workspace reads state from one jj workspace. It implements
// status.Source. The ancestor subgraph is fetched once per workspace
// value; workspaces are created fresh per invocation, so nothing derived
// outlives a prompt redraw.
type Workspace struct {
	root      string
	runner    Runner
	ancestors map[string][]string
}

type commitRow struct {
	CommitID    string `json:"commit_id"`
	ChangeID    string `json:"change_id"`
	Empty       bool   `json:"empty"`
	Conflict    bool   `json:"conflict"`
	Hidden      bool   `json:"hidden"`
	Description string `json:"description"`
	Parents     []struct {
		CommitID string `json:"commit_id"`
	} `json:"parents"`
}

type bookmarkRow struct {
	Name     string `json:"name"`
	Remote   string `json:"remote"`
	CommitID string `json:"commit_id"`
}

func (w *Workspace) Root() string { return w.root }

func (w *Workspace) WorkingCopy(ctx context.Context) (status.Commit, error) {
	rows, err := w.logCommits(ctx, "@")
	if err != nil {
		return status.Commit{}, err
	}
	if len(rows) == 0 {
		return status.Commit{}, ErrNoWorkingCopy
	}
	return toCommit(rows[0]), nil
}

func (w *Workspace) VisibleChangeIDs(ctx context.Context) ([]string, error) {
	out, err := w.runner.Run(ctx, w.root, logArgs("all()", `change_id ++ "\n"`)...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (w *Workspace) Bookmarks(ctx context.Context) ([]status.Bookmark, error) {
	out, err := w.runner.Run(ctx, w.root,
		"bookmark", "list", "--all-remotes",
		"--ignore-working-copy", "--color", "never",
		"-T", bookmarkTemplate,
	)
	if err != nil {
		return nil, err
	}

	var rows []bookmarkRow
	decoder := json.NewDecoder(bytes.NewReader(out))
	for decoder.More() {
		var row bookmarkRow
		if err := decoder.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode bookmark: %w", err)
		}
		rows = append(rows, row)
	}

	return groupBookmarks(rows), nil
}

func (w *Workspace) ImmutableHeads(ctx context.Context) (map[string]bool, error) {
	out, err := w.runner.Run(ctx, w.root, logArgs("immutable_heads()", `commit_id ++ "\n"`)...)
	if err != nil {
		return nil, err
	}

	heads := make(map[string]bool)
	for _, id := range splitLines(out) {
		heads[id] = true
	}
	return heads, nil
}

func (w *Workspace) Parents(ctx context.Context, commitID string) ([]string, error) {
	if w.ancestors == nil {
		revset := fmt.Sprintf("ancestors(@, %d)", ancestorDepth)
		rows, err := w.logCommits(ctx, revset)
		if err != nil {
			return nil, err
		}

		w.ancestors = make(map[string][]string, len(rows))
		for _, row := range rows {
			w.ancestors[row.CommitID] = toCommit(row).Parents
		}
	}
	return w.ancestors[commitID], nil
}

func (w *Workspace) logCommits(ctx context.Context, revset string) ([]commitRow, error) {
	out, err := w.runner.Run(ctx, w.root, logArgs(revset, commitTemplate)...)
	if err != nil {
		return nil, err
	}

	var rows []commitRow
	decoder := json.NewDecoder(bytes.NewReader(out))
	for decoder.More() {
		var row commitRow
		if err := decoder.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode commit: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func logArgs(revset, template string) []string {
	return []string{
		"log", "--no-graph",
		"--ignore-working-copy", "--color", "never",
		"-r", revset,
		"-T", template,
	}
}

func toCommit(row commitRow) status.Commit {
	parents := make([]string, 0, len(row.Parents))
	for _, p := range row.Parents {
		parents = append(parents, p.CommitID)
	}
	return status.Commit{
		CommitID:    row.CommitID,
		ChangeID:    row.ChangeID,
		Parents:     parents,
		Description: row.Description,
		Empty:       row.Empty,
		Conflict:    row.Conflict,
		Hidden:      row.Hidden,
	}
}

// groupBookmarks folds the per-remote rows of `bookmark list
// --all-remotes` into one entry per local bookmark. The "git" pseudo
// remote tracks the colocated repository, not a real remote, and is
// ignored. A bookmark counts as synced when any real remote sits on the
// local target.
func groupBookmarks(rows []bookmarkRow) []status.Bookmark {
	index := make(map[string]int)
	var bookmarks []status.Bookmark

	for _, row := range rows {
		if row.Remote != "" || row.CommitID == "" {
			continue
		}
		index[row.Name] = len(bookmarks)
		bookmarks = append(bookmarks, status.Bookmark{Name: row.Name, Target: row.CommitID})
	}

	for _, row := range rows {
		if row.Remote == "" || row.Remote == "git" {
			continue
		}
		i, ok := index[row.Name]
		if !ok {
			continue
		}

		b := &bookmarks[i]
		switch {
		case !b.HasRemote:
			b.HasRemote = true
			b.RemoteTarget = row.CommitID
		case b.RemoteTarget != b.Target && row.CommitID == b.Target:
			b.RemoteTarget = row.CommitID
		}
	}

	return bookmarks
}

func splitLines(out []byte) []string {
	var lines []string
	for line := range strings.Lines(string(out)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
