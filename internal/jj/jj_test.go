package jj

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbrewster/jj-prompt/internal/status"
)

// fakeRunner returns preset output keyed by the jj argument list.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func key(args ...string) string {
	return fmt.Sprintf("%v", args)
}

func (r *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	k := key(args...)
	if err, ok := r.errs[k]; ok {
		return nil, err
	}
	out, ok := r.outputs[k]
	if !ok {
		return nil, fmt.Errorf("fakeRunner: no output for %s", k)
	}
	return []byte(out), nil
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".jj"), 0o755))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindRoot(nested)
	require.True(t, ok)
	assert.Equal(t, root, found)
}

func TestFindRootNotARepo(t *testing.T) {
	_, ok := FindRoot(t.TempDir())
	assert.False(t, ok)
}

// A plain .jj file (not a directory) does not mark a workspace.
func TestFindRootIgnoresFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jj"), nil, 0o644))

	_, ok := FindRoot(dir)
	assert.False(t, ok)
}

func TestOpenOutsideWorkspace(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestWorkingCopy(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		key(logArgs("@", commitTemplate)...): `{"commit_id": "c1", "change_id": "kxqpzmsolnttvrwq", "empty": false, "conflict": true, "hidden": false, "description": "add \"feature\"\n\nbody", "parents": [{"change_id": "mwordlpq", "commit_id": "c0"}]}`,
	}}

	ws := NewWorkspace("/repo", runner)
	commit, err := ws.WorkingCopy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, status.Commit{
		CommitID:    "c1",
		ChangeID:    "kxqpzmsolnttvrwq",
		Parents:     []string{"c0"},
		Description: "add \"feature\"\n\nbody",
		Conflict:    true,
	}, commit)
}

func TestWorkingCopyMissing(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		key(logArgs("@", commitTemplate)...): "",
	}}

	_, err := NewWorkspace("/repo", runner).WorkingCopy(context.Background())
	assert.ErrorIs(t, err, ErrNoWorkingCopy)
}

func TestVisibleChangeIDs(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		key(logArgs("all()", `change_id ++ "\n"`)...): "kxqpzmso\nmwordlpq\n",
	}}

	ids, err := NewWorkspace("/repo", runner).VisibleChangeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kxqpzmso", "mwordlpq"}, ids)
}

func TestImmutableHeads(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		key(logArgs("immutable_heads()", `commit_id ++ "\n"`)...): "c7\nc9\n",
	}}

	heads, err := NewWorkspace("/repo", runner).ImmutableHeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"c7": true, "c9": true}, heads)
}

func TestBookmarks(t *testing.T) {
	bookmarkArgs := []string{
		"bookmark", "list", "--all-remotes",
		"--ignore-working-copy", "--color", "never",
		"-T", bookmarkTemplate,
	}
	runner := &fakeRunner{outputs: map[string]string{
		key(bookmarkArgs...): `{"name": "main", "remote": "", "commit_id": "c1"}` +
			`{"name": "main", "remote": "git", "commit_id": "c0"}` +
			`{"name": "main", "remote": "origin", "commit_id": "c1"}` +
			`{"name": "feature", "remote": "", "commit_id": "c2"}` +
			`{"name": "stray", "remote": "origin", "commit_id": "c3"}`,
	}}

	bookmarks, err := NewWorkspace("/repo", runner).Bookmarks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []status.Bookmark{
		{Name: "main", Target: "c1", HasRemote: true, RemoteTarget: "c1"},
		{Name: "feature", Target: "c2"},
	}, bookmarks)
}

// The "git" pseudo remote alone does not make a bookmark remote-tracked.
func TestBookmarksGitRemoteIgnored(t *testing.T) {
	bookmarkArgs := []string{
		"bookmark", "list", "--all-remotes",
		"--ignore-working-copy", "--color", "never",
		"-T", bookmarkTemplate,
	}
	runner := &fakeRunner{outputs: map[string]string{
		key(bookmarkArgs...): `{"name": "main", "remote": "", "commit_id": "c1"}` +
			`{"name": "main", "remote": "git", "commit_id": "c1"}`,
	}}

	bookmarks, err := NewWorkspace("/repo", runner).Bookmarks(context.Background())
	require.NoError(t, err)

	require.Len(t, bookmarks, 1)
	assert.False(t, bookmarks[0].HasRemote)
}

// Any real remote sitting on the local target counts as synced, even when
// another remote lags behind.
func TestBookmarksAnySyncedRemoteWins(t *testing.T) {
	rows := []bookmarkRow{
		{Name: "main", Remote: "", CommitID: "c1"},
		{Name: "main", Remote: "origin", CommitID: "c0"},
		{Name: "main", Remote: "upstream", CommitID: "c1"},
	}

	bookmarks := groupBookmarks(rows)
	require.Len(t, bookmarks, 1)
	assert.True(t, bookmarks[0].HasRemote)
	assert.Equal(t, "c1", bookmarks[0].RemoteTarget)
}

func TestParents(t *testing.T) {
	revset := fmt.Sprintf("ancestors(@, %d)", ancestorDepth)
	runner := &fakeRunner{outputs: map[string]string{
		key(logArgs(revset, commitTemplate)...): `{"commit_id": "c2", "change_id": "aa", "empty": false, "conflict": false, "hidden": false, "description": "", "parents": [{"commit_id": "c1"}]}` +
			`{"commit_id": "c1", "change_id": "bb", "empty": false, "conflict": false, "hidden": false, "description": "", "parents": [{"commit_id": "c0"}]}`,
	}}

	ws := NewWorkspace("/repo", runner)

	parents, err := ws.Parents(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, parents)

	// Outside the loaded range the search simply ends.
	parents, err = ws.Parents(context.Background(), "c0")
	require.NoError(t, err)
	assert.Empty(t, parents)
}
