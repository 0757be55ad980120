// pkg/journal/journal_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Verify journal bookkeeping and persistence

package journal_test

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *journal.Store {
	t.Helper()
	return journal.NewStore(filesystem.NewAferoFS(afero.NewMemMapFs()), "/state/journals")
}

func TestEntryLifecycle(t *testing.T) {
	j := journal.New("/w", "**/*.txt", true, true)
	e := j.AddEntry("/w/a.txt", "/dest/a.txt", "1|2", []string{"/w/a.txt", "/w/b.txt"})

	assert.Same(t, e, j.Entry("/w/a.txt"))
	assert.Nil(t, j.Entry("/w/zzz"))
	assert.False(t, j.Complete())
	assert.Equal(t, journal.StatusPending, e.Copy)
	assert.Len(t, e.PendingReplaces(), 2)

	e.MarkCopy(nil)
	e.MarkReplace("/w/a.txt", "/w/a.txt", nil)
	e.MarkReplace("/w/b.txt", "/w/b.txt", stderrors.New("boom"))

	assert.False(t, e.Complete())
	pending := e.PendingReplaces()
	require.Len(t, pending, 1)
	assert.Equal(t, journal.StatusFailed, pending[0].Status)
	assert.Equal(t, "boom", pending[0].Error)
	assert.Equal(t, []*journal.Entry{e}, j.Incomplete())

	e.MarkReplace("/w/b.txt", "/w/b.txt", nil)
	assert.True(t, e.Complete())
	assert.True(t, j.Complete())
	assert.Empty(t, j.Incomplete())
}

func TestNilEntryIsIgnored(t *testing.T) {
	var e *journal.Entry
	assert.NotPanics(t, func() {
		e.MarkCopy(nil)
		e.MarkReplace("/x", "/x", nil)
	})
}

func TestStore_SaveLoadRemove(t *testing.T) {
	store := newStore(t)
	j := journal.New("/w", "*.txt", false, true)
	j.AddEntry("/w/a.txt", "/dest/a.txt", "1|2", []string{"/w/a.txt"}).MarkCopy(nil)

	require.NoError(t, store.Save(j))

	loaded, err := store.Load(j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, loaded.ID)
	assert.Equal(t, "/w", loaded.WorkDir)
	assert.False(t, loaded.RelativeLinks)
	assert.True(t, loaded.StagedReplace)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, journal.StatusDone, loaded.Entries[0].Copy)
	assert.Equal(t, journal.StatusPending, loaded.Entries[0].Replaces[0].Status)

	byPath, err := store.Load(store.Path(j.ID))
	require.NoError(t, err)
	assert.Equal(t, j.ID, byPath.ID)

	require.NoError(t, store.Remove(j.ID))
	_, err = store.Load(j.ID)
	assert.True(t, errors.IsErrorCode(err, errors.ErrJournal))
	assert.NoError(t, store.Remove(j.ID), "removing twice is fine")
}

func TestStore_ListOrdersByCreation(t *testing.T) {
	store := newStore(t)

	older := journal.New("/w", "a", true, true)
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	older.ID = "older"
	newer := journal.New("/w", "b", true, true)
	newer.ID = "newer"

	require.NoError(t, store.Save(newer))
	require.NoError(t, store.Save(older))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "older", list[0].ID)
	assert.Equal(t, "newer", list[1].ID)
}

func TestStore_ListSkipsGarbage(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	store := journal.NewStore(fs, "/j")
	require.NoError(t, fs.MkdirAll("/j", 0755))
	require.NoError(t, fs.WriteFile(filepath.Join("/j", "bad.yaml"), []byte("entries: [unclosed"), 0600))
	require.NoError(t, fs.WriteFile(filepath.Join("/j", "notes.txt"), []byte("x"), 0600))

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListMissingDir(t *testing.T) {
	list, err := newStore(t).List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSession(t *testing.T) {
	var nilSession *journal.Session
	assert.NoError(t, nilSession.Save())
	assert.NoError(t, nilSession.Finish())
	assert.Nil(t, nilSession.Entry("/w/a.txt"))

	store := newStore(t)
	j := journal.New("/w", "*", true, true)
	e := j.AddEntry("/w/a.txt", "/d", "1|1", []string{"/w/a.txt"})
	s := journal.NewSession(store, j)

	require.NoError(t, s.Save())
	require.NoError(t, s.Finish())
	_, err := store.Load(j.ID)
	require.NoError(t, err, "incomplete journals are kept")

	e.MarkCopy(nil)
	e.MarkReplace("/w/a.txt", "/w/a.txt", nil)
	require.NoError(t, s.Finish())
	_, err = store.Load(j.ID)
	assert.Error(t, err, "complete journals are removed")
}
