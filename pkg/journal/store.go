package journal

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// Store reads and writes journals in one directory
type Store struct {
	fs  types.FS
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(fs types.FS, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the journal directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a journal id is stored in
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// Save writes j atomically
func (s *Store) Save(j *Journal) error {
	j.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(j)
	if err != nil {
		return errors.Wrapf(err, errors.ErrJournal, "failed to encode journal %s", j.ID)
	}
	if err := filesystem.AtomicWriteFile(s.fs, s.Path(j.ID), data, 0600); err != nil {
		return errors.Wrapf(err, errors.ErrJournal, "failed to write journal %s", j.ID).
			WithDetail("path", s.Path(j.ID))
	}
	return nil
}

// Load reads a journal by id or by file path
func (s *Store) Load(idOrPath string) (*Journal, error) {
	path := idOrPath
	if !strings.ContainsRune(idOrPath, filepath.Separator) {
		path = s.Path(strings.TrimSuffix(idOrPath, fileExt))
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrJournal, "no journal %s", idOrPath).WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrJournal, "failed to read journal %s", idOrPath).
			WithDetail("path", path)
	}

	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrapf(err, errors.ErrJournal, "failed to decode journal %s", path).
			WithDetail("path", path)
	}
	return &j, nil
}

// Remove deletes a journal; a missing journal is not an error
func (s *Store) Remove(id string) error {
	if err := s.fs.Remove(s.Path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrJournal, "failed to remove journal %s", id)
	}
	return nil
}

// List returns every journal in the directory, oldest first. Files that
// fail to decode are skipped with a warning.
func (s *Store) List() ([]*Journal, error) {
	logger := logging.GetLogger("journal.store")

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrJournal, "failed to list %s", s.dir)
	}

	var out []*Journal
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		j, err := s.Load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable journal")
			continue
		}
		out = append(out, j)
	}

	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out, nil
}

// Session pairs a journal with the store that persists it. A nil Session
// records nothing, which is how a run with journaling disabled behaves.
type Session struct {
	Store   *Store
	Journal *Journal
}

// NewSession starts tracking j in store
func NewSession(store *Store, j *Journal) *Session {
	return &Session{Store: store, Journal: j}
}

// Entry returns the journal entry for source, or nil
func (s *Session) Entry(source string) *Entry {
	if s == nil {
		return nil
	}
	return s.Journal.Entry(source)
}

// Save persists the journal
func (s *Session) Save() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Save(s.Journal)
}

// Finish removes the journal once every entry is complete
func (s *Session) Finish() error {
	if s == nil || s.Store == nil || !s.Journal.Complete() {
		return nil
	}
	return s.Store.Remove(s.Journal.ID)
}
