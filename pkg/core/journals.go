package core

import (
	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/relocate"
	"github.com/arthur-debert/relink/pkg/types"
)

// JournalStore returns the store configured by cfg, or nil when journaling
// is disabled. journal.dir is resolved against the working directory and
// falls back to the XDG state location.
func JournalStore(fsys types.FS, p paths.Paths, cfg *config.Config) (*journal.Store, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	dir := p.JournalDir()
	if cfg.Journal.Dir != "" {
		resolved, err := p.NormalizePath(cfg.Journal.Dir)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	return journal.NewStore(fsys, dir), nil
}

// ResumeOptions selects the journal to roll forward
type ResumeOptions struct {
	// ID is a journal id or a path to a journal file. Empty picks the only
	// leftover journal.
	ID         string
	FileSystem types.FS
	Store      *journal.Store
}

// Resume finishes an interrupted run from its journal
func Resume(opts ResumeOptions) (relocate.ResumeResult, error) {
	logger := logging.GetLogger("core.resume")

	if opts.Store == nil {
		return relocate.ResumeResult{}, errors.New(errors.ErrJournal, "journaling is disabled, nothing to resume")
	}
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	j, err := pickJournal(opts.Store, opts.ID)
	if err != nil {
		return relocate.ResumeResult{}, err
	}
	logger.Info().Str("journal", j.ID).Int("entries", len(j.Entries)).Msg("Resuming run")

	return relocate.Resume(fsys, journal.NewSession(opts.Store, j))
}

// ListJournals returns leftover journals, oldest first
func ListJournals(store *journal.Store) ([]*journal.Journal, error) {
	if store == nil {
		return nil, nil
	}
	return store.List()
}

func pickJournal(store *journal.Store, id string) (*journal.Journal, error) {
	if id != "" {
		return store.Load(id)
	}
	journals, err := store.List()
	if err != nil {
		return nil, err
	}
	switch len(journals) {
	case 0:
		return nil, errors.New(errors.ErrJournal, "no interrupted run to resume").
			WithDetail("path", store.Dir())
	case 1:
		return journals[0], nil
	default:
		return nil, errors.Newf(errors.ErrJournal,
			"%d interrupted runs found, name one with relink resume <id>", len(journals)).
			WithDetail("path", store.Dir())
	}
}
