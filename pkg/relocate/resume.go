package relocate

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/linkinfo"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// ResumeResult reports what Resume finished
type ResumeResult struct {
	JournalID string
	// Copied lists destinations whose copy was redone
	Copied []string
	// Replaced lists links created during the resume
	Replaced []string
	// AlreadyDone lists paths found already pointing at their destination
	AlreadyDone []string
}

// Resume rolls an interrupted run forward using its journal. A copy that
// never completed is redone from the source; every replacement not marked
// done is performed unless its path already resolves to the destination.
// The journal is removed once everything is complete.
func Resume(fsys types.FS, session *journal.Session) (ResumeResult, error) {
	logger := logging.GetLogger("relocate.resume")
	j := session.Journal
	result := ResumeResult{JournalID: j.ID}

	r := New(Options{
		FileSystem:    fsys,
		RelativeLinks: j.RelativeLinks,
		StagedReplace: j.StagedReplace,
		VerifyCopy:    true,
		Session:       session,
	})

	for _, entry := range j.Incomplete() {
		logger.Info().
			Str("source", entry.Source).
			Str("destination", entry.Destination).
			Msg("Resuming relocation")

		if entry.Copy != journal.StatusDone {
			copied, err := r.resumeCopy(entry)
			if saveErr := session.Save(); saveErr != nil && err == nil {
				return result, saveErr
			}
			if err != nil {
				return result, err
			}
			if copied {
				result.Copied = append(result.Copied, entry.Destination)
			}
		}

		for _, step := range entry.PendingReplaces() {
			link := step.Link
			if link == "" {
				link = step.Path
			}
			if resolvesTo(fsys, link, entry.Destination) {
				entry.MarkReplace(step.Path, link, nil)
				result.AlreadyDone = append(result.AlreadyDone, step.Path)
				if err := session.Save(); err != nil {
					return result, err
				}
				continue
			}

			link, err := r.replace(step.Path, entry.Source, entry.Destination)
			entry.MarkReplace(step.Path, link, err)
			if saveErr := session.Save(); saveErr != nil && err == nil {
				return result, saveErr
			}
			if err != nil {
				return result, err
			}
			result.Replaced = append(result.Replaced, link)
		}
	}

	if err := session.Finish(); err != nil {
		return result, err
	}
	logger.Info().
		Str("journal", j.ID).
		Int("copied", len(result.Copied)).
		Int("replaced", len(result.Replaced)).
		Msg("Resume complete")
	return result, nil
}

// resumeCopy redoes the copy if the source still holds the content. If the
// source is already a link to the destination the copy must have finished
// before the journal was written, so it is only marked done.
func (r *Relocator) resumeCopy(entry *journal.Entry) (bool, error) {
	fsys := r.opts.FileSystem

	info, err := fsys.Lstat(entry.Source)
	switch {
	case err == nil && holdsContent(info, entry.Source, entry):
		err := r.copyFile(entry.Source, entry.Destination)
		entry.MarkCopy(err)
		return err == nil, err
	case err == nil && resolvesTo(fsys, entry.Source, entry.Destination):
		entry.MarkCopy(nil)
		return false, nil
	case err != nil && !os.IsNotExist(err):
		entry.MarkCopy(err)
		return false, errors.IO(err, "stat", entry.Source)
	}

	// Neither the source nor a link to the destination; fall back to
	// whichever other path still holds the content
	for _, step := range entry.Replaces {
		if step.Path == entry.Source {
			continue
		}
		info, err := fsys.Lstat(step.Path)
		if err == nil && holdsContent(info, step.Path, entry) {
			err := r.copyFile(step.Path, entry.Destination)
			entry.MarkCopy(err)
			return err == nil, err
		}
	}

	err = errors.Newf(errors.ErrSourceMissing, "no path still holds the content of %s", entry.Source).
		WithDetail("source", entry.Source)
	entry.MarkCopy(err)
	return false, err
}

// holdsContent reports whether info describes a regular file that is still
// the storage object the journal entry was planned for
func holdsContent(info fs.FileInfo, path string, entry *journal.Entry) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	if entry.StorageID == "" {
		return true
	}
	id, _, err := linkinfo.FromFileInfo(info, path)
	return err == nil && id.String() == entry.StorageID
}
