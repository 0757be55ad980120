package journal

import (
	"fmt"
	"os"
	"time"
)

// Status is the state of one step
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ReplaceStep tracks turning one path into a symlink to the destination
type ReplaceStep struct {
	// Path is the path that held a hard link
	Path string `yaml:"path"`
	// Link is where the symlink was placed; empty until attempted
	Link   string `yaml:"link,omitempty"`
	Status Status `yaml:"status"`
	Error  string `yaml:"error,omitempty"`
}

// Entry tracks the relocation of one source
type Entry struct {
	Source      string        `yaml:"source"`
	Destination string        `yaml:"destination"`
	StorageID   string        `yaml:"storage_id"`
	Copy        Status        `yaml:"copy"`
	CopyError   string        `yaml:"copy_error,omitempty"`
	Replaces    []ReplaceStep `yaml:"replaces"`
}

// Journal is the persisted record of one run
type Journal struct {
	ID            string    `yaml:"id"`
	CreatedAt     time.Time `yaml:"created_at"`
	UpdatedAt     time.Time `yaml:"updated_at"`
	WorkDir       string    `yaml:"work_dir"`
	Pattern       string    `yaml:"pattern"`
	RelativeLinks bool      `yaml:"relative_links"`
	StagedReplace bool      `yaml:"staged_replace"`
	Entries       []*Entry  `yaml:"entries"`
}

// New creates an empty journal with a fresh id
func New(workDir, pattern string, relativeLinks, stagedReplace bool) *Journal {
	now := time.Now().UTC()
	return &Journal{
		ID:            fmt.Sprintf("%s-%d", now.Format("20060102T150405.000000000Z"), os.Getpid()),
		CreatedAt:     now,
		UpdatedAt:     now,
		WorkDir:       workDir,
		Pattern:       pattern,
		RelativeLinks: relativeLinks,
		StagedReplace: stagedReplace,
	}
}

// AddEntry records the plan for one source. paths lists every path that
// will be replaced, source first.
func (j *Journal) AddEntry(source, destination, storageID string, paths []string) *Entry {
	e := &Entry{
		Source:      source,
		Destination: destination,
		StorageID:   storageID,
		Copy:        StatusPending,
		Replaces:    make([]ReplaceStep, 0, len(paths)),
	}
	for _, p := range paths {
		e.Replaces = append(e.Replaces, ReplaceStep{Path: p, Status: StatusPending})
	}
	j.Entries = append(j.Entries, e)
	return e
}

// Entry returns the entry for source, or nil
func (j *Journal) Entry(source string) *Entry {
	if j == nil {
		return nil
	}
	for _, e := range j.Entries {
		if e.Source == source {
			return e
		}
	}
	return nil
}

// Complete reports whether every entry is complete
func (j *Journal) Complete() bool {
	for _, e := range j.Entries {
		if !e.Complete() {
			return false
		}
	}
	return true
}

// Incomplete returns entries that still have work left
func (j *Journal) Incomplete() []*Entry {
	var out []*Entry
	for _, e := range j.Entries {
		if !e.Complete() {
			out = append(out, e)
		}
	}
	return out
}

// Complete reports whether the copy and every replacement are done
func (e *Entry) Complete() bool {
	if e.Copy != StatusDone {
		return false
	}
	for _, r := range e.Replaces {
		if r.Status != StatusDone {
			return false
		}
	}
	return true
}

// PendingReplaces returns the replacements not yet done
func (e *Entry) PendingReplaces() []ReplaceStep {
	var out []ReplaceStep
	for _, r := range e.Replaces {
		if r.Status != StatusDone {
			out = append(out, r)
		}
	}
	return out
}

// MarkCopy records the outcome of the copy step. A nil entry is ignored.
func (e *Entry) MarkCopy(err error) {
	if e == nil {
		return
	}
	e.Copy, e.CopyError = outcome(err)
}

// MarkReplace records the outcome of replacing path. A nil entry is ignored.
func (e *Entry) MarkReplace(path, link string, err error) {
	if e == nil {
		return
	}
	for i := range e.Replaces {
		if e.Replaces[i].Path != path {
			continue
		}
		e.Replaces[i].Link = link
		e.Replaces[i].Status, e.Replaces[i].Error = outcome(err)
		return
	}
	status, msg := outcome(err)
	e.Replaces = append(e.Replaces, ReplaceStep{Path: path, Link: link, Status: status, Error: msg})
}

func outcome(err error) (Status, string) {
	if err != nil {
		return StatusFailed, err.Error()
	}
	return StatusDone, ""
}
