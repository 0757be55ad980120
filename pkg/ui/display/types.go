// Package display turns core results into renderer-neutral views
package display

import (
	"time"

	"github.com/arthur-debert/relink/pkg/core"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/relocate"
)

// RelinkView describes a run or, when DryRun is set, its plan
type RelinkView struct {
	DryRun      bool         `json:"dryRun"`
	Pattern     string       `json:"pattern"`
	Destination string       `json:"destination"`
	Visited     int          `json:"visited"`
	Attributed  int          `json:"attributed"`
	Sources     []SourceView `json:"sources"`
	JournalID   string       `json:"journalId,omitempty"`
}

// SourceView is one relocated (or planned) source
type SourceView struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	// Links are the symlinks created, or for a plan the paths to replace
	Links []string `json:"links"`
}

// LinkCount returns the total number of links across all sources
func (v *RelinkView) LinkCount() int {
	n := 0
	for _, s := range v.Sources {
		n += len(s.Links)
	}
	return n
}

// FromRelink builds the view for a core result
func FromRelink(r *core.RelinkResult) *RelinkView {
	v := &RelinkView{
		DryRun:      r.DryRun,
		Pattern:     r.Pattern,
		Destination: r.Destination,
		Visited:     r.Scan.Visited,
		Attributed:  r.Scan.Attributed,
		JournalID:   r.JournalID,
	}
	if r.DryRun {
		for _, p := range r.Plans {
			v.Sources = append(v.Sources, SourceView{Source: p.Source, Destination: p.Destination, Links: p.Paths})
		}
		return v
	}
	for _, res := range r.Results {
		v.Sources = append(v.Sources, SourceView{Source: res.Source, Destination: res.Destination, Links: res.Links})
	}
	return v
}

// ResumeView describes a finished resume
type ResumeView struct {
	JournalID   string   `json:"journalId"`
	Copied      []string `json:"copied"`
	Replaced    []string `json:"replaced"`
	AlreadyDone []string `json:"alreadyDone"`
}

// FromResume builds the view for a resume result
func FromResume(r relocate.ResumeResult) *ResumeView {
	return &ResumeView{
		JournalID:   r.JournalID,
		Copied:      r.Copied,
		Replaced:    r.Replaced,
		AlreadyDone: r.AlreadyDone,
	}
}

// JournalView summarizes one leftover journal
type JournalView struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	WorkDir   string    `json:"workDir"`
	Pattern   string    `json:"pattern"`
	Sources   int       `json:"sources"`
	// Pending counts copy and replace steps not yet done
	Pending int `json:"pending"`
}

// JournalList is the view for `relink journals`
type JournalList struct {
	Dir      string        `json:"dir"`
	Journals []JournalView `json:"journals"`
}

// FromJournals builds the journal list view
func FromJournals(dir string, journals []*journal.Journal) *JournalList {
	list := &JournalList{Dir: dir, Journals: []JournalView{}}
	for _, j := range journals {
		pending := 0
		for _, e := range j.Entries {
			if e.Copy != journal.StatusDone {
				pending++
			}
			pending += len(e.PendingReplaces())
		}
		list.Journals = append(list.Journals, JournalView{
			ID:        j.ID,
			CreatedAt: j.CreatedAt,
			WorkDir:   j.WorkDir,
			Pattern:   j.Pattern,
			Sources:   len(j.Entries),
			Pending:   pending,
		})
	}
	return list
}
