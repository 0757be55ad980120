// pkg/ui/display/types_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify core results convert to display views

package display_test

import (
	"testing"

	"github.com/arthur-debert/relink/pkg/core"
	"github.com/arthur-debert/relink/pkg/discovery"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/relocate"
	"github.com/arthur-debert/relink/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRelink_DryRunUsesPlans(t *testing.T) {
	v := display.FromRelink(&core.RelinkResult{
		DryRun:      true,
		Pattern:     "*.txt",
		Destination: "/d",
		Scan:        discovery.ScanReport{Visited: 4, Attributed: 2},
		Plans: []relocate.Plan{
			{Source: "/w/a.txt", Destination: "/d/a.txt", Paths: []string{"/w/a.txt", "/w/b.txt", "/w/c.txt"}},
		},
	})

	assert.True(t, v.DryRun)
	assert.Equal(t, 4, v.Visited)
	require.Len(t, v.Sources, 1)
	assert.Equal(t, "/d/a.txt", v.Sources[0].Destination)
	assert.Equal(t, 3, v.LinkCount())
}

func TestFromRelink_RunUsesResults(t *testing.T) {
	v := display.FromRelink(&core.RelinkResult{
		Plans: []relocate.Plan{{Source: "/w/a.txt", Paths: []string{"/w/a.txt", "/w/b.txt"}}},
		Results: []relocate.Result{
			{Source: "/w/a.txt", Destination: "/d/a.txt", Links: []string{"/w/a.txt"}},
		},
		JournalID: "run-1",
	})

	require.Len(t, v.Sources, 1)
	assert.Equal(t, []string{"/w/a.txt"}, v.Sources[0].Links)
	assert.Equal(t, "run-1", v.JournalID)
}

func TestFromJournals_CountsPendingSteps(t *testing.T) {
	j := journal.New("/w", "*.txt", true, true)
	j.ID = "run-1"
	e := j.AddEntry("/w/a.txt", "/d/a.txt", "1|2", []string{"/w/a.txt", "/w/b.txt"})
	e.MarkCopy(nil)
	e.MarkReplace("/w/a.txt", "/w/a.txt", nil)

	list := display.FromJournals("/state/journals", []*journal.Journal{j})
	require.Len(t, list.Journals, 1)
	assert.Equal(t, "run-1", list.Journals[0].ID)
	assert.Equal(t, 1, list.Journals[0].Sources)
	assert.Equal(t, 1, list.Journals[0].Pending)

	empty := display.FromJournals("/state/journals", nil)
	assert.NotNil(t, empty.Journals)
	assert.Empty(t, empty.Journals)
}
