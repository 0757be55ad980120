// pkg/core/relink_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (TestEnvironment), FaultFS, journal store
// PURPOSE: Verify the end-to-end run: gate before mutation, batch handling, journaling

package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/core"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/gate"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(env *testutil.TestEnvironment, pattern, destination string, sources ...string) core.RelinkOptions {
	return core.RelinkOptions{
		Pattern:     pattern,
		Sources:     sources,
		Destination: destination,
		WorkDir:     env.WorkDir,
		FileSystem:  env.FS,
		Config:      config.Default(),
		Store:       journal.NewStore(env.FS, env.Paths.JournalDir()),
	}
}

func journalFiles(t *testing.T, env *testutil.TestEnvironment) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(env.Paths.JournalDir())
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestRelink_FullCoverage(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	files := env.HardLinkSet("shared", "a.txt", "b.txt", "c.txt")
	env.Dir("dest")

	result, err := core.Relink(options(env, "*.txt", "dest", "a.txt"))
	require.NoError(t, err)

	dest := env.Path("dest/a.txt")
	require.Len(t, result.Results, 1)
	assert.Equal(t, dest, result.Results[0].Destination)
	assert.True(t, testutil.RegularFileExists(t, dest))
	testutil.AssertFileContent(t, dest, "shared")
	for _, f := range files {
		testutil.AssertResolvesTo(t, f, dest)
	}
	assert.NotEmpty(t, result.JournalID)
	assert.Empty(t, journalFiles(t, env), "journal is removed after success")
}

func TestRelink_FailsClosedOnIncompleteDiscovery(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt", "deep/c.txt")
	env.Dir("dest")
	before := testutil.TakeSnapshot(t, env.WorkDir)

	faulty := testutil.NewFaultFS(env.FS)
	opts := options(env, "*.txt", "dest", "a.txt")
	opts.FileSystem = faulty

	_, err := core.Relink(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteDiscovery))

	shortfalls := gate.Shortfalls(err)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, env.Path("a.txt"), shortfalls[0].Source)
	assert.Equal(t, uint64(1), shortfalls[0].Remaining)

	assert.Empty(t, faulty.Mutations())
	testutil.AssertUnchanged(t, env.WorkDir, before)
	assert.Empty(t, journalFiles(t, env))
}

func TestRelink_OverlappingPatternCountsOnce(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "sub/b.txt")
	env.Dir("dest")

	result, err := core.Relink(options(env, "{**/*.txt,sub/*}", "dest", "a.txt"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Scan.Visited, result.Scan.Attributed)
	assert.Equal(t, 1, result.Scan.Attributed)
	testutil.AssertResolvesTo(t, env.Path("sub/b.txt"), env.Path("dest/a.txt"))
}

func TestRelink_LiteralDestination(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt")

	result, err := core.Relink(options(env, "*.txt", "moved.dat", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, env.Path("moved.dat"), result.Results[0].Destination)
	testutil.AssertFileContent(t, env.Path("moved.dat"), "shared")
	testutil.AssertSymlink(t, env.Path("b.txt"), "moved.dat")
}

func TestRelink_BatchCreatesDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("one", "a.txt", "x/a2.txt")
	env.HardLinkSet("two", "b.txt", "x/b2.txt")
	// A plain file in the way of a batch destination is replaced
	env.File("out", "in the way")

	result, err := core.Relink(options(env, "**/*.txt", "out", "a.txt", "b.txt"))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	info, err := os.Stat(env.Path("out"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	testutil.AssertFileContent(t, env.Path("out/a.txt"), "one")
	testutil.AssertFileContent(t, env.Path("out/b.txt"), "two")
	testutil.AssertResolvesTo(t, env.Path("x/a2.txt"), env.Path("out/a.txt"))
	testutil.AssertResolvesTo(t, env.Path("x/b2.txt"), env.Path("out/b.txt"))
	assert.Equal(t, env.Path("a.txt"), result.Results[0].Source)
	assert.Equal(t, env.Path("b.txt"), result.Results[1].Source)
}

func TestRelink_SelfIdentity(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.File("solo.txt", "alone")
	env.Dir("dest")

	result, err := core.Relink(options(env, "*.txt", "dest", "solo.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scan.Attributed)
	assert.Equal(t, 1, result.Scan.Duplicates)
	testutil.AssertResolvesTo(t, env.Path("solo.txt"), env.Path("dest/solo.txt"))
}

func TestRelink_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt")
	env.Dir("dest")
	before := testutil.TakeSnapshot(t, env.WorkDir)

	opts := options(env, "*.txt", "dest", "a.txt")
	opts.DryRun = true
	result, err := core.Relink(opts)
	require.NoError(t, err)

	require.Len(t, result.Plans, 1)
	assert.Equal(t, env.Path("dest/a.txt"), result.Plans[0].Destination)
	assert.ElementsMatch(t, []string{env.Path("a.txt"), env.Path("b.txt")}, result.Plans[0].Paths)
	assert.Empty(t, result.Results)
	testutil.AssertUnchanged(t, env.WorkDir, before)
	assert.Empty(t, journalFiles(t, env))
}

func TestRelink_DestinationCollision(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.File("one/same.txt", "1")
	env.File("two/same.txt", "2")
	before := testutil.TakeSnapshot(t, env.WorkDir)

	_, err := core.Relink(options(env, "**/*.txt", "dest", "one/same.txt", "two/same.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	testutil.AssertUnchanged(t, env.WorkDir, before)
}

func TestRelink_DuplicateSourcePolicy(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt")
	env.Dir("dest")

	_, err := core.Relink(options(env, "*.txt", "dest", "a.txt", "b.txt"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateSource))

	opts := options(env, "*.txt", "dest", "a.txt", "b.txt")
	opts.Config.Sources.DuplicatePolicy = config.DuplicateMerge
	result, err := core.Relink(opts)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	testutil.AssertResolvesTo(t, env.Path("b.txt"), env.Path("dest/a.txt"))
}

func TestRelink_FailureLeavesJournal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt")
	env.Dir("dest")

	faulty := testutil.NewFaultFS(env.FS)
	faulty.FailOn("rename", env.Path("b.txt"), os.ErrPermission)
	opts := options(env, "*.txt", "dest", "a.txt")
	opts.FileSystem = faulty

	result, err := core.Relink(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	require.Len(t, journalFiles(t, env), 1)

	resumed, err := core.Resume(core.ResumeOptions{FileSystem: env.FS, Store: opts.Store})
	require.NoError(t, err)
	assert.Equal(t, result.JournalID, resumed.JournalID)
	testutil.AssertResolvesTo(t, env.Path("b.txt"), env.Path("dest/a.txt"))
	assert.Empty(t, journalFiles(t, env))
}

func TestRelink_JournalDisabled(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.File("a.txt", "x")
	env.Dir("dest")

	opts := options(env, "*.txt", "dest", "a.txt")
	opts.Config.Journal.Enabled = false
	result, err := core.Relink(opts)
	require.NoError(t, err)
	assert.Empty(t, result.JournalID)
}

func TestRelink_RejectsBadInput(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.File("a.txt", "x")

	_, err := core.Relink(options(env, "*.txt", "", "a.txt"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = core.Relink(options(env, "*.txt", "dest"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = core.Relink(options(env, "[", "dest", "a.txt"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPattern))

	_, err = core.Relink(options(env, "*.txt", "dest", "missing.txt"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceMissing))

	opts := options(env, "*.txt", "dest", "a.txt")
	opts.WorkDir = filepath.Join("relative", "dir")
	_, err = core.Relink(opts)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRelink_BatchDestinationThatIsASourceIsRefused(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.File("a.txt", "plain")
	env.File("c.txt", "precious")
	before := testutil.TakeSnapshot(t, env.WorkDir)

	_, err := core.Relink(options(env, "*.txt", "c.txt", "a.txt", "c.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, env.Path("c.txt"), errors.GetErrorDetails(err)["source"])

	testutil.AssertUnchanged(t, env.WorkDir, before)
	testutil.AssertFileContent(t, env.Path("c.txt"), "precious")
	assert.Empty(t, journalFiles(t, env))
}

func TestRelink_BatchDestinationThatIsAHardLinkIsRefused(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("one", "a.txt", "out")
	env.File("b.txt", "two")
	before := testutil.TakeSnapshot(t, env.WorkDir)

	_, err := core.Relink(options(env, "*", "out", "a.txt", "b.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	testutil.AssertUnchanged(t, env.WorkDir, before)
}

// workDirAlias creates a symlink beside the work directory pointing at it
func workDirAlias(t *testing.T, env *testutil.TestEnvironment) string {
	t.Helper()
	alias := filepath.Join(env.Root, "alias")
	testutil.CreateSymlink(t, env.WorkDir, alias)
	return alias
}

func TestRelink_PatternThroughDirectoryAlias(t *testing.T) {
	testutil.SkipOnWindows(t)
	env := testutil.NewTestEnvironment(t)
	files := env.HardLinkSet("shared", "a.txt", "b.txt")
	env.Dir("dest")
	alias := workDirAlias(t, env)

	result, err := core.Relink(options(env, alias+"/*.txt", "dest", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scan.Attributed)
	assert.Equal(t, 1, result.Scan.Duplicates)

	dest := env.Path("dest/a.txt")
	testutil.AssertFileContent(t, dest, "shared")
	for _, f := range files {
		testutil.AssertSymlink(t, f, filepath.Join("dest", "a.txt"))
		testutil.AssertResolvesTo(t, f, dest)
	}
}

func TestRelink_AliasDoesNotHideAMissingLink(t *testing.T) {
	testutil.SkipOnWindows(t)
	env := testutil.NewTestEnvironment(t)
	env.HardLinkSet("shared", "a.txt", "b.txt", "hidden/c.txt")
	env.Dir("dest")
	alias := workDirAlias(t, env)
	before := testutil.TakeSnapshot(t, env.WorkDir)

	_, err := core.Relink(options(env, alias+"/*.txt", "dest", "a.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteDiscovery))

	testutil.AssertUnchanged(t, env.WorkDir, before)
	assert.True(t, testutil.RegularFileExists(t, env.Path("hidden/c.txt")))
}
