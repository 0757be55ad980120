package core

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/discovery"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/gate"
	"github.com/arthur-debert/relink/pkg/inventory"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/linkinfo"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/relocate"
	"github.com/arthur-debert/relink/pkg/types"
)

// RelinkOptions contains everything a run needs. Nothing is read from
// process state except when WorkDir is empty.
type RelinkOptions struct {
	// Pattern is the search pattern, relative to WorkDir unless absolute
	Pattern string
	// Sources are the declared source paths in declaration order
	Sources []string
	// Destination is a directory or, for a single source, a file path
	Destination string
	// WorkDir resolves relative paths; defaults to the current directory
	WorkDir string
	// DryRun stops after the completeness gate and returns the plan
	DryRun     bool
	FileSystem types.FS
	// Config defaults to config.Default()
	Config *config.Config
	// Store persists the recovery journal; nil disables journaling
	Store *journal.Store
}

// RelinkResult describes a run, or the plan for one when DryRun is set
type RelinkResult struct {
	DryRun      bool
	Pattern     string
	Destination string
	Scan        discovery.ScanReport
	Plans       []relocate.Plan
	// Results holds one entry per relocated source, in declaration order
	Results []relocate.Result
	// JournalID names the journal written for the run, if any
	JournalID string
}

// Relink performs a complete run
func Relink(opts RelinkOptions) (*RelinkResult, error) {
	logger := logging.GetLogger("core.relink")
	logger.Info().
		Str("pattern", opts.Pattern).
		Strs("sources", opts.Sources).
		Str("destination", opts.Destination).
		Bool("dryRun", opts.DryRun).
		Msg("Starting relink")

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot determine working directory")
		}
		workDir = wd
	}
	if !filepath.IsAbs(workDir) {
		return nil, errors.Newf(errors.ErrInvalidInput, "working directory must be absolute: %s", workDir)
	}

	if opts.Destination == "" {
		return nil, errors.New(errors.ErrInvalidInput, "destination cannot be empty")
	}
	destination, err := paths.Normalize(workDir, opts.Destination)
	if err != nil {
		return nil, err
	}

	result := &RelinkResult{
		DryRun:      opts.DryRun,
		Pattern:     opts.Pattern,
		Destination: destination,
	}

	// Step 1: Build one inventory per declared source
	set, err := inventory.Build(inventory.Options{
		Sources:         opts.Sources,
		WorkDir:         workDir,
		FileSystem:      fsys,
		DuplicatePolicy: cfg.Sources.DuplicatePolicy,
		SameDevice:      cfg.Discovery.SameDevice,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build inventories")
		return result, err
	}

	// Step 2: Attribute every link under the pattern
	result.Scan, err = discovery.Scan(set, discovery.Options{
		Pattern:        opts.Pattern,
		WorkDir:        workDir,
		FileSystem:     fsys,
		FollowSymlinks: cfg.Discovery.FollowSymlinks,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Discovery failed")
		return result, err
	}

	// Step 3: Refuse to touch anything unless every link was found
	if err := gate.Check(set); err != nil {
		logger.Warn().Err(err).Msg("Completeness gate refused the run")
		return result, err
	}

	forceDir := len(opts.Sources) > 1
	planner := relocate.New(relocate.Options{FileSystem: fsys})
	inventories := set.All()
	for _, inv := range inventories {
		plan, err := planner.Plan(inv, destination, forceDir)
		if err != nil {
			return result, err
		}
		result.Plans = append(result.Plans, plan)
	}
	if err := checkCollisions(result.Plans); err != nil {
		return result, err
	}
	if forceDir {
		if err := checkBatchDestination(fsys, set, destination); err != nil {
			return result, err
		}
	}

	if opts.DryRun {
		logger.Info().Int("plans", len(result.Plans)).Msg("Dry run, stopping before any change")
		return result, nil
	}

	var session *journal.Session
	if opts.Store != nil && cfg.Journal.Enabled {
		j := journal.New(workDir, opts.Pattern, cfg.Relocate.RelativeLinks, cfg.Relocate.StagedReplace)
		for _, plan := range result.Plans {
			j.AddEntry(plan.Source, plan.Destination, plan.StorageID.String(), plan.Paths)
		}
		session = journal.NewSession(opts.Store, j)
		if err := session.Save(); err != nil {
			return result, err
		}
		result.JournalID = j.ID
	}

	// Step 4: A batch always lands in a directory
	if forceDir {
		if err := ensureDir(fsys, destination); err != nil {
			return result, err
		}
	}

	// Step 5: Relocate in declaration order
	relocator := relocate.New(relocate.Options{
		FileSystem:    fsys,
		RelativeLinks: cfg.Relocate.RelativeLinks,
		StagedReplace: cfg.Relocate.StagedReplace,
		VerifyCopy:    cfg.Relocate.VerifyCopy,
		Session:       session,
	})
	for i, inv := range inventories {
		res, err := relocator.Execute(inv, result.Plans[i])
		if err != nil {
			logger.Error().Err(err).Str("source", inv.SourcePath).Msg("Relocation failed")
			return result, err
		}
		result.Results = append(result.Results, res)
	}

	if err := session.Finish(); err != nil {
		return result, err
	}

	logger.Info().Int("sources", len(result.Results)).Msg("Relink complete")
	return result, nil
}

// checkCollisions refuses two plans copying to the same destination, which
// would leave the first source's links pointing at the second's content
func checkCollisions(plans []relocate.Plan) error {
	seen := make(map[string]string, len(plans))
	for _, plan := range plans {
		if other, ok := seen[plan.Destination]; ok {
			return errors.Newf(errors.ErrInvalidInput,
				"%s and %s would both be copied to %s", other, plan.Source, plan.Destination).
				WithDetail("path", plan.Destination).
				WithDetail("source", plan.Source)
		}
		seen[plan.Destination] = plan.Source
	}
	return nil
}

// checkBatchDestination refuses a batch destination that is one of the
// files being relocated, since making it a directory would delete it
func checkBatchDestination(fsys types.FS, set *types.InventorySet, destination string) error {
	info, err := fsys.Lstat(destination)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	id, _, err := linkinfo.FromFileInfo(info, destination)
	if err != nil {
		return err
	}
	if inv, ok := set.Get(id); ok {
		return errors.Newf(errors.ErrInvalidInput,
			"destination %s is a link of source %s and cannot become a directory", destination, inv.SourcePath).
			WithDetail("path", destination).
			WithDetail("source", inv.SourcePath)
	}
	return nil
}

// ensureDir makes path a directory, replacing whatever non-directory
// object is there
func ensureDir(fsys types.FS, path string) error {
	if info, err := fsys.Stat(path); err == nil && info.IsDir() {
		return nil
	}
	if _, err := fsys.Lstat(path); err == nil {
		if err := fsys.Remove(path); err != nil {
			return errors.IO(err, "remove", path)
		}
	} else if !os.IsNotExist(err) {
		return errors.IO(err, "stat", path)
	}
	if err := fsys.MkdirAll(path, 0755); err != nil {
		return errors.IO(err, "mkdir", path)
	}
	return nil
}
