package discovery

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/linkinfo"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// Options contains the inputs for Scan
type Options struct {
	Pattern    string
	WorkDir    string
	FileSystem types.FS
	// FollowSymlinks descends into symlinked directories while walking
	FollowSymlinks bool
}

// ScanReport summarizes one discovery pass
type ScanReport struct {
	// Root is the absolute directory the walk started from
	Root string
	// Visited counts every match the pattern produced
	Visited int
	// Attributed counts matches newly recorded on an inventory
	Attributed int
	// Duplicates counts matches that were a source path or already recorded
	Duplicates int
	// NonRegular counts matches skipped because they are not regular files
	NonRegular int
}

// Scan walks opts.Pattern and records every match that shares a storage id
// with an inventory in set. Additions made before a failure stay recorded;
// the returned error marks the whole pass as failed.
func Scan(set *types.InventorySet, opts Options) (ScanReport, error) {
	logger := logging.GetLogger("discovery.scan")
	done := logging.LogOperationStart(logger, "scan")
	defer done()

	var report ScanReport
	if opts.Pattern == "" {
		return report, errors.New(errors.ErrInvalidPattern, "search pattern cannot be empty")
	}

	base, pattern := doublestar.SplitPattern(filepath.ToSlash(opts.Pattern))
	root, err := paths.Normalize(opts.WorkDir, filepath.FromSlash(base))
	if err != nil {
		return report, err
	}
	report.Root = root

	logger.Debug().
		Str("pattern", opts.Pattern).
		Str("root", root).
		Str("relative", pattern).
		Msg("Scanning for links")

	// Matches under a symlinked directory are recorded by their real
	// location, which is also where the relocator computes link targets
	realDirs := make(map[string]string)
	canonical := func(path string) (string, error) {
		dir := filepath.Dir(path)
		resolved, ok := realDirs[dir]
		if !ok {
			var err error
			if resolved, err = filesystem.RealDir(opts.FileSystem, dir); err != nil {
				return "", errors.IO(err, "resolve", path)
			}
			realDirs[dir] = resolved
		}
		return filepath.Join(resolved, filepath.Base(path)), nil
	}

	visit := func(path string) error {
		report.Visited++

		info, err := opts.FileSystem.Lstat(path)
		if err != nil {
			return errors.IO(err, "stat", path)
		}
		if !info.Mode().IsRegular() {
			report.NonRegular++
			return nil
		}

		id, _, err := linkinfo.FromFileInfo(info, path)
		if err != nil {
			return err
		}
		inv, ok := set.Get(id)
		if !ok {
			return nil
		}

		path, err = canonical(path)
		if err != nil {
			return err
		}
		added, err := inv.AddDiscovered(path)
		if err != nil {
			return err
		}
		if !added {
			report.Duplicates++
			return nil
		}
		report.Attributed++
		logger.Debug().
			Str("path", path).
			Str("source", inv.SourcePath).
			Uint64("remaining", inv.Remaining()).
			Msg("Discovered link")
		return nil
	}

	// A pattern that ends at the root names the root itself
	if pattern == "" {
		err := visit(root)
		return report, err
	}

	globOpts := []doublestar.GlobOption{doublestar.WithFailOnIOErrors()}
	if !opts.FollowSymlinks {
		globOpts = append(globOpts, doublestar.WithNoFollow())
	}

	err = doublestar.GlobWalk(opts.FileSystem.IOFS(root), pattern, func(match string, _ fs.DirEntry) error {
		return visit(filepath.Join(root, filepath.FromSlash(match)))
	}, globOpts...)
	if err != nil {
		var relinkErr *errors.RelinkError
		switch {
		case stderrors.As(err, &relinkErr):
			return report, err
		case stderrors.Is(err, doublestar.ErrBadPattern):
			return report, errors.Wrapf(err, errors.ErrInvalidPattern, "invalid search pattern %q", opts.Pattern).
				WithDetail("pattern", opts.Pattern)
		default:
			return report, errors.IO(err, "enumerate", root)
		}
	}

	logger.Info().
		Int("visited", report.Visited).
		Int("attributed", report.Attributed).
		Int("duplicates", report.Duplicates).
		Msg("Discovery finished")

	return report, nil
}
