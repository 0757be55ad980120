// Package inventory builds the per-source link inventories that discovery
// fills in and the relocator consumes.
package inventory

import (
	"os"

	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/linkinfo"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/types"
)

// Options contains the inputs for Build
type Options struct {
	// Sources are the declared source paths in declaration order
	Sources []string
	// WorkDir resolves relative sources; must be absolute
	WorkDir string
	// FileSystem is used for every stat
	FileSystem types.FS
	// DuplicatePolicy decides what to do with two sources sharing a storage id
	DuplicatePolicy config.DuplicatePolicy
	// SameDevice requires every source to live on one device
	SameDevice bool
}

// Build stats every declared source and returns one inventory per distinct
// storage object, in declaration order.
func Build(opts Options) (*types.InventorySet, error) {
	logger := logging.GetLogger("inventory.build")

	if len(opts.Sources) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "at least one source is required")
	}
	if opts.FileSystem == nil {
		return nil, errors.New(errors.ErrInternal, "no filesystem provided")
	}

	set := types.NewInventorySet()
	var first *types.LinkInventory

	for _, raw := range opts.Sources {
		source, err := paths.Normalize(opts.WorkDir, raw)
		if err != nil {
			return nil, err
		}

		info, err := opts.FileSystem.Lstat(source)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(err, errors.ErrSourceMissing, "source %s does not exist", raw).
					WithDetail("path", source)
			}
			return nil, errors.IO(err, "stat", source)
		}
		if !info.Mode().IsRegular() {
			kind := "not a regular file"
			if info.IsDir() {
				kind = "a directory"
			}
			return nil, errors.Newf(errors.ErrNotAFile, "source %s is %s; only regular files are supported", raw, kind).
				WithDetail("path", source)
		}

		// Discovery compares paths, so sources reached through a
		// directory symlink must be spelled the same way matches are
		source, err = filesystem.CanonicalPath(opts.FileSystem, source)
		if err != nil {
			return nil, errors.IO(err, "resolve", raw)
		}

		id, nlink, err := linkinfo.FromFileInfo(info, source)
		if err != nil {
			return nil, err
		}

		if opts.SameDevice && first != nil && !first.StorageID.SameDevice(id) {
			return nil, errors.Newf(errors.ErrCrossDevice, "source %s is on a different device than %s", raw, first.SourcePath).
				WithDetail("path", source).
				WithDetail("source", first.SourcePath)
		}

		if existing, ok := set.Get(id); ok {
			if err := handleDuplicate(existing, source, opts.DuplicatePolicy); err != nil {
				return nil, err
			}
			logger.Info().
				Str("source", existing.SourcePath).
				Str("path", source).
				Msg("Merged duplicate source into existing inventory")
			continue
		}

		inv := types.NewLinkInventory(source, id, nlink)
		set.Put(inv)
		if first == nil {
			first = inv
		}

		logger.Debug().
			Str("source", source).
			Str("storageID", id.String()).
			Uint64("expectedOtherLinks", inv.ExpectedOtherLinks).
			Msg("Created link inventory")
	}

	return set, nil
}

func handleDuplicate(existing *types.LinkInventory, path string, policy config.DuplicatePolicy) error {
	if policy != config.DuplicateMerge {
		return errors.Newf(errors.ErrDuplicateSource, "%s and %s are the same file", existing.SourcePath, path).
			WithDetail("source", existing.SourcePath).
			WithDetail("path", path)
	}
	// Declaring the source path itself twice is a no-op
	_, err := existing.AddDiscovered(path)
	return err
}
