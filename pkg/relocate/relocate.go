package relocate

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/internal/hashutil"
	"github.com/arthur-debert/relink/pkg/journal"
	"github.com/arthur-debert/relink/pkg/linkinfo"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Options configures a Relocator
type Options struct {
	FileSystem types.FS
	// RelativeLinks points symlinks at the destination relative to the
	// link's directory instead of by absolute path
	RelativeLinks bool
	// StagedReplace swaps symlinks in by rename instead of remove-then-link
	StagedReplace bool
	// VerifyCopy checks the copied bytes against the source before the
	// copy is renamed into place
	VerifyCopy bool
	// Session records progress; nil disables journaling
	Session *journal.Session
}

// Relocator performs the copy-and-relink transformation
type Relocator struct {
	opts Options
}

// New creates a Relocator
func New(opts Options) *Relocator {
	return &Relocator{opts: opts}
}

// Plan is the resolved work for one inventory
type Plan struct {
	Source      string
	Destination string
	StorageID   types.StorageID
	// Paths lists every path to replace, source first
	Paths []string
}

// Result reports what Execute did for one inventory
type Result struct {
	Source      string
	Destination string
	// Links are the symlinks created, in replacement order
	Links []string
}

// ResolveDestination returns where source's content will live. An existing
// directory (or forceDir) means destination/basename(source); anything else
// is used verbatim.
func (r *Relocator) ResolveDestination(source, destination string, forceDir bool) (string, error) {
	if forceDir {
		return filepath.Join(destination, filepath.Base(source)), nil
	}
	info, err := r.opts.FileSystem.Stat(destination)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(destination, filepath.Base(source)), nil
	case err == nil || os.IsNotExist(err):
		return destination, nil
	default:
		return "", errors.IO(err, "stat", destination)
	}
}

// Plan resolves the destination for inv without mutating anything. It
// refuses a destination that is itself one of inv's links, since copying
// onto it would truncate the source.
func (r *Relocator) Plan(inv *types.LinkInventory, destination string, forceDir bool) (Plan, error) {
	dest, err := r.ResolveDestination(inv.SourcePath, destination, forceDir)
	if err != nil {
		return Plan{}, err
	}

	if info, err := r.opts.FileSystem.Lstat(dest); err == nil && info.Mode().IsRegular() {
		id, _, err := linkinfo.FromFileInfo(info, dest)
		if err != nil {
			return Plan{}, err
		}
		if id == inv.StorageID {
			return Plan{}, errors.Newf(errors.ErrInvalidInput,
				"destination %s is a hard link of %s", dest, inv.SourcePath).
				WithDetail("path", dest).
				WithDetail("source", inv.SourcePath)
		}
	}

	return Plan{
		Source:      inv.SourcePath,
		Destination: dest,
		StorageID:   inv.StorageID,
		Paths:       inv.Paths(),
	}, nil
}

// Execute relocates inv according to plan. The inventory is consumed: a
// second call for the same inventory fails. The first failing step aborts;
// steps already done are not undone.
func (r *Relocator) Execute(inv *types.LinkInventory, plan Plan) (Result, error) {
	logger := logging.GetLogger("relocate.execute").With().
		Str("source", plan.Source).
		Str("destination", plan.Destination).
		Logger()

	result := Result{Source: plan.Source, Destination: plan.Destination}
	if inv.Retired() {
		return result, errors.Newf(errors.ErrInternal, "%s was already relocated", inv.SourcePath)
	}
	paths := inv.Retire()
	entry := r.opts.Session.Entry(plan.Source)

	err := r.copyFile(plan.Source, plan.Destination)
	entry.MarkCopy(err)
	if saveErr := r.opts.Session.Save(); saveErr != nil && err == nil {
		return result, saveErr
	}
	if err != nil {
		return result, err
	}
	logger.Info().Msg("Copied content")

	for _, path := range paths {
		link, err := r.replace(path, plan.Source, plan.Destination)
		entry.MarkReplace(path, link, err)
		if saveErr := r.opts.Session.Save(); saveErr != nil && err == nil {
			return result, saveErr
		}
		if err != nil {
			return result, err
		}
		result.Links = append(result.Links, link)
		logger.Debug().Str("path", path).Str("link", link).Msg("Replaced with symlink")
	}

	logger.Info().Int("links", len(result.Links)).Msg("Relocated")
	return result, nil
}

// copyFile copies src to dst byte for byte, keeping src's permissions
func (r *Relocator) copyFile(src, dst string) error {
	fsys := r.opts.FileSystem

	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.IO(err, "stat", src)
	}
	if !info.Mode().IsRegular() {
		return errors.Newf(errors.ErrNotAFile, "%s is no longer a regular file", src).WithDetail("path", src)
	}
	perm := info.Mode().Perm()

	in, err := fsys.Open(src)
	if err != nil {
		return errors.IO(err, "open", src)
	}
	defer func() { _ = in.Close() }()

	tmp := filesystem.TempName(dst)
	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.IO(err, "create", tmp)
	}

	fail := func(err error, op, path string) error {
		_ = out.Close()
		_ = fsys.Remove(tmp)
		return errors.IO(err, op, path)
	}

	h := hashutil.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		return fail(err, "copy", src)
	}
	if err := out.Sync(); err != nil {
		return fail(err, "sync", tmp)
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return errors.IO(err, "close", tmp)
	}
	if r.opts.VerifyCopy {
		got, err := hashutil.CalculateFileChecksum(fsys, tmp)
		if err != nil {
			_ = fsys.Remove(tmp)
			return errors.IO(err, "verify", tmp)
		}
		if want := hashutil.Sum(h); got != want {
			_ = fsys.Remove(tmp)
			return errors.Newf(errors.ErrIO, "copy of %s does not match its source", src).
				WithDetail("path", dst).
				WithDetail("source", src)
		}
	}
	// OpenFile's mode is filtered by the umask
	if err := fsys.Chmod(tmp, perm); err != nil {
		_ = fsys.Remove(tmp)
		return errors.IO(err, "chmod", tmp)
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return errors.IO(err, "rename", dst)
	}
	return nil
}

// replace turns path into a symlink to dest and returns where the link
// went. If path is a directory the link is placed inside it under the
// source's base name.
func (r *Relocator) replace(path, source, dest string) (string, error) {
	fsys := r.opts.FileSystem

	link := path
	info, err := fsys.Stat(path)
	switch {
	case err == nil && info.IsDir():
		link = filepath.Join(path, filepath.Base(source))
	case err != nil && !os.IsNotExist(err):
		return link, errors.IO(err, "stat", path)
	}

	target, err := r.linkTarget(link, dest)
	if err != nil {
		return link, err
	}

	if !r.opts.StagedReplace {
		if err := fsys.Remove(link); err != nil && !os.IsNotExist(err) {
			return link, errors.IO(err, "remove", link)
		}
		if err := fsys.Symlink(target, link); err != nil {
			return link, errors.IO(err, "symlink", link)
		}
		return link, nil
	}

	tmp := filesystem.TempName(link)
	if err := fsys.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return link, errors.IO(err, "remove", tmp)
	}
	if err := fsys.Symlink(target, tmp); err != nil {
		return link, errors.IO(err, "symlink", tmp)
	}
	if err := fsys.Rename(tmp, link); err != nil {
		_ = fsys.Remove(tmp)
		return link, errors.IO(err, "rename", link)
	}
	return link, nil
}

func (r *Relocator) linkTarget(link, dest string) (string, error) {
	if !r.opts.RelativeLinks {
		return dest, nil
	}
	rel, err := filepath.Rel(filepath.Dir(link), dest)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot express %s relative to %s", dest, link)
	}
	return rel, nil
}

// resolvesTo reports whether link is a symlink whose target names dest
func resolvesTo(fsys types.FS, link, dest string) bool {
	info, err := fsys.Lstat(link)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := fsys.Readlink(link)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target) == filepath.Clean(dest)
}
