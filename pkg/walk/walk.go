// Package walk enumerates every entry below a directory in pre-order.
//
// A directory's visitor call always happens before any of its
// descendants'. Children are visited in the order the filesystem lists
// them; the walker does not sort. Directories reached through symlinks
// are descended into, and no loop detection is done unless a depth bound
// is set with WithMaxDepth.
package walk

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/logging"
	"github.com/arthur-debert/stagedir/pkg/types"
)

// VisitFunc is called once per entry with the entry's path, which is the
// walk root joined with the entry's relative location.
type VisitFunc func(path string) error

// Option configures a walk
type Option func(*walker)

// WithMaxDepth fails the walk with ErrWalkDepth instead of visiting
// entries more than n levels below the root. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(w *walker) {
		w.maxDepth = n
	}
}

type walker struct {
	fsys     types.FS
	maxDepth int
}

// frame is one directory whose children are still being visited
type frame struct {
	children []string
	depth    int
}

// Walk calls visit for every entry below root, parents first. The first
// error from listing, from resolving an entry's type, or from visit stops
// the walk and is returned.
func Walk(fsys types.FS, root string, visit VisitFunc, opts ...Option) error {
	w := &walker{fsys: fsys}
	for _, opt := range opts {
		opt(w)
	}

	logger := logging.GetLogger("walk")
	logger.Trace().Str("root", root).Int("maxDepth", w.maxDepth).Msg("Walking tree")

	children, err := w.list(root, 0)
	if err != nil {
		return err
	}

	// Explicit stack instead of recursion
	stack := []frame{{children: children, depth: 1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.children) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.children[0]
		top.children = top.children[1:]
		depth := top.depth

		if err := visit(child); err != nil {
			return err
		}

		isDir, err := IsDir(fsys, child)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to stat %s", child).
				WithDetail("path", child).
				WithDetail("op", "stat")
		}
		if !isDir {
			continue
		}

		grandchildren, err := w.list(child, depth)
		if err != nil {
			return err
		}
		// top may be invalidated by the append below
		stack = append(stack, frame{children: grandchildren, depth: depth + 1})
	}

	return nil
}

// list returns the full paths of dir's children; dir sits at depth
func (w *walker) list(dir string, depth int) ([]string, error) {
	entries, err := w.fsys.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to list %s", dir).
			WithDetail("path", dir).
			WithDetail("op", "readdir")
	}

	if w.maxDepth > 0 && len(entries) > 0 && depth+1 > w.maxDepth {
		return nil, errors.Newf(errors.ErrWalkDepth, "%s is deeper than %d levels", dir, w.maxDepth).
			WithDetail("path", dir).
			WithDetail("maxDepth", w.maxDepth)
	}

	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = filepath.Join(dir, entry.Name())
	}
	return paths, nil
}

// IsDir reports whether path is a directory, following symlinks. A
// dangling symlink is not a directory and not an error.
func IsDir(fsys types.FS, path string) (bool, error) {
	info, err := fsys.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	linfo, lerr := fsys.Lstat(path)
	if lerr == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		return false, nil
	}
	return false, err
}
