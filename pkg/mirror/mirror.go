// Package mirror replicates a source tree under a destination directory,
// either by copying file contents or by symlinking to the source files.
//
// Both modes walk the source in pre-order, announce every visited path to
// the build orchestrator as a rerun-if-changed directive, and create each
// directory before anything inside it. Destination paths are always
// computed relative to the src given to Copy or Link, whatever depth the
// walk has reached.
//
// A failure stops the mirror immediately. Whatever was written before it
// stays in place; there is no rollback.
package mirror

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/logging"
	"github.com/arthur-debert/stagedir/pkg/types"
	"github.com/arthur-debert/stagedir/pkg/walk"
	"github.com/rs/zerolog"
)

// Kind says how an entry was materialized in the destination
type Kind string

const (
	KindDir  Kind = "dir"
	KindFile Kind = "file"
	KindLink Kind = "link"
)

// Entry is one materialized destination path
type Entry struct {
	Source string `toml:"source" yaml:"source"`
	Dest   string `toml:"dest" yaml:"dest"`
	Kind   Kind   `toml:"kind" yaml:"kind"`
}

// Observer is told about every entry after it has been materialized
type Observer func(Entry)

// Mirror copies or links trees. It keeps no state between calls and is
// not meant for concurrent use on overlapping destinations.
type Mirror struct {
	fsys      types.FS
	announcer types.Announcer
	observers []Observer
	walkOpts  []walk.Option
	logger    zerolog.Logger
}

// Option configures a Mirror
type Option func(*Mirror)

// WithObserver registers o to be called for every materialized entry
func WithObserver(o Observer) Option {
	return func(m *Mirror) {
		m.observers = append(m.observers, o)
	}
}

// WithWalkOptions passes options through to the tree walker
func WithWalkOptions(opts ...walk.Option) Option {
	return func(m *Mirror) {
		m.walkOpts = append(m.walkOpts, opts...)
	}
}

// New creates a Mirror operating on fsys and announcing to announcer
func New(fsys types.FS, announcer types.Announcer, opts ...Option) *Mirror {
	m := &Mirror{
		fsys:      fsys,
		announcer: announcer,
		logger:    logging.GetLogger("mirror"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Copy replicates src under dest, copying file contents and permission
// bits. dest and its parents are created first. Existing files in dest
// are overwritten.
func (m *Mirror) Copy(src, dest string) error {
	return m.run("copy", src, dest, m.copyFile)
}

// Link replicates src under dest with a symlink per file, pointing at
// the source path as walked. Anything already at a file's destination is
// removed first.
func (m *Mirror) Link(src, dest string) error {
	return m.run("link", src, dest, m.linkFile)
}

type fileFunc func(source, dest string) (Kind, error)

func (m *Mirror) run(mode, src, dest string, materialize fileFunc) error {
	logger := m.logger.With().Str("mode", mode).Str("src", src).Str("dest", dest).Logger()
	done := logging.LogOperationStart(logger, mode)

	if err := m.fsys.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", dest).
			WithDetail("path", dest).
			WithDetail("op", "mkdir")
	}

	count := 0
	err := walk.Walk(m.fsys, src, func(p string) error {
		rel, err := relativize(src, p)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dest, rel)

		if err := m.announcer.RerunIfChanged(p); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to announce %s", p).
				WithDetail("path", p).
				WithDetail("op", "announce")
		}

		isDir, err := walk.IsDir(m.fsys, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to stat %s", p).
				WithDetail("path", p).
				WithDetail("op", "stat")
		}

		kind := KindDir
		if isDir {
			if err := m.fsys.MkdirAll(destPath, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to create %s", destPath).
					WithDetail("source", p).
					WithDetail("dest", destPath).
					WithDetail("op", "mkdir")
			}
		} else {
			kind, err = materialize(p, destPath)
			if err != nil {
				return err
			}
		}

		logger.Trace().Str("source", p).Str("target", destPath).Str("kind", string(kind)).Msg("Mirrored entry")
		for _, o := range m.observers {
			o(Entry{Source: p, Dest: destPath, Kind: kind})
		}
		count++
		return nil
	}, m.walkOpts...)
	if err != nil {
		logger.Debug().Err(err).Int("entries", count).Msg("Mirror failed")
		return err
	}

	logger.Debug().Int("entries", count).Msg("Mirror finished")
	done()
	return nil
}

// relativize returns p relative to root, failing if p is not below root
func relativize(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err == nil && (rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		err = errors.Newf(errors.ErrInternal, "%s is not below the walk root", p)
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPath, "cannot relativize %s against %s", p, root).
			WithDetail("path", p).
			WithDetail("root", root)
	}
	return rel, nil
}

func (m *Mirror) copyFile(source, dest string) (Kind, error) {
	wrap := func(err error, op string) error {
		return errors.Wrapf(err, errors.ErrIO, "copy %s to %s", source, dest).
			WithDetail("source", source).
			WithDetail("dest", dest).
			WithDetail("op", op)
	}

	// Writing through a symlink left by an earlier Link would overwrite
	// the file it points at
	if info, err := m.fsys.Lstat(dest); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := m.fsys.Remove(dest); err != nil {
			return "", wrap(err, "remove")
		}
	}

	info, err := m.fsys.Stat(source)
	if err != nil {
		return "", wrap(err, "stat")
	}
	perm := info.Mode().Perm()

	in, err := m.fsys.Open(source)
	if err != nil {
		return "", wrap(err, "open")
	}
	defer func() { _ = in.Close() }()

	out, err := m.fsys.Create(dest, perm)
	if err != nil {
		return "", wrap(err, "create")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", wrap(err, "write")
	}
	if err := out.Close(); err != nil {
		return "", wrap(err, "close")
	}

	// Create only applies perm to new files
	if err := m.fsys.Chmod(dest, perm); err != nil {
		return "", wrap(err, "chmod")
	}
	return KindFile, nil
}

func (m *Mirror) linkFile(source, dest string) (Kind, error) {
	wrap := func(err error, op string) error {
		return errors.Wrapf(err, errors.ErrIO, "link %s to %s", source, dest).
			WithDetail("source", source).
			WithDetail("dest", dest).
			WithDetail("op", op)
	}

	// Lstat so a dangling link at dest is still replaced
	if _, err := m.fsys.Lstat(dest); err == nil {
		if err := m.fsys.Remove(dest); err != nil {
			return "", wrap(err, "remove")
		}
	}

	if err := m.fsys.Symlink(source, dest); err != nil {
		return "", wrap(err, "symlink")
	}
	return KindLink, nil
}
