// Package staging aggregates directories into one per-package output root
// that dependent packages can locate.
//
// The root is <OUT_DIR>/<CARGO_MANIFEST_LINKS>. Creating a Root publishes
// its path under the given key, so a dependent package sees it as
// DEP_<THISPKG>_<KEY>. The same key is used to find what this package's own
// dependencies published, which is what AddDep and MergeDep stage.
//
// A Root only ever adds content below its path. It has no locking; later
// operations overwrite earlier ones where paths collide.
package staging

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/arthur-debert/stagedir/pkg/announce"
	"github.com/arthur-debert/stagedir/pkg/depenv"
	"github.com/arthur-debert/stagedir/pkg/environment"
	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/filesystem"
	"github.com/arthur-debert/stagedir/pkg/logging"
	"github.com/arthur-debert/stagedir/pkg/mirror"
	"github.com/arthur-debert/stagedir/pkg/types"
	"github.com/rs/zerolog"
)

// Environment variable names
const (
	// EnvOutDir is the build output area of the current package
	EnvOutDir = "OUT_DIR"

	// EnvLinksName is the current package's declared link name
	EnvLinksName = "CARGO_MANIFEST_LINKS"
)

// Root is the staging directory of one package for one build.
type Root struct {
	key  string
	root string

	env    types.Environment
	mirror *mirror.Mirror
	logger zerolog.Logger
}

type settings struct {
	fsys       types.FS
	env        types.Environment
	announcer  types.Announcer
	mirrorOpts []mirror.Option
}

// Option configures New
type Option func(*settings)

// WithFS sets the filesystem to stage into. Defaults to the OS filesystem.
func WithFS(fsys types.FS) Option {
	return func(s *settings) { s.fsys = fsys }
}

// WithEnvironment sets where build variables are read from. Defaults to
// the process environment.
func WithEnvironment(env types.Environment) Option {
	return func(s *settings) { s.env = env }
}

// WithAnnouncer sets where directives go. Defaults to stdout.
func WithAnnouncer(a types.Announcer) Option {
	return func(s *settings) { s.announcer = a }
}

// WithMirrorOptions passes options to the mirror used for every copy
func WithMirrorOptions(opts ...mirror.Option) Option {
	return func(s *settings) { s.mirrorOpts = append(s.mirrorOpts, opts...) }
}

// New computes the staging root for key and publishes it. It fails with
// ErrLookupMissing, announcing nothing, if OUT_DIR or
// CARGO_MANIFEST_LINKS is unset.
func New(key string, opts ...Option) (*Root, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.fsys == nil {
		s.fsys = filesystem.NewOS()
	}
	if s.env == nil {
		env, err := environment.FromProcess()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to read process environment")
		}
		s.env = env
	}
	if s.announcer == nil {
		s.announcer = announce.Stdout()
	}

	outDir, err := lookupRequired(s.env, EnvOutDir)
	if err != nil {
		return nil, err
	}
	linksName, err := lookupRequired(s.env, EnvLinksName)
	if err != nil {
		return nil, err
	}
	root := filepath.Join(outDir, linksName)

	if err := s.announcer.Publish(key, root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to publish %s", key).
			WithDetail("key", key).
			WithDetail("op", "announce")
	}

	logger := logging.GetLogger("staging").With().Str("key", key).Str("root", root).Logger()
	logger.Debug().Msg("Staging root ready")

	return &Root{
		key:    key,
		root:   root,
		env:    s.env,
		mirror: mirror.New(s.fsys, s.announcer, s.mirrorOpts...),
		logger: logger,
	}, nil
}

// Key returns the key the root was published under
func (r *Root) Key() string {
	return r.key
}

// Path returns the staging root directory
func (r *Root) Path() string {
	return r.root
}

// AddDir copies dir into the root.
func (r *Root) AddDir(dir string) (*Root, error) {
	r.logger.Info().Str("dir", dir).Msg("Adding directory")
	if err := r.mirror.Copy(dir, r.root); err != nil {
		return nil, err
	}
	return r, nil
}

// AddDep copies what dep published under the root's key into root/<dep>,
// so dependencies never collide with each other.
func (r *Root) AddDep(dep string) (*Root, error) {
	dir, err := depenv.Value(r.env, dep, r.key)
	if err != nil {
		return nil, err
	}
	r.logger.Info().Str("dep", dep).Str("dir", dir).Msg("Adding dependency")
	if err := r.mirror.Copy(dir, filepath.Join(r.root, dep)); err != nil {
		return nil, err
	}
	return r, nil
}

// MergeDep copies what dep published under the root's key directly into
// the root. Files from different merged dependencies at the same relative
// path overwrite each other; the last merge wins.
func (r *Root) MergeDep(dep string) (*Root, error) {
	dir, err := depenv.Value(r.env, dep, r.key)
	if err != nil {
		return nil, err
	}
	r.logger.Info().Str("dep", dep).Str("dir", dir).Msg("Merging dependency")
	if err := r.mirror.Copy(dir, r.root); err != nil {
		return nil, err
	}
	return r, nil
}

func lookupRequired(env types.Environment, name string) (string, error) {
	value, ok := env.Lookup(name)
	if !ok || !utf8.ValidString(value) {
		return "", errors.Newf(errors.ErrLookupMissing, "environment variable %s not found", name).
			WithDetail("variable", name)
	}
	return value, nil
}
