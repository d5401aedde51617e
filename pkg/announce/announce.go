// Package announce writes directives for the build orchestrator.
//
// Directives are single lines of the form
//
//	<prefix>:rerun-if-changed=<path>
//	<prefix>:<key>=<value>
//
// written to stdout, which is where the orchestrator reads them from.
package announce

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arthur-debert/stagedir/pkg/types"
)

// DefaultPrefix is the directive prefix the orchestrator recognizes
const DefaultPrefix = "cargo"

// Writer emits directives as text lines on an io.Writer.
type Writer struct {
	out    io.Writer
	prefix string
}

var _ types.Announcer = (*Writer)(nil)

// Option configures a Writer
type Option func(*Writer)

// WithPrefix replaces the directive prefix
func WithPrefix(prefix string) Option {
	return func(w *Writer) {
		w.prefix = prefix
	}
}

// NewWriter returns an announcer writing to out
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Stdout returns an announcer writing to the process stdout
func Stdout(opts ...Option) *Writer {
	return NewWriter(os.Stdout, opts...)
}

// RerunIfChanged implements types.Announcer
func (w *Writer) RerunIfChanged(path string) error {
	return w.line("rerun-if-changed", path)
}

// Publish implements types.Announcer
func (w *Writer) Publish(key, value string) error {
	return w.line(key, value)
}

func (w *Writer) line(directive, value string) error {
	if _, err := fmt.Fprintf(w.out, "%s:%s=%s\n", w.prefix, directive, value); err != nil {
		return fmt.Errorf("failed to write %s directive: %w", directive, err)
	}
	return nil
}

// Directive is one announcement captured by a Recorder
type Directive struct {
	Name  string
	Value string
}

// Recorder keeps announcements in memory instead of writing them.
type Recorder struct {
	mu         sync.Mutex
	directives []Directive
}

var _ types.Announcer = (*Recorder)(nil)

// NewRecorder returns an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RerunIfChanged implements types.Announcer
func (r *Recorder) RerunIfChanged(path string) error {
	r.add("rerun-if-changed", path)
	return nil
}

// Publish implements types.Announcer
func (r *Recorder) Publish(key, value string) error {
	r.add(key, value)
	return nil
}

func (r *Recorder) add(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directives = append(r.directives, Directive{Name: name, Value: value})
}

// Directives returns a copy of everything recorded so far
func (r *Recorder) Directives() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Directive, len(r.directives))
	copy(out, r.directives)
	return out
}

// Watched returns the paths passed to RerunIfChanged, in order
func (r *Recorder) Watched() []string {
	var paths []string
	for _, d := range r.Directives() {
		if d.Name == "rerun-if-changed" {
			paths = append(paths, d.Value)
		}
	}
	return paths
}

// Published returns the last value published for key
func (r *Recorder) Published(key string) (string, bool) {
	directives := r.Directives()
	for i := len(directives) - 1; i >= 0; i-- {
		if directives[i].Name == key {
			return directives[i].Value, true
		}
	}
	return "", false
}
