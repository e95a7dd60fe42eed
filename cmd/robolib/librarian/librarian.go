// Package librarian finds records documents on disk, builds registries from
// them and publishes each new registry through a robots.Handle.
//
// A rebuild always happens off to the side: the handle is only swapped once
// the new registry has been fully validated, and a failed rebuild leaves the
// previous registry in place.
package librarian

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"robo-tools/cmd/robolib/robotdoc"
	"robo-tools/cmd/robolib/robots"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects records documents inside a records directory.
const DefaultPattern = "**/*.{json,yml,yaml}"

// ErrNoSources is returned by Reload when no records file was found and the
// bundled document is not allowed as a fallback.
var ErrNoSources = errors.New("no records files found")

// Config controls where records documents are looked up.
type Config struct {
	// Dirs are scanned recursively for files matching Pattern.
	// Missing directories are skipped.
	Dirs []string

	// Files are loaded as given, after the files found in Dirs.
	// A missing file is an error.
	Files []string

	// Pattern is the doublestar pattern applied inside each of Dirs.
	// Empty means DefaultPattern.
	Pattern string

	// UseDefault falls back to the bundled records document when neither
	// Dirs nor Files yield anything.
	UseDefault bool

	// Debounce is how long Watch waits for more changes before reloading.
	// Zero means 300ms.
	Debounce time.Duration
}

func (c Config) pattern() string {
	if c.Pattern == "" {
		return DefaultPattern
	}
	return c.Pattern
}

func (c Config) debounce() time.Duration {
	if c.Debounce <= 0 {
		return 300 * time.Millisecond
	}
	return c.Debounce
}

// Librarian loads records into a shared Handle.
type Librarian struct {
	config Config
	handle *robots.Handle
	logger *slog.Logger
}

// New returns a Librarian publishing into handle. A nil logger means slog.Default().
func New(config Config, handle *robots.Handle, logger *slog.Logger) *Librarian {
	if logger == nil {
		logger = slog.Default()
	}
	if handle == nil {
		handle = robots.NewHandle(nil)
	}
	return &Librarian{config: config, handle: handle, logger: logger}
}

// Handle returns the handle the librarian publishes into.
func (l *Librarian) Handle() *robots.Handle { return l.handle }

// Sources returns the records files to load, in load order: matches from each
// directory (sorted), then the explicit files.
func (l *Librarian) Sources() ([]string, error) {
	var files []string
	for _, dir := range l.config.Dirs {
		matches, err := globDir(dir, l.config.pattern())
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	files = append(files, l.config.Files...)
	return files, nil
}

// globDir returns the sorted files under dir matching pattern. A missing
// directory yields no files and no error.
func globDir(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("records directory %s is not a directory", dir)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q in %s: %w", pattern, dir, err)
	}
	slices.Sort(matches)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return out, nil
}

// Build reads every source and builds a registry without publishing it.
func (l *Librarian) Build() (*robots.Registry, []string, error) {
	files, err := l.Sources()
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		if !l.config.UseDefault {
			return nil, nil, ErrNoSources
		}
		l.logger.Debug("No records files found, using bundled records")
		reg, err := robotdoc.Default()
		return reg, nil, err
	}

	docs := make([]robotdoc.Document, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, files, fmt.Errorf("records file %s: %w", f, err)
		}
		doc, err := robotdoc.Parse(data)
		if err != nil {
			return nil, files, fmt.Errorf("records file %s: %w", f, err)
		}
		docs = append(docs, doc)
	}
	reg, err := robotdoc.BuildFromDocuments(docs...)
	return reg, files, err
}

// Reload builds a new registry and publishes it. On failure the handle keeps
// whatever it held before and the error is returned.
func (l *Librarian) Reload() (*robots.Registry, error) {
	reg, files, err := l.Build()
	if err != nil {
		if l.handle.Loaded() {
			l.logger.Warn("Records reload rejected, keeping previous registry", "error", err)
		}
		return nil, err
	}
	previous := l.handle.Swap(reg)
	if previous == nil {
		l.logger.Debug("Registry loaded", "robots", reg.Len(), "files", files)
	} else {
		l.logger.Info("Registry reloaded", "robots", reg.Len(), "previous_robots", previous.Len(), "files", files)
	}
	return reg, nil
}
