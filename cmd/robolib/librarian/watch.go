package librarian

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"robo-tools/cmd/robolib/robots"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called after every debounced reload attempt. reg is nil when
// err is not.
type ReloadFunc func(reg *robots.Registry, err error)

// Watch reloads the registry whenever a records file changes, until ctx is
// cancelled. Directories are watched rather than files so that editors which
// replace a file on save are still picked up.
func (l *Librarian) Watch(ctx context.Context, onReload ReloadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := l.addWatches(w); err != nil {
		return err
	}
	l.logger.Info("Watching records",
		"dirs", l.config.Dirs,
		"files", l.config.Files,
		"debounce", l.config.debounce())

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			changed := l.relevant(ev.Name)
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					changed = l.watchCreatedDir(w, ev.Name) || changed
				}
			}
			if !changed {
				continue
			}
			l.logger.Debug("Records change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(l.config.debounce())
			} else {
				timer.Reset(l.config.debounce())
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("Watcher error", "error", err)

		case <-fire:
			fire = nil
			reg, err := l.Reload()
			if onReload != nil {
				onReload(reg, err)
			}
		}
	}
}

// addWatches registers every records directory (recursively) and the parent
// directory of every explicit file. A records directory that does not exist
// yet is covered by watching its nearest existing ancestor.
func (l *Librarian) addWatches(w *fsnotify.Watcher) error {
	for _, dir := range l.config.Dirs {
		err := addDirTree(w, dir)
		if errors.Is(err, fs.ErrNotExist) {
			anc, ok := nearestExisting(dir)
			if !ok {
				l.logger.Debug("No existing ancestor of records directory, not watching", "dir", dir)
				continue
			}
			l.logger.Debug("Records directory does not exist, watching ancestor", "dir", dir, "ancestor", anc)
			err = w.Add(anc)
		}
		if err != nil {
			return err
		}
	}
	for _, f := range l.config.Files {
		if err := w.Add(filepath.Dir(f)); err != nil {
			return err
		}
	}
	return nil
}

func addDirTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// watchCreatedDir starts watching a directory that appeared after Watch
// began. It reports whether the new tree already holds records files, since
// their own create events may have fired before the watch was in place.
func (l *Librarian) watchCreatedDir(w *fsnotify.Watcher, path string) bool {
	switch {
	case l.underDir(path):
		if err := addDirTree(w, path); err != nil {
			l.logger.Warn("Failed to watch new directory", "path", path, "error", err)
		}
	case l.aboveDir(path):
		if err := l.addWatches(w); err != nil {
			l.logger.Warn("Failed to watch new directory", "path", path, "error", err)
		}
	default:
		return false
	}
	return l.treeHasRecords(path)
}

// nearestExisting returns the closest ancestor of dir that is an existing
// directory.
func nearestExisting(dir string) (string, bool) {
	for p := filepath.Dir(filepath.Clean(dir)); ; p = filepath.Dir(p) {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, true
		}
		if filepath.Dir(p) == p {
			return "", false
		}
	}
}

func (l *Librarian) treeHasRecords(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipAll
		}
		if !d.IsDir() && l.relevant(path) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// aboveDir reports whether path is a strict ancestor of a records directory.
func (l *Librarian) aboveDir(path string) bool {
	for _, dir := range l.config.Dirs {
		if rel, err := filepath.Rel(path, dir); err == nil && rel != "." && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}

func (l *Librarian) underDir(path string) bool {
	for _, dir := range l.config.Dirs {
		if rel, err := filepath.Rel(dir, path); err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}

// relevant reports whether a change to path can affect the loaded records.
func (l *Librarian) relevant(path string) bool {
	clean := filepath.Clean(path)
	for _, f := range l.config.Files {
		if filepath.Clean(f) == clean {
			return true
		}
	}
	for _, dir := range l.config.Dirs {
		rel, err := filepath.Rel(dir, clean)
		if err != nil || !filepath.IsLocal(rel) {
			continue
		}
		if ok, _ := doublestar.Match(l.config.pattern(), filepath.ToSlash(rel)); ok {
			return true
		}
	}
	return false
}
