package level

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle is how long a file must stay quiet before its change is
// reported. Editors often write a file several times in one save.
const watchSettle = 100 * time.Millisecond

// Watcher reports changes to a fixed set of track files. Events carries
// the path of a file once its writes have settled, as it was passed to
// NewWatcher.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]string // cleaned path -> caller's path
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches files by their parent directories, so a file that is
// replaced on save keeps reporting. Empty paths are skipped.
func NewWatcher(files ...string) (*Watcher, error) {
	targets := make(map[string]string)
	dirs := make(map[string]bool)
	var order []string
	for _, f := range files {
		if f == "" {
			continue
		}
		clean := filepath.Clean(f)
		targets[clean] = f
		if dir := filepath.Dir(clean); !dirs[dir] {
			dirs[dir] = true
			order = append(order, dir)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("level: watch: no files")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range order {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("level: watch %s: %w", dir, err)
		}
	}

	watcher := &Watcher{
		watcher: w,
		files:   targets,
		Events:  make(chan string, len(targets)),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	settle := time.NewTimer(watchSettle)
	settle.Stop()
	defer settle.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, ok := w.files[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			pending[path] = true
			settle.Reset(watchSettle)
		case <-settle.C:
			for path := range pending {
				delete(pending, path)
				select {
				case w.Events <- path:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
