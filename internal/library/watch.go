package library

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Change describes a model file event seen by a Watcher.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Watcher keeps a Library in sync with its directory and reports changes to
// model files. Writes to the selected file are reported too, so the viewer
// can reload a model that is being re-exported.
type Watcher struct {
	lib      *Library
	w        *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration

	changes chan Change
	done    chan struct{}
}

// Watch starts watching lib's directory. Call Run to process events.
func Watch(lib *Library, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(lib.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", lib.Dir(), err)
	}
	return &Watcher{
		lib:      lib,
		w:        fw,
		log:      log,
		debounce: 100 * time.Millisecond,
		changes:  make(chan Change, 16),
		done:     make(chan struct{}),
	}, nil
}

// Changes delivers model file events after the library has been refreshed.
// Events are dropped when the receiver falls behind.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run processes events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending []Change
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !IsObjName(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			w.log.Debug("model file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending = append(pending, Change{Path: event.Name, Op: event.Op})

			// Editors emit bursts of events per save.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.flush(pending)
			pending = pending[:0]
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) flush(pending []Change) {
	if err := w.lib.Refresh(); err != nil {
		w.log.Error("refresh model list", zap.Error(err))
		return
	}
	w.log.Info("model list refreshed", zap.Int("models", w.lib.Len()))
	for _, c := range pending {
		select {
		case w.changes <- c:
		default:
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	return w.w.Close()
}
