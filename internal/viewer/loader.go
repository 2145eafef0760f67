package viewer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/celview/pkg/obj"
)

// Loader reads OBJ files into a Store, on the calling goroutine or in the
// background. When several background loads overlap, only the most recently
// requested one is published.
type Loader struct {
	store *Store
	log   *zap.Logger

	mu  sync.Mutex // serialises the stale check with Publish
	seq atomic.Uint64
	wg  sync.WaitGroup

	// onPublish, if set, is called after a model becomes current, on the
	// goroutine that loaded it.
	onPublish func(*Model)
}

// NewLoader creates a loader publishing into store. A nil log discards output.
func NewLoader(store *Store, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{store: store, log: log}
}

// Load reads path and publishes the result. Problems in the file are logged
// and never prevent publication: a missing file publishes an empty mesh.
func (l *Loader) Load(path string) *Model {
	id := l.seq.Add(1)
	mesh, rep := l.read(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.publish(id, path, mesh, rep)
}

// LoadAsync reads path on a new goroutine. The result is dropped when ctx is
// cancelled first or when a later Load or LoadAsync has been requested.
func (l *Loader) LoadAsync(ctx context.Context, path string) {
	id := l.seq.Add(1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		mesh, rep := l.read(path)
		if err := ctx.Err(); err != nil {
			l.log.Debug("load cancelled", zap.String("path", path), zap.Error(err))
			return
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.seq.Load() != id {
			l.log.Debug("load superseded", zap.String("path", path))
			return
		}
		l.publish(id, path, mesh, rep)
	}()
}

// Wait blocks until every background load has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) read(path string) (*obj.Mesh, *obj.Report) {
	start := time.Now()
	mesh, rep := obj.LoadModel(path)
	l.logReport(rep)
	l.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("faces", mesh.FaceCount()),
		zap.Duration("took", time.Since(start)),
	)
	return mesh, rep
}

func (l *Loader) publish(id uint64, path string, mesh *obj.Mesh, rep *obj.Report) *Model {
	m := l.store.Publish(path, mesh, rep)
	l.log.Debug("model published",
		zap.String("path", path),
		zap.Uint64("request", id),
		zap.Uint64("generation", m.Generation),
	)
	if l.onPublish != nil {
		l.onPublish(m)
	}
	return m
}

func (l *Loader) logReport(rep *obj.Report) {
	if rep.Err != nil {
		l.log.Error("cannot read model", zap.String("path", rep.Path), zap.Error(rep.Err))
	}
	for _, le := range rep.Lines {
		l.log.Warn("malformed record skipped",
			zap.String("path", le.Path),
			zap.Int("line", le.Line),
			zap.String("record", le.Keyword),
			zap.Error(le.Err),
		)
	}
	if rep.SkippedFaces > 0 {
		l.log.Warn("faces with out-of-range indices dropped",
			zap.String("path", rep.Path),
			zap.Int("count", rep.SkippedFaces),
		)
	}
}
