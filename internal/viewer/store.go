package viewer

import (
	"sync/atomic"

	"github.com/Faultbox/celview/pkg/obj"
)

// Model is one published mesh. It is never modified after publication.
type Model struct {
	Path       string
	Mesh       *obj.Mesh
	Report     *obj.Report
	Generation uint64
}

// Store publishes the current model as a single atomic pointer swap, so a
// reader sees either the previous model or the next one, never a mix.
type Store struct {
	current atomic.Pointer[Model]
	gen     atomic.Uint64
}

// NewStore returns a store holding an empty model at generation 0.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Model{Mesh: &obj.Mesh{}, Report: &obj.Report{}})
	return s
}

// Current returns the latest published model. It is never nil.
func (s *Store) Current() *Model {
	return s.current.Load()
}

// Publish makes mesh the current model and returns it.
func (s *Store) Publish(path string, mesh *obj.Mesh, rep *obj.Report) *Model {
	if mesh == nil {
		mesh = &obj.Mesh{}
	}
	if rep == nil {
		rep = &obj.Report{Path: path}
	}
	m := &Model{
		Path:       path,
		Mesh:       mesh,
		Report:     rep,
		Generation: s.gen.Add(1),
	}
	s.current.Store(m)
	return m
}
