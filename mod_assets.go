package halftone

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

type LoadState int

const (
	LoadPending LoadState = iota
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

var (
	ErrUnknownAsset = errors.New("unknown asset")
	ErrServerClosed = errors.New("asset server closed")
)

// ModelHandle refers to a model owned by the AssetServer. The zero handle
// refers to nothing.
type ModelHandle struct {
	id AssetId
}

func (h ModelHandle) ID() AssetId    { return h.id }
func (h ModelHandle) IsZero() bool   { return h.id == "" }
func (h ModelHandle) String() string { return string(h.id) }

// ModelLoader decodes a model file into a node tree.
type ModelLoader interface {
	LoadModel(path string) (*Node, error)
}

type ModelLoaderFunc func(path string) (*Node, error)

func (f ModelLoaderFunc) LoadModel(path string) (*Node, error) { return f(path) }

type modelAsset struct {
	path  string
	state LoadState
	root  *Node
	err   error
}

type loadResult struct {
	id   AssetId
	root *Node
	err  error
}

// AssetServer owns loaded models. Loads run on their own goroutines and post
// results to a channel; state only changes when the frame thread drains it
// in Poll or Wait.
type AssetServer struct {
	loader  ModelLoader
	log     Logger
	models  map[AssetId]*modelAsset
	results chan loadResult
	pending int

	done      chan struct{}
	closeOnce sync.Once
	inflight  sync.WaitGroup
}

func NewAssetServer(loader ModelLoader, log Logger) *AssetServer {
	if log == nil {
		log = NewNopLogger()
	}
	return &AssetServer{
		loader:  loader,
		log:     log,
		models:  make(map[AssetId]*modelAsset),
		results: make(chan loadResult),
		done:    make(chan struct{}),
	}
}

// LoadModel starts loading path in the background and returns immediately.
func (s *AssetServer) LoadModel(path string) ModelHandle {
	id := makeAssetId()
	s.models[id] = &modelAsset{path: path, state: LoadPending}
	s.pending++
	s.log.Debugf("Loading model %s (%s)", path, id)
	s.inflight.Add(1)
	go func(loader ModelLoader) {
		defer s.inflight.Done()
		r := runLoader(loader, id, path)
		select {
		case s.results <- r:
		case <-s.done:
		}
	}(s.loader)
	return ModelHandle{id: id}
}

// runLoader turns a panicking loader into a failed load.
func runLoader(loader ModelLoader, id AssetId, path string) (r loadResult) {
	r.id = id
	defer func() {
		if p := recover(); p != nil {
			r.root, r.err = nil, fmt.Errorf("%s: loader panicked: %v", path, p)
		}
	}()
	r.root, r.err = loader.LoadModel(path)
	return r
}

// Close abandons loads still in flight. Their results are dropped when they
// finish. Models already loaded stay available.
func (s *AssetServer) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// CreateModel registers an already built node tree as a loaded model.
func (s *AssetServer) CreateModel(name string, root *Node) ModelHandle {
	id := makeAssetId()
	s.models[id] = &modelAsset{path: name, state: LoadLoaded, root: root}
	return ModelHandle{id: id}
}

// Poll applies every load result that is ready without blocking and reports
// how many were applied.
func (s *AssetServer) Poll() int {
	n := 0
	for s.pending > 0 {
		select {
		case r := <-s.results:
			s.apply(r)
			n++
		default:
			return n
		}
	}
	return n
}

// Wait blocks until every load started so far has completed or ctx ends.
func (s *AssetServer) Wait(ctx context.Context) error {
	for s.pending > 0 {
		select {
		case r := <-s.results:
			s.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrServerClosed
		}
	}
	return nil
}

// Pending reports how many loads are still in flight.
func (s *AssetServer) Pending() int {
	return s.pending
}

func (s *AssetServer) apply(r loadResult) {
	s.pending--
	m, ok := s.models[r.id]
	if !ok {
		return
	}
	if r.err == nil && r.root == nil {
		r.err = fmt.Errorf("%s: loader returned no model", m.path)
	}
	if r.err != nil {
		m.state = LoadFailed
		m.err = r.err
		s.log.Warnf("Model %s failed to load: %v", m.path, r.err)
		return
	}
	m.state = LoadLoaded
	m.root = r.root
	s.log.Infof("Model %s loaded", m.path)
}

func (s *AssetServer) State(h ModelHandle) LoadState {
	if m, ok := s.models[h.id]; ok {
		return m.state
	}
	return LoadFailed
}

// Model returns the loaded node tree. It is shared; callers that attach it
// to a scene should Clone it.
func (s *AssetServer) Model(h ModelHandle) (*Node, bool) {
	m, ok := s.models[h.id]
	if !ok || m.state != LoadLoaded {
		return nil, false
	}
	return m.root, true
}

// Err returns why a model failed to load.
func (s *AssetServer) Err(h ModelHandle) error {
	m, ok := s.models[h.id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, h.id)
	}
	return m.err
}

func (s *AssetServer) Path(h ModelHandle) string {
	if m, ok := s.models[h.id]; ok {
		return m.path
	}
	return ""
}

// AssetServerModule installs an AssetServer and drains finished loads at the
// start of PreUpdate. Loader defaults to FileModelLoader.
type AssetServerModule struct {
	Loader ModelLoader
}

func (mod AssetServerModule) Install(app *App, cmd *Commands) {
	loader := mod.Loader
	if loader == nil {
		loader = FileModelLoader{}
	}
	server := NewAssetServer(loader, app.Logger().Named("assets"))
	cmd.AddResources(server)
	app.OnShutdown(server.Close)
	app.UseSystem(System(assetLoadSystem).InStage(PreUpdate))
}

func assetLoadSystem(server *AssetServer) {
	server.Poll()
}
