// Package store composes the tree builder, selection engine and collapse
// tracker over data loaded from a Source, and exposes the read surface a
// presentation layer renders from.
//
// Lifecycle: construct once with New, call LoadData, then serve reads and
// mutations. There is nothing to tear down; all state is in memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vanderheijden86/treepick/pkg/collapse"
	"github.com/vanderheijden86/treepick/pkg/debug"
	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/selection"
	"github.com/vanderheijden86/treepick/pkg/tree"
)

// ErrNoSource is recorded when LoadData is called on a store without a source.
var ErrNoSource = errors.New("no data source configured")

// defaultLoadError is the message recorded when a fetch fails without one.
const defaultLoadError = "Failed to load data"

// Payload is one complete fetch result.
type Payload struct {
	Folders []model.Folder
	Items   []model.Item
}

// Source supplies folders and items on request.
type Source interface {
	Fetch(ctx context.Context) (Payload, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Payload, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) (Payload, error) {
	return f(ctx)
}

// LoadState is the data loading state machine: Idle -> Loading -> Loaded|Error.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Store.
type Option func(*Store)

// WithCollapseState persists collapse state to path: it is loaded on New and
// saved after every collapse toggle.
func WithCollapseState(path string) Option {
	return func(s *Store) {
		s.collapsePath = path
	}
}

// WithLogger sets the logger used for non-fatal warnings such as parent
// cycles in loaded data. Defaults to the standard logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store holds the flat folder/item entities, the selection engine and the
// collapse tracker. Every collection is replaced wholesale, never edited in
// place, so each read derives from one consistent snapshot.
type Store struct {
	src       Source
	selection *selection.Engine
	collapse  *collapse.Tracker

	mu         sync.RWMutex
	folders    []model.Entity
	items      []model.Entity
	state      LoadState
	errMsg     string
	generation uint64

	collapsePath string
	logger       *log.Logger

	obsMu     sync.Mutex
	observers map[int]func()
	nextObsID int
}

// New creates a store reading from src.
func New(src Source, opts ...Option) *Store {
	s := &Store{
		src:       src,
		selection: selection.NewEngine(),
		collapse:  collapse.NewTracker(),
		observers: make(map[int]func()),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.collapsePath != "" {
		s.collapse.Load(s.collapsePath, s.logger)
	}
	return s
}

// LoadData starts a fetch and returns a channel that closes once this load
// has resolved. Any state can re-enter Loading. Only the most recently started
// load may apply its result; earlier loads that finish later are discarded.
// On failure the previous folders and items are kept.
func (s *Store) LoadData(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	go func() {
		defer close(done)
		start := time.Now()
		payload, err := s.fetch(ctx)
		s.resolve(gen, payload, err)
		debug.LogTiming(fmt.Sprintf("store: load %d", gen), time.Since(start))
	}()
	return done
}

// Load runs LoadData and waits for it, returning the recorded error if the
// load failed.
func (s *Store) Load(ctx context.Context) error {
	<-s.LoadData(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateError {
		return errors.New(s.errMsg)
	}
	return nil
}

func (s *Store) fetch(ctx context.Context) (Payload, error) {
	if s.src == nil {
		return Payload{}, ErrNoSource
	}
	defer debug.LogEnterExit("store fetch")()
	defer metrics.Timer(metrics.DataFetch)()
	payload, err := s.src.Fetch(ctx)
	if err != nil {
		return Payload{}, err
	}
	for _, f := range payload.Folders {
		if err := f.Validate(); err != nil {
			return Payload{}, fmt.Errorf("invalid payload: %w", err)
		}
	}
	for _, it := range payload.Items {
		if err := it.Validate(); err != nil {
			return Payload{}, fmt.Errorf("invalid payload: %w", err)
		}
	}
	return payload, nil
}

func (s *Store) resolve(gen uint64, payload Payload, err error) {
	var folders, items []model.Entity
	if err == nil {
		folders = model.FromFolders(payload.Folders)
		items = model.FromItems(payload.Items)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		debug.Log("store: discarding stale load %d (current %d)", gen, s.generation)
		return
	}
	if err != nil {
		s.state = StateError
		s.errMsg = err.Error()
		if s.errMsg == "" {
			s.errMsg = defaultLoadError
		}
	} else {
		s.folders = folders
		s.items = items
		s.state = StateLoaded
	}
	s.mu.Unlock()

	if err != nil {
		debug.Log("store: load %d failed: %v", gen, err)
	} else {
		debug.Log("store: load %d applied %d folders, %d items", gen, len(folders), len(items))
		s.warnCycles(folders, items)
	}
	s.notify()
}

func (s *Store) warnCycles(folders, items []model.Entity) {
	all := make([]model.Entity, 0, len(folders)+len(items))
	all = append(all, folders...)
	all = append(all, items...)
	for _, cycle := range tree.Cycles(all) {
		s.logger.Printf("warning: folder parent cycle %v; shown with the first member as a root", cycle)
	}
}

// TreeData derives the annotated forest from the current folders, items,
// selection map and collapse map. It is rebuilt on every call.
func (s *Store) TreeData() []*model.Node {
	s.mu.RLock()
	folders, items := s.folders, s.items
	s.mu.RUnlock()

	roots := tree.Build(folders, items)
	s.selection.Annotate(roots)
	s.collapse.Annotate(roots)
	return roots
}

// SelectedIDs returns the selected item ids in ascending numeric order.
func (s *Store) SelectedIDs() []string {
	return s.selection.SelectedIDs()
}

// IsLoading reports whether a load is in flight.
func (s *Store) IsLoading() bool {
	return s.State() == StateLoading
}

// HasError reports whether the most recent load failed.
func (s *Store) HasError() bool {
	return s.State() == StateError
}

// Error returns the message of the most recent failed load, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// State returns the current load state.
func (s *Store) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Counts returns the number of loaded folders and items.
func (s *Store) Counts() (folders, items int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.folders), len(s.items)
}

// ToggleSelection toggles node (and, for folders, every descendant item).
func (s *Store) ToggleSelection(node *model.Node) {
	if node == nil {
		return
	}
	s.selection.Toggle(node)
	s.notify()
}

// ToggleCollapsed flips a folder's collapsed flag. Items are ignored.
func (s *Store) ToggleCollapsed(node *model.Node) {
	if !node.IsFolder() {
		return
	}
	s.collapse.Toggle(node)
	if s.collapsePath != "" {
		if err := s.collapse.Save(s.collapsePath); err != nil {
			s.logger.Printf("warning: failed to save collapse state to %s: %v", s.collapsePath, err)
		}
	}
	s.notify()
}

// ClearSelection deselects every item.
func (s *Store) ClearSelection() {
	s.selection.Clear()
	s.notify()
}

// ClearAll is an alias for ClearSelection.
func (s *Store) ClearAll() {
	s.ClearSelection()
}

// Subscribe registers fn to be called after every state change and returns
// a function that removes it. fn runs on the goroutine that made the change,
// which for loads is not the caller's goroutine.
func (s *Store) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
