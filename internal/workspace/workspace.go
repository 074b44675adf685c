// Package workspace owns the catalog state of each signed-in user and keeps
// the store in sync with it.
//
// A workspace moves Uninitialized -> Loading -> Ready. Until it is Ready,
// mutations only change memory: nothing is written, so defaults can never
// overwrite data that has not been loaded yet.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/store"
	"smashcost-backend/internal/supply"
)

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
)

var (
	ErrNotReady = errors.New("workspace is not loaded")
	// ErrReleased is returned by Mutate once the user has signed out.
	ErrReleased = errors.New("workspace has been released")
)

// Options are shared by every workspace of a Manager.
type Options struct {
	Store    store.Store
	Policy   catalog.Policy
	Defaults func() ([]models.Product, supply.Catalog)
	NewID    func() string
}

type Workspace struct {
	userID uint
	opts   Options

	mu     sync.Mutex
	loaded *sync.Cond
	status Status
	state  catalog.State

	// set on sign-out
	released bool

	persisters map[models.CollectionKind]*persister
}

func New(userID uint, opts Options) *Workspace {
	w := &Workspace{
		userID: userID,
		opts:   opts,
		status: StatusUninitialized,
	}
	w.loaded = sync.NewCond(&w.mu)

	products, supplies := opts.Defaults()
	w.state = catalog.New(products, supplies, opts.Policy)

	w.persisters = make(map[models.CollectionKind]*persister, 2)
	for _, kind := range []models.CollectionKind{models.KindProducts, models.KindSupplies} {
		kind := kind
		w.persisters[kind] = newPersister(fmt.Sprintf("%s of user %d", kind, userID), func(ctx context.Context, data []byte) error {
			return opts.Store.Save(ctx, userID, kind, data)
		})
	}
	return w
}

func (w *Workspace) UserID() uint { return w.userID }

func (w *Workspace) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Load reads both collections once. Concurrent callers wait for the running
// load. A failed load leaves the workspace Uninitialized so that the next call
// retries.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	for w.status == StatusLoading {
		w.loaded.Wait()
	}
	if w.status == StatusReady {
		w.mu.Unlock()
		return nil
	}
	w.status = StatusLoading
	w.mu.Unlock()

	products, supplies, err := w.fetch(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	defer w.loaded.Broadcast()

	if err != nil {
		w.status = StatusUninitialized
		return err
	}

	if products == nil {
		products = w.state.Products
	} else if len(products) == 0 {
		products = []models.Product{catalog.NewProduct(w.opts.NewID())}
	}
	if supplies == nil {
		supplies = w.state.Supplies
	}
	w.state = catalog.New(products, supplies, w.opts.Policy)
	w.status = StatusReady
	return nil
}

// fetch returns nil collections for kinds that were never saved.
func (w *Workspace) fetch(ctx context.Context) ([]models.Product, supply.Catalog, error) {
	var products []models.Product
	var supplies supply.Catalog

	data, err := w.opts.Store.Load(ctx, w.userID, models.KindProducts)
	if err != nil {
		return nil, nil, err
	}
	if data != nil {
		products = []models.Product{}
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, nil, fmt.Errorf("decode products of user %d: %w", w.userID, err)
		}
	}

	data, err = w.opts.Store.Load(ctx, w.userID, models.KindSupplies)
	if err != nil {
		return nil, nil, err
	}
	if data != nil {
		supplies = supply.Catalog{}
		if err := json.Unmarshal(data, &supplies); err != nil {
			return nil, nil, fmt.Errorf("decode supplies of user %d: %w", w.userID, err)
		}
	}

	return products, supplies, nil
}

// State returns the current state. States are never modified in place, so the
// value can be read without holding the lock.
func (w *Workspace) State() catalog.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Mutate applies fn and commits its result. When the workspace is Ready, the
// collections listed in kinds are saved in the background. A result that
// cannot be encoded is not committed.
func (w *Workspace) Mutate(fn func(s catalog.State) (catalog.State, error), kinds ...models.CollectionKind) (catalog.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return w.state, ErrReleased
	}

	next, err := fn(w.state)
	if err != nil {
		return w.state, err
	}

	snapshots := make(map[models.CollectionKind][]byte, len(kinds))
	for _, kind := range kinds {
		data, err := encode(next, kind)
		if err != nil {
			return w.state, err
		}
		snapshots[kind] = data
	}

	w.state = next
	if w.status != StatusReady {
		return next, nil
	}
	for _, kind := range kinds {
		w.persisters[kind].submit(snapshots[kind])
	}
	return next, nil
}

// Select applies a selection change. Selection is never persisted.
func (w *Workspace) Select(fn func(s catalog.State) catalog.State) catalog.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = fn(w.state)
	return w.state
}

func encode(s catalog.State, kind models.CollectionKind) ([]byte, error) {
	switch kind {
	case models.KindProducts:
		return json.Marshal(s.Products)
	case models.KindSupplies:
		return json.Marshal(s.Supplies)
	default:
		return nil, fmt.Errorf("unknown collection %q", kind)
	}
}

// release refuses later mutations. Mutations committed before it are already
// handed to the persisters, so a following Flush writes all of them.
func (w *Workspace) release() {
	w.mu.Lock()
	w.released = true
	w.mu.Unlock()
}

// Flush waits until every pending save has been written.
func (w *Workspace) Flush() {
	for _, p := range w.persisters {
		p.wait()
	}
}

// SaveResults returns the last save outcome per collection, nil when never saved.
func (w *Workspace) SaveResults() map[models.CollectionKind]*SaveResult {
	out := make(map[models.CollectionKind]*SaveResult, len(w.persisters))
	for kind, p := range w.persisters {
		out[kind] = p.lastResult()
	}
	return out
}
