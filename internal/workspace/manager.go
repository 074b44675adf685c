package workspace

import (
	"context"
	"log"
	"sync"
)

// Manager keeps one workspace per signed-in user.
type Manager struct {
	opts Options

	mu         sync.Mutex
	workspaces map[uint]*Workspace
	// closed once the pending saves of a released workspace are written
	releasing  map[uint]chan struct{}
}

func NewManager(opts Options) *Manager {
	return &Manager{
		opts:       opts,
		workspaces: make(map[uint]*Workspace),
		releasing:  make(map[uint]chan struct{}),
	}
}

// Get returns the workspace of the user, creating an unloaded one if needed.
// While a previous workspace of the user is being released, Get waits for its
// saves so that the new one loads what was committed before.
func (m *Manager) Get(userID uint) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		done, ok := m.releasing[userID]
		if !ok {
			break
		}
		m.mu.Unlock()
		<-done
		m.mu.Lock()
	}

	w, ok := m.workspaces[userID]
	if !ok {
		w = New(userID, m.opts)
		m.workspaces[userID] = w
	}
	return w
}

// Acquire returns a Ready workspace, loading it first when necessary.
func (m *Manager) Acquire(ctx context.Context, userID uint) (*Workspace, error) {
	w := m.Get(userID)
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Warm loads the workspace in the background, used right after sign-in.
func (m *Manager) Warm(userID uint) {
	go func() {
		if _, err := m.Acquire(context.Background(), userID); err != nil {
			log.Printf("[WARN] loading workspace of user %d failed: %v", userID, err)
		}
	}()
}

// Release writes pending saves and forgets the workspace, used on sign-out.
// Requests still holding the workspace can no longer change it.
func (m *Manager) Release(userID uint) {
	m.mu.Lock()
	w, ok := m.workspaces[userID]
	if !ok {
		m.mu.Unlock()
		return
	}
	done := make(chan struct{})
	m.releasing[userID] = done
	delete(m.workspaces, userID)
	m.mu.Unlock()

	w.release()
	w.Flush()

	m.mu.Lock()
	delete(m.releasing, userID)
	close(done)
	m.mu.Unlock()
}
